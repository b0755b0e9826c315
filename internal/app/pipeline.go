package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/raysh454/snapview/internal/artifact"
	"github.com/raysh454/snapview/internal/browser"
	"github.com/raysh454/snapview/internal/extract"
	"github.com/raysh454/snapview/internal/history"
	"github.com/raysh454/snapview/internal/logging"
	"github.com/raysh454/snapview/internal/model"
	"github.com/raysh454/snapview/internal/proxylist"
	"github.com/raysh454/snapview/internal/urlutil"
)

// Capturer is the browser dependency of the pipeline. Satisfied by
// *browser.Runner; tests substitute fakes.
type Capturer interface {
	Capture(ctx context.Context, targetURL string, proxy *model.ProxyEndpoint, perfLogPath string) (*browser.CaptureResult, error)
}

// Pipeline executes one capture run at a time: validate the URL, drive the
// browser (optionally through a proxy), write the screenshot, extract text
// and contacts, and journal the run. It never returns errors past the Run
// boundary; failures become ErrorKinds on the result.
type Pipeline struct {
	cfg       *Config
	capturer  Capturer
	selector  *proxylist.Selector
	extractor *extract.Extractor
	store     *history.Store
	logger    logging.Logger
}

// NewPipeline wires a Pipeline. store may be nil to disable journaling; a
// nil logger is replaced with a noop logger.
func NewPipeline(cfg *Config, capturer Capturer, selector *proxylist.Selector, store *history.Store, logger logging.Logger) *Pipeline {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = &logging.NoopLogger{}
	}
	return &Pipeline{
		cfg:       cfg,
		capturer:  capturer,
		selector:  selector,
		extractor: extract.New(cfg.ExtractCfg, logger),
		store:     store,
		logger:    logger.With(logging.Field{Key: "component", Value: "pipeline"}),
	}
}

// Selector exposes the proxy selector for callers that present proxy lists.
func (p *Pipeline) Selector() *proxylist.Selector {
	return p.selector
}

// PickProxy fetches the filtered proxy list for proto (optionally narrowed
// to one country) and returns the first endpoint. A nil endpoint plus a
// cause string means no proxy is available; callers treat that as a normal,
// displayable outcome.
func (p *Pipeline) PickProxy(ctx context.Context, proto model.Protocol, country string) (*model.ProxyEndpoint, string) {
	if p.selector == nil {
		return nil, "proxy selector not configured"
	}
	list, cause := p.selector.Proxies(ctx, proto, country)
	if cause != "" {
		return nil, cause
	}
	ep := list[0]
	return &ep, ""
}

// Run executes the pipeline for req and returns the result plus the journal
// record (nil when journaling is disabled or failed).
func (p *Pipeline) Run(ctx context.Context, req model.RunRequest) (*model.RunResult, *model.RunRecord) {
	return p.RunWithProgress(ctx, req, nil)
}

// RunWithProgress is Run with stage notifications. notify, when non-nil, is
// called synchronously from the pipeline goroutine for each stage; it must
// not block for long.
func (p *Pipeline) RunWithProgress(ctx context.Context, req model.RunRequest, notify func(model.RunEvent)) (*model.RunResult, *model.RunRecord) {
	emit := func(ev model.RunEvent) {
		if notify != nil {
			notify(ev)
		}
	}

	res := &model.RunResult{
		Contacts: model.Contacts{Emails: []string{}, Phones: []string{}},
	}

	emit(model.RunEvent{Stage: model.StageValidating, URL: req.TargetURL})
	normalized, err := urlutil.Normalize(req.TargetURL, p.cfg.URLOpts)
	if err != nil {
		res.Error = model.ErrInvalidURL
		res.Cause = err.Error()
		// Validation failures abort before any browser launch and are not
		// journaled: there is no meaningful URL key to record them under.
		emit(model.RunEvent{Stage: model.StageFailed, URL: req.TargetURL, Detail: res.Cause})
		return res, nil
	}

	if req.Proxy != nil {
		emit(model.RunEvent{Stage: model.StageProxySelected, URL: normalized, Detail: req.Proxy.Addr()})
	}

	if err := artifact.EnsureDir(p.cfg.ScreenshotDir()); err != nil {
		res.Error = model.ErrScreenshotWrite
		res.Cause = err.Error()
		emit(model.RunEvent{Stage: model.StageFailed, URL: normalized, Detail: res.Cause})
		return res, p.record(ctx, normalized, req, res)
	}

	perfLogPath, err := artifact.PerfLogPath(p.cfg.StorageRoot)
	if err != nil {
		p.logger.Warn("preparing performance log path",
			logging.Field{Key: "error", Value: err.Error()})
		perfLogPath = ""
	}

	emit(model.RunEvent{Stage: model.StageNavigating, URL: normalized})
	capRes, err := p.capturer.Capture(ctx, normalized, req.Proxy, perfLogPath)
	if err != nil {
		res.Error = browser.Classify(err)
		res.Cause = err.Error()
		emit(model.RunEvent{Stage: model.StageFailed, URL: normalized, Detail: res.Cause})
		return res, p.record(ctx, normalized, req, res)
	}

	shotPath := artifact.UniqueScreenshotPath(normalized, p.cfg.ScreenshotDir(), time.Now())
	if err := os.WriteFile(shotPath, capRes.Screenshot, 0o644); err != nil {
		res.Error = model.ErrScreenshotWrite
		res.Cause = err.Error()
		emit(model.RunEvent{Stage: model.StageFailed, URL: normalized, Detail: res.Cause})
		return res, p.record(ctx, normalized, req, res)
	}
	res.ScreenshotPath = shotPath
	emit(model.RunEvent{Stage: model.StageCaptured, URL: normalized, Detail: shotPath})

	text, contacts, err := p.extractor.Extract(capRes.HTML)
	if err != nil {
		// Non-fatal: the screenshot stands, contacts degrade to empty.
		res.Warning = fmt.Sprintf("%s: %v", model.ErrExtractionFailed, err)
		p.logger.Warn("extraction degraded",
			logging.Field{Key: "url", Value: normalized},
			logging.Field{Key: "error", Value: err.Error()})
	} else {
		res.PageText = text
		res.Contacts = contacts
		emit(model.RunEvent{Stage: model.StageExtracted, URL: normalized})
	}

	p.logger.Info("run finished",
		logging.Field{Key: "url", Value: normalized},
		logging.Field{Key: "host", Value: urlutil.Hostname(normalized)},
		logging.Field{Key: "screenshot", Value: shotPath},
		logging.Field{Key: "emails", Value: len(res.Contacts.Emails)},
		logging.Field{Key: "phones", Value: len(res.Contacts.Phones)})

	rec := p.record(ctx, normalized, req, res)
	emit(model.RunEvent{Stage: model.StageDone, URL: normalized})
	return res, rec
}

// record journals the run. Journal failures are logged, never fatal.
func (p *Pipeline) record(ctx context.Context, url string, req model.RunRequest, res *model.RunResult) *model.RunRecord {
	if p.store == nil {
		return nil
	}
	rec, err := p.store.Record(ctx, url, req, res)
	if err != nil {
		p.logger.Warn("journaling run",
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "error", Value: err.Error()})
		return nil
	}
	return rec
}
