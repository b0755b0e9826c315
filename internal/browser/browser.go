package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/snapview/internal/logging"
	"github.com/raysh454/snapview/internal/model"
)

// Runner drives one exclusive headless Chrome session per Capture call. The
// allocator and browser contexts are torn down on every exit path, so no
// browser process outlives a call.
type Runner struct {
	cfg    Config
	logger logging.Logger
}

// New creates a Runner. A nil logger is replaced with a noop logger.
func New(cfg Config, logger logging.Logger) *Runner {
	if logger == nil {
		logger = &logging.NoopLogger{}
	}
	if cfg.ReadinessTimeout <= 0 {
		cfg.ReadinessTimeout = DefaultConfig().ReadinessTimeout
	}
	if cfg.WindowWidth <= 0 || cfg.WindowHeight <= 0 {
		def := DefaultConfig()
		cfg.WindowWidth, cfg.WindowHeight = def.WindowWidth, def.WindowHeight
	}
	return &Runner{
		cfg:    cfg,
		logger: logger.With(logging.Field{Key: "component", Value: "browser"}),
	}
}

// CaptureResult holds the raw output of one browser session.
type CaptureResult struct {
	// HTML is the rendered outer HTML of the document.
	HTML string

	// Screenshot is the full-page capture as PNG bytes.
	Screenshot []byte
}

// Capture navigates to targetURL, waits for the document body to be ready,
// and returns the rendered HTML plus a full-page screenshot. When proxy is
// non-nil the session is routed through it. Network activity is appended to
// the performance log at perfLogPath (any prior log file is removed first);
// an empty perfLogPath disables the log.
func (r *Runner) Capture(ctx context.Context, targetURL string, proxy *model.ProxyEndpoint, perfLogPath string) (*CaptureResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadinessTimeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOptions(proxy)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if perfLogPath != "" {
		pl, err := attachPerfLog(browserCtx, perfLogPath)
		if err != nil {
			// The log is a secondary artifact; a run without it is still a run.
			r.logger.Warn("attaching performance log",
				logging.Field{Key: "path", Value: perfLogPath},
				logging.Field{Key: "error", Value: err.Error()})
		} else {
			defer pl.Close()
		}
	}

	r.logger.Info("starting browser session",
		logging.Field{Key: "url", Value: targetURL},
		logging.Field{Key: "proxy", Value: proxyField(proxy)})

	var html string
	var shot []byte
	err := chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
		chromedp.FullScreenshot(&shot, 100),
	)
	if err != nil {
		r.logger.Warn("browser session failed",
			logging.Field{Key: "url", Value: targetURL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("browser session for %s: %w", targetURL, err)
	}

	r.logger.Info("captured page",
		logging.Field{Key: "url", Value: targetURL},
		logging.Field{Key: "html_bytes", Value: len(html)},
		logging.Field{Key: "screenshot_bytes", Value: len(shot)})

	return &CaptureResult{HTML: html, Screenshot: shot}, nil
}

// Classify maps a Capture error to the error kind surfaced on the run
// result: deadline expiry is a timeout, anything else a navigation failure.
func Classify(err error) model.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return model.ErrTimeout
	}
	return model.ErrNavigationFailed
}

func (r *Runner) allocatorOptions(proxy *model.ProxyEndpoint) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-features", "NetworkService,VizDisplayCompositor"),
		chromedp.IgnoreCertErrors,
		chromedp.WindowSize(r.cfg.WindowWidth, r.cfg.WindowHeight),
	)
	if arg, ok := proxyServerArg(proxy); ok {
		opts = append(opts, chromedp.ProxyServer(arg))
	}
	return opts
}

// proxyServerArg builds the --proxy-server value. The flag is injected only
// when both the endpoint address and a valid protocol are present.
func proxyServerArg(proxy *model.ProxyEndpoint) (string, bool) {
	if proxy == nil || !proxy.Protocol.Valid() || proxy.Addr() == "" {
		return "", false
	}
	return fmt.Sprintf("%s://%s", proxy.Protocol, proxy.Addr()), true
}

func proxyField(proxy *model.ProxyEndpoint) string {
	if arg, ok := proxyServerArg(proxy); ok {
		return arg
	}
	return "none"
}
