package browser

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// perfEntry is one JSON line in the performance log.
type perfEntry struct {
	Time      string `json:"time"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id"`
	URL       string `json:"url,omitempty"`
	Status    int64  `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// perfLog appends the session's network events to a file as JSON lines. The
// previous log file is removed before the session starts; logs are
// per-run, not accumulated.
type perfLog struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// attachPerfLog registers a cdproto network listener on ctx that writes to
// path. The returned perfLog must be closed after the session ends.
func attachPerfLog(ctx context.Context, path string) (*perfLog, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	pl := &perfLog{f: f, enc: json.NewEncoder(f)}

	chromedp.ListenTarget(ctx, func(ev any) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			pl.write(perfEntry{
				Kind:      "request",
				RequestID: e.RequestID.String(),
				URL:       e.Request.URL,
			})
		case *network.EventResponseReceived:
			pl.write(perfEntry{
				Kind:      "response",
				RequestID: e.RequestID.String(),
				URL:       e.Response.URL,
				Status:    e.Response.Status,
			})
		case *network.EventLoadingFailed:
			pl.write(perfEntry{
				Kind:      "loading_failed",
				RequestID: e.RequestID.String(),
				Error:     e.ErrorText,
			})
		}
	})

	return pl, nil
}

func (pl *perfLog) write(entry perfEntry) {
	entry.Time = time.Now().UTC().Format(time.RFC3339Nano)
	pl.mu.Lock()
	defer pl.mu.Unlock()
	if pl.f == nil {
		return
	}
	// Drop entries that fail to encode; the log is best-effort.
	_ = pl.enc.Encode(entry)
}

// Close flushes and closes the log file. Events arriving after Close are
// discarded.
func (pl *perfLog) Close() error {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	if pl.f == nil {
		return nil
	}
	err := pl.f.Close()
	pl.f = nil
	pl.enc = nil
	return err
}
