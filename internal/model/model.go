package model

import (
	"net"
	"strconv"
	"time"
)

// Protocol identifies the SOCKS flavor a proxy endpoint speaks.
type Protocol string

const (
	ProtocolSOCKS4 Protocol = "socks4"
	ProtocolSOCKS5 Protocol = "socks5"
)

// Valid reports whether p is one of the known protocols.
func (p Protocol) Valid() bool {
	return p == ProtocolSOCKS4 || p == ProtocolSOCKS5
}

// ErrorKind classifies pipeline failures for display and storage.
type ErrorKind string

const (
	// ErrInvalidURL means the input did not parse as a URL even after
	// scheme normalization. Aborts the run before any browser launch.
	ErrInvalidURL ErrorKind = "invalid_url"

	// ErrProxyFetchFailed means the upstream proxy list could not be
	// fetched. Non-fatal: the run proceeds without a proxy.
	ErrProxyFetchFailed ErrorKind = "proxy_fetch_failed"

	// ErrNavigationFailed means the browser could not load the target.
	ErrNavigationFailed ErrorKind = "navigation_failed"

	// ErrTimeout means the readiness condition was not met in time.
	ErrTimeout ErrorKind = "timeout"

	// ErrScreenshotWrite means the capture could not be written to disk.
	ErrScreenshotWrite ErrorKind = "screenshot_write_failed"

	// ErrExtractionFailed means the page markup could not be parsed.
	// Non-fatal: contacts and text degrade to empty values.
	ErrExtractionFailed ErrorKind = "extraction_failed"
)

// ProxyEndpoint is one normalized proxy record. Both upstream list APIs map
// into this shape regardless of how they name their fields.
type ProxyEndpoint struct {
	Host        string   `json:"host"`
	Port        int      `json:"port"`
	CountryCode string   `json:"country_code"`
	Protocol    Protocol `json:"protocol"`
}

// Addr returns the host:port form used for --proxy-server.
func (p ProxyEndpoint) Addr() string {
	if p.Host == "" || p.Port == 0 {
		return ""
	}
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// RunRequest describes one capture invocation. Immutable once constructed.
type RunRequest struct {
	// TargetURL is the raw user-supplied URL; the pipeline normalizes it.
	TargetURL string `json:"target_url"`

	// Proxy, when non-nil, routes the browser session through the endpoint.
	Proxy *ProxyEndpoint `json:"proxy,omitempty"`
}

// Run stages reported over the progress stream, in pipeline order.
const (
	StageValidating    = "validating"
	StageProxySelected = "proxy_selected"
	StageNavigating    = "navigating"
	StageCaptured      = "captured"
	StageExtracted     = "extracted"
	StageDone          = "done"
	StageFailed        = "failed"
)

// RunEvent is one progress notification emitted while a run executes.
type RunEvent struct {
	Stage string `json:"stage"`
	URL   string `json:"url,omitempty"`

	// Detail carries stage-specific context: the proxy address for
	// proxy_selected, the cause string for failed.
	Detail string `json:"detail,omitempty"`
}

// Contacts holds pattern-matched contact fields pulled from the page text.
// Slices are empty, never nil, whenever extraction ran.
type Contacts struct {
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
}

// RunResult is the terminal outcome of one pipeline run.
//
// Invariant: Error set implies ScreenshotPath empty. A run that captured a
// screenshot but failed extraction is a partial success: ScreenshotPath is
// set, Error is empty, and Warning carries the extraction cause.
type RunResult struct {
	ScreenshotPath string    `json:"screenshot_path,omitempty"`
	PageText       string    `json:"page_text,omitempty"`
	Contacts       Contacts  `json:"contacts"`
	Error          ErrorKind `json:"error,omitempty"`

	// Cause is the underlying error string for display. Set alongside Error
	// and for non-fatal degradations.
	Cause string `json:"cause,omitempty"`

	// Warning surfaces non-fatal degradations (proxy fetch, extraction).
	Warning string `json:"warning,omitempty"`
}

// Failed reports whether the run terminated without a usable screenshot.
func (r *RunResult) Failed() bool {
	return r.Error != ""
}

// RunRecord is a journaled run as stored in the history database.
type RunRecord struct {
	ID             string    `json:"id"`
	URL            string    `json:"url"`
	ProxyAddr      string    `json:"proxy_addr,omitempty"`
	Protocol       Protocol  `json:"protocol,omitempty"`
	ScreenshotPath string    `json:"screenshot_path,omitempty"`
	PageText       string    `json:"page_text,omitempty"`
	Contacts       Contacts  `json:"contacts"`
	Error          ErrorKind `json:"error,omitempty"`
	Cause          string    `json:"cause,omitempty"`

	// TextDiff is a JSON-encoded diff against the previous record for the
	// same URL, empty for the first capture.
	TextDiff string `json:"text_diff,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
