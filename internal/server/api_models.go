package server

import "github.com/raysh454/snapview/internal/model"

// StartRunRequest is the payload for starting a capture run. It is also the
// first message a websocket client sends on /ws/runs.
type StartRunRequest struct {
	URL string `json:"url" example:"https://example.com"`

	// UseProxy routes the browser through a free proxy picked from the
	// public lists. Protocol selects which list; Country optionally narrows
	// it to one ISO code.
	UseProxy bool   `json:"use_proxy" example:"true"`
	Protocol string `json:"protocol" example:"socks5"`
	Country  string `json:"country" example:"FR"`
}

// RunResponse bundles the outcome of a run with its journal record.
type RunResponse struct {
	Result *model.RunResult `json:"result"`
	Record *model.RunRecord `json:"record,omitempty"`

	// ProxyWarning is set when a proxy was requested but none could be
	// obtained; the run then proceeded with a direct connection.
	ProxyWarning string `json:"proxy_warning,omitempty"`
}

// ProxyListResponse is the filtered proxy list for one protocol.
type ProxyListResponse struct {
	Proxies []model.ProxyEndpoint `json:"proxies"`
	Cause   string                `json:"cause,omitempty"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"run not found"`
}
