package proxylist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/raysh454/snapview/internal/logging"
	"github.com/raysh454/snapview/internal/model"
)

// Selector fetches free proxy lists from the upstream APIs, normalizes both
// response shapes into model.ProxyEndpoint, and serves them through a short
// TTL cache so repeated UI interactions do not hammer the upstreams.
//
// Failures are normal, displayable outcomes here: every method returns the
// (possibly empty) list plus a human-readable cause string instead of an
// error.
type Selector struct {
	cfg    Config
	client *http.Client
	cache  *Cache
	logger logging.Logger
}

// New creates a Selector. A nil httpClient gets a default one bounded by the
// configured request timeout; a nil logger is replaced with a noop logger.
func New(cfg Config, logger logging.Logger, httpClient *http.Client) *Selector {
	if logger == nil {
		logger = &logging.NoopLogger{}
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &Selector{
		cfg:    cfg,
		client: httpClient,
		cache:  NewCache(cfg.CacheTTL),
		logger: logger.With(logging.Field{Key: "component", Value: "proxylist"}),
	}
}

// Proxies returns the allow-list-filtered, deduplicated proxy list for the
// given protocol, optionally narrowed to a single country code. The second
// return value is a non-empty cause string when the list is empty.
func (s *Selector) Proxies(ctx context.Context, proto model.Protocol, country string) ([]model.ProxyEndpoint, string) {
	all, cause := s.Fetch(ctx, proto)
	if cause != "" {
		return []model.ProxyEndpoint{}, cause
	}

	filtered := FilterByCountry(all, s.cfg.AllowedCountries)
	if country != "" {
		filtered = FilterByCountry(filtered, []string{country})
	}
	if len(filtered) == 0 {
		return filtered, fmt.Sprintf("no %s proxies available in allowed countries", proto)
	}
	return filtered, ""
}

// Fetch returns the full normalized, deduplicated list for proto, from cache
// when fresh. The second return value is a non-empty cause string on failure.
func (s *Selector) Fetch(ctx context.Context, proto model.Protocol) ([]model.ProxyEndpoint, string) {
	if !proto.Valid() {
		return []model.ProxyEndpoint{}, fmt.Sprintf("unknown proxy protocol %q", proto)
	}

	if cached, ok := s.cache.Get(proto); ok {
		s.logger.Debug("proxy list cache hit",
			logging.Field{Key: "protocol", Value: string(proto)},
			logging.Field{Key: "count", Value: len(cached)})
		return cached, ""
	}

	var (
		proxies []model.ProxyEndpoint
		err     error
	)
	switch proto {
	case model.ProtocolSOCKS4:
		proxies, err = s.fetchProxyScrape(ctx)
	case model.ProtocolSOCKS5:
		proxies, err = s.fetchMTPro(ctx)
	}
	if err != nil {
		s.logger.Warn("fetching proxy list",
			logging.Field{Key: "protocol", Value: string(proto)},
			logging.Field{Key: "error", Value: err.Error()})
		return []model.ProxyEndpoint{}, fmt.Sprintf("fetching %s proxy list: %v", proto, err)
	}

	proxies = dedupe(proxies)
	if len(proxies) == 0 {
		return proxies, fmt.Sprintf("%s proxy list is empty", proto)
	}

	s.cache.Put(proto, proxies)
	s.logger.Info("fetched proxy list",
		logging.Field{Key: "protocol", Value: string(proto)},
		logging.Field{Key: "count", Value: len(proxies)})
	return proxies, ""
}

// ─── ProxyScrape (SOCKS4) ──────────────────────────────────────────────

type proxyScrapeResponse struct {
	Proxies []proxyScrapeRow `json:"proxies"`
}

type proxyScrapeRow struct {
	IP     string      `json:"ip"`
	Port   json.Number `json:"port"`
	IPData struct {
		CountryCode string `json:"countryCode"`
	} `json:"ip_data"`
}

func (s *Selector) fetchProxyScrape(ctx context.Context) ([]model.ProxyEndpoint, error) {
	params := url.Values{
		"request":      {"displayproxies"},
		"proxy_format": {"protocolipport"},
		"format":       {"json"},
		"protocol":     {"socks4"},
		"timeout":      {"2000"},
		"anonymity":    {"all"},
		"country":      {"all"},
	}

	body, err := s.get(ctx, s.cfg.ProxyScrapeURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var parsed proxyScrapeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding proxyscrape response: %w", err)
	}

	out := make([]model.ProxyEndpoint, 0, len(parsed.Proxies))
	for _, row := range parsed.Proxies {
		ep, err := mapProxyScrapeRow(row)
		if err != nil {
			s.logger.Debug("skipping malformed proxy record",
				logging.Field{Key: "error", Value: err.Error()})
			continue
		}
		out = append(out, ep)
	}
	return out, nil
}

func mapProxyScrapeRow(row proxyScrapeRow) (model.ProxyEndpoint, error) {
	port, err := strconv.Atoi(row.Port.String())
	if err != nil || port <= 0 || port > 65535 {
		return model.ProxyEndpoint{}, fmt.Errorf("bad port %q", row.Port.String())
	}
	if row.IP == "" {
		return model.ProxyEndpoint{}, fmt.Errorf("missing ip")
	}
	return model.ProxyEndpoint{
		Host:        row.IP,
		Port:        port,
		CountryCode: row.IPData.CountryCode,
		Protocol:    model.ProtocolSOCKS4,
	}, nil
}

// ─── MTPro (SOCKS5) ────────────────────────────────────────────────────

type mtproRow struct {
	IP      string      `json:"ip"`
	Port    json.Number `json:"port"`
	Country string      `json:"country"`
}

func (s *Selector) fetchMTPro(ctx context.Context) ([]model.ProxyEndpoint, error) {
	body, err := s.get(ctx, s.cfg.MTProURL+"?type=socks")
	if err != nil {
		return nil, err
	}

	var rows []mtproRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decoding mtpro response: %w", err)
	}

	out := make([]model.ProxyEndpoint, 0, len(rows))
	for _, row := range rows {
		ep, err := mapMTProRow(row)
		if err != nil {
			s.logger.Debug("skipping malformed proxy record",
				logging.Field{Key: "error", Value: err.Error()})
			continue
		}
		out = append(out, ep)
	}
	return out, nil
}

// mapMTProRow normalizes an mtpro record. The API serves SOCKS5 proxies only
// and carries no protocol field, so every row is tagged socks5.
func mapMTProRow(row mtproRow) (model.ProxyEndpoint, error) {
	port, err := strconv.Atoi(row.Port.String())
	if err != nil || port <= 0 || port > 65535 {
		return model.ProxyEndpoint{}, fmt.Errorf("bad port %q", row.Port.String())
	}
	if row.IP == "" {
		return model.ProxyEndpoint{}, fmt.Errorf("missing ip")
	}
	return model.ProxyEndpoint{
		Host:        row.IP,
		Port:        port,
		CountryCode: row.Country,
		Protocol:    model.ProtocolSOCKS5,
	}, nil
}

// ─── helpers ───────────────────────────────────────────────────────────

func (s *Selector) get(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	s.logger.Debug("proxy list request",
		logging.Field{Key: "url", Value: rawURL},
		logging.Field{Key: "elapsed", Value: time.Since(start).String()})
	return body, nil
}

// FilterByCountry keeps endpoints whose country code is in allowed,
// preserving order. An empty allow-list keeps nothing.
func FilterByCountry(eps []model.ProxyEndpoint, allowed []string) []model.ProxyEndpoint {
	set := make(map[string]bool, len(allowed))
	for _, c := range allowed {
		set[c] = true
	}
	out := make([]model.ProxyEndpoint, 0, len(eps))
	for _, ep := range eps {
		if set[ep.CountryCode] {
			out = append(out, ep)
		}
	}
	return out
}

func dedupe(eps []model.ProxyEndpoint) []model.ProxyEndpoint {
	seen := make(map[string]bool, len(eps))
	out := make([]model.ProxyEndpoint, 0, len(eps))
	for _, ep := range eps {
		addr := ep.Addr()
		if seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, ep)
	}
	return out
}
