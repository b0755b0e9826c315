package proxylist_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raysh454/snapview/internal/model"
	"github.com/raysh454/snapview/internal/proxylist"
)

const proxyScrapeBody = `{
	"proxies": [
		{"ip": "51.15.1.1", "port": 1080, "ip_data": {"countryCode": "FR"}},
		{"ip": "51.15.1.1", "port": 1080, "ip_data": {"countryCode": "FR"}},
		{"ip": "10.0.0.9", "port": "4145", "ip_data": {"countryCode": "XX"}},
		{"ip": "", "port": 1080, "ip_data": {"countryCode": "DE"}}
	]
}`

func newSelector(t *testing.T, scrapeHandler, mtproHandler http.HandlerFunc, allowed []string) *proxylist.Selector {
	t.Helper()
	scrape := httptest.NewServer(scrapeHandler)
	t.Cleanup(scrape.Close)
	mtpro := httptest.NewServer(mtproHandler)
	t.Cleanup(mtpro.Close)

	cfg := proxylist.DefaultConfig()
	cfg.ProxyScrapeURL = scrape.URL
	cfg.MTProURL = mtpro.URL
	cfg.AllowedCountries = allowed
	return proxylist.New(cfg, nil, scrape.Client())
}

// ─── Filtering & normalization ─────────────────────────────────────────

func TestProxies_FiltersToAllowedCountries(t *testing.T) {
	t.Parallel()
	sel := newSelector(t,
		func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, proxyScrapeBody) },
		func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "[]") },
		[]string{"FR", "GB"},
	)

	got, cause := sel.Proxies(context.Background(), model.ProtocolSOCKS4, "")
	if cause != "" {
		t.Fatalf("unexpected cause: %q", cause)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly the FR record, got %+v", got)
	}
	if got[0].Host != "51.15.1.1" || got[0].Port != 1080 || got[0].CountryCode != "FR" {
		t.Errorf("unexpected record: %+v", got[0])
	}
	if got[0].Protocol != model.ProtocolSOCKS4 {
		t.Errorf("proxyscrape rows must be tagged socks4, got %q", got[0].Protocol)
	}
}

func TestProxies_NormalizesMTProShape(t *testing.T) {
	t.Parallel()
	sel := newSelector(t,
		func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "{}") },
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"ip": "77.88.0.1", "port": 9050, "country": "DE"}]`)
		},
		[]string{"DE"},
	)

	got, cause := sel.Proxies(context.Background(), model.ProtocolSOCKS5, "")
	if cause != "" {
		t.Fatalf("unexpected cause: %q", cause)
	}
	if len(got) != 1 || got[0].Addr() != "77.88.0.1:9050" {
		t.Fatalf("unexpected list: %+v", got)
	}
	if got[0].Protocol != model.ProtocolSOCKS5 {
		t.Errorf("mtpro rows must be tagged socks5, got %q", got[0].Protocol)
	}
}

func TestProxies_CountryNarrowing(t *testing.T) {
	t.Parallel()
	sel := newSelector(t,
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"proxies": [
				{"ip": "1.1.1.1", "port": 1080, "ip_data": {"countryCode": "FR"}},
				{"ip": "2.2.2.2", "port": 1080, "ip_data": {"countryCode": "DE"}}
			]}`)
		},
		func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "[]") },
		[]string{"FR", "DE"},
	)

	got, cause := sel.Proxies(context.Background(), model.ProtocolSOCKS4, "DE")
	if cause != "" {
		t.Fatalf("unexpected cause: %q", cause)
	}
	if len(got) != 1 || got[0].CountryCode != "DE" {
		t.Errorf("expected only the DE record, got %+v", got)
	}
}

// ─── Failure degradation ───────────────────────────────────────────────

func TestProxies_UpstreamErrorGivesEmptyPlusCause(t *testing.T) {
	t.Parallel()
	sel := newSelector(t,
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
		[]string{"FR"},
	)

	got, cause := sel.Proxies(context.Background(), model.ProtocolSOCKS4, "")
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
	if cause == "" {
		t.Error("expected a human-readable cause string")
	}
}

func TestProxies_MalformedBodyGivesEmptyPlusCause(t *testing.T) {
	t.Parallel()
	sel := newSelector(t,
		func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "<html>not json</html>") },
		func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "oops") },
		[]string{"FR"},
	)

	for _, proto := range []model.Protocol{model.ProtocolSOCKS4, model.ProtocolSOCKS5} {
		got, cause := sel.Proxies(context.Background(), proto, "")
		if len(got) != 0 || cause == "" {
			t.Errorf("%s: expected empty list + cause, got %v / %q", proto, got, cause)
		}
	}
}

func TestProxies_EmptyListGivesCause(t *testing.T) {
	t.Parallel()
	sel := newSelector(t,
		func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `{"proxies": []}`) },
		func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "[]") },
		[]string{"FR"},
	)

	got, cause := sel.Proxies(context.Background(), model.ProtocolSOCKS4, "")
	if len(got) != 0 || cause == "" {
		t.Errorf("expected empty list + cause, got %v / %q", got, cause)
	}
}

func TestProxies_UnknownProtocol(t *testing.T) {
	t.Parallel()
	sel := proxylist.New(proxylist.DefaultConfig(), nil, nil)
	got, cause := sel.Proxies(context.Background(), model.Protocol("http"), "")
	if len(got) != 0 || cause == "" {
		t.Errorf("expected empty list + cause for unknown protocol, got %v / %q", got, cause)
	}
}

// ─── Caching ───────────────────────────────────────────────────────────

func TestFetch_SecondCallServedFromCache(t *testing.T) {
	t.Parallel()
	var hits int32
	sel := newSelector(t,
		func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			fmt.Fprint(w, `{"proxies": [{"ip": "1.1.1.1", "port": 1080, "ip_data": {"countryCode": "FR"}}]}`)
		},
		func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "[]") },
		[]string{"FR"},
	)

	for i := 0; i < 3; i++ {
		if _, cause := sel.Fetch(context.Background(), model.ProtocolSOCKS4); cause != "" {
			t.Fatalf("fetch %d: %q", i, cause)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("expected 1 upstream hit, got %d", n)
	}
}

func TestFetch_RequestBounded(t *testing.T) {
	t.Parallel()
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	t.Cleanup(slow.Close)

	cfg := proxylist.DefaultConfig()
	cfg.ProxyScrapeURL = slow.URL
	cfg.RequestTimeout = 50 * time.Millisecond
	sel := proxylist.New(cfg, nil, nil)

	start := time.Now()
	got, cause := sel.Fetch(context.Background(), model.ProtocolSOCKS4)
	if len(got) != 0 || cause == "" {
		t.Errorf("expected timeout degradation, got %v / %q", got, cause)
	}
	if time.Since(start) > time.Second {
		t.Error("request was not bounded by the configured timeout")
	}
}
