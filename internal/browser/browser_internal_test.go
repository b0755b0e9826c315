package browser

import (
	"testing"

	"github.com/raysh454/snapview/internal/model"
)

// ─── proxyServerArg ────────────────────────────────────────────────────

func TestProxyServerArg_BuildsSocksURL(t *testing.T) {
	t.Parallel()
	ep := &model.ProxyEndpoint{Host: "51.15.1.1", Port: 1080, Protocol: model.ProtocolSOCKS5}
	arg, ok := proxyServerArg(ep)
	if !ok {
		t.Fatal("expected a proxy argument")
	}
	if arg != "socks5://51.15.1.1:1080" {
		t.Errorf("arg = %q", arg)
	}
}

func TestProxyServerArg_OmittedWithoutFullEndpoint(t *testing.T) {
	t.Parallel()
	cases := map[string]*model.ProxyEndpoint{
		"nil endpoint":     nil,
		"no protocol":      {Host: "51.15.1.1", Port: 1080},
		"no host":          {Host: "", Port: 1080, Protocol: model.ProtocolSOCKS4},
		"no port":          {Host: "51.15.1.1", Protocol: model.ProtocolSOCKS4},
		"unknown protocol": {Host: "1.1.1.1", Port: 1, Protocol: model.Protocol("http")},
	}
	for name, ep := range cases {
		if arg, ok := proxyServerArg(ep); ok {
			t.Errorf("%s: expected no proxy flag, got %q", name, arg)
		}
	}
}

// ─── config fallbacks ──────────────────────────────────────────────────

func TestNew_ZeroConfigGetsDefaults(t *testing.T) {
	t.Parallel()
	r := New(Config{}, nil)
	if r.cfg.ReadinessTimeout != DefaultConfig().ReadinessTimeout {
		t.Errorf("timeout = %v", r.cfg.ReadinessTimeout)
	}
	if r.cfg.WindowWidth != 1920 || r.cfg.WindowHeight != 1080 {
		t.Errorf("viewport = %dx%d", r.cfg.WindowWidth, r.cfg.WindowHeight)
	}
}
