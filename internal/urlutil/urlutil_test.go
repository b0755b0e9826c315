package urlutil_test

import (
	"errors"
	"testing"

	"github.com/raysh454/snapview/internal/urlutil"
)

// ─── Normalize ─────────────────────────────────────────────────────────

func TestNormalize_KeepsExistingScheme(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"https://example.com",
		"http://example.com/path?q=1",
		"https://sub.example.co.uk/a/b",
	}
	for _, in := range inputs {
		got, err := urlutil.Normalize(in, urlutil.DefaultNormalizeOptions())
		if err != nil {
			t.Errorf("Normalize(%q): unexpected error %v", in, err)
			continue
		}
		if got != in {
			t.Errorf("Normalize(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestNormalize_PrependsDefaultScheme(t *testing.T) {
	t.Parallel()
	got, err := urlutil.Normalize("example.com/contact", urlutil.DefaultNormalizeOptions())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "https://example.com/contact" {
		t.Errorf("expected https prefix, got %q", got)
	}
}

func TestNormalize_CustomDefaultScheme(t *testing.T) {
	t.Parallel()
	got, err := urlutil.Normalize("example.com", urlutil.NormalizeOptions{DefaultScheme: "http"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "http://example.com" {
		t.Errorf("expected http prefix, got %q", got)
	}
}

func TestNormalize_RejectsMalformed(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"",
		"   ",
		"\t\n",
		"not a url at all",
		"https://",
	}
	for _, in := range inputs {
		if _, err := urlutil.Normalize(in, urlutil.DefaultNormalizeOptions()); !errors.Is(err, urlutil.ErrInvalid) {
			t.Errorf("Normalize(%q): expected ErrInvalid, got %v", in, err)
		}
	}
}

// ─── HasScheme / Hostname ──────────────────────────────────────────────

func TestHasScheme(t *testing.T) {
	t.Parallel()
	if !urlutil.HasScheme("http://x") || !urlutil.HasScheme("https://x") {
		t.Error("expected http/https prefixes to count as schemed")
	}
	if urlutil.HasScheme("ftp://x") {
		t.Error("ftp scheme should not count; the browser pipeline only speaks http(s)")
	}
	if urlutil.HasScheme("example.com") {
		t.Error("bare host should not count as schemed")
	}
}

func TestHostname(t *testing.T) {
	t.Parallel()
	if got := urlutil.Hostname("https://example.com:8443/x"); got != "example.com" {
		t.Errorf("Hostname = %q, want example.com", got)
	}
}
