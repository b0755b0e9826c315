package artifact_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/snapview/internal/artifact"
)

// ─── Sanitize ──────────────────────────────────────────────────────────

func TestSanitize_CollapsesNonWordRuns(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in, want string
	}{
		{"https://example.com/a b", "https_example_com_a_b"},
		{"example.com", "example_com"},
		{"a---b...c", "a_b_c"},
		{"plain", "plain"},
	}
	for _, c := range cases {
		if got := artifact.Sanitize(c.in); got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// ─── ScreenshotPath ────────────────────────────────────────────────────

func TestScreenshotPath_DeterministicWithinSecond(t *testing.T) {
	t.Parallel()
	ts := time.Date(2024, 6, 14, 20, 15, 5, 0, time.UTC)
	a := artifact.ScreenshotPath("https://example.com", "/tmp/out", ts)
	b := artifact.ScreenshotPath("https://example.com", "/tmp/out", ts.Add(500*time.Millisecond))
	if a != b {
		t.Errorf("same second should give same path: %q vs %q", a, b)
	}
	if a != filepath.Join("/tmp/out", "https_example_com_20240614_201505.png") {
		t.Errorf("unexpected path %q", a)
	}
}

func TestUniqueScreenshotPath_SuffixesOnCollision(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ts := time.Date(2024, 6, 14, 20, 15, 5, 0, time.UTC)

	first := artifact.UniqueScreenshotPath("https://example.com", dir, ts)
	if err := os.WriteFile(first, []byte("png"), 0o644); err != nil {
		t.Fatalf("writing first screenshot: %v", err)
	}

	second := artifact.UniqueScreenshotPath("https://example.com", dir, ts)
	if second == first {
		t.Fatal("expected a disambiguated path for the second run in the same second")
	}
	if !strings.HasPrefix(filepath.Base(second), "https_example_com_20240614_201505_") {
		t.Errorf("suffixed name should keep the deterministic prefix, got %q", second)
	}
	if !strings.HasSuffix(second, ".png") {
		t.Errorf("expected .png extension, got %q", second)
	}
}

// ─── Log housekeeping ──────────────────────────────────────────────────

func TestPerfLogPath_CreatesLogDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	p, err := artifact.PerfLogPath(root)
	if err != nil {
		t.Fatalf("PerfLogPath: %v", err)
	}
	if filepath.Dir(p) != filepath.Join(root, "logs") {
		t.Errorf("expected log under logs/, got %q", p)
	}
	if fi, err := os.Stat(filepath.Dir(p)); err != nil || !fi.IsDir() {
		t.Errorf("logs directory was not created: %v", err)
	}
}

func TestRemoveStaleLog(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "browser.log")

	// Missing file is fine
	if err := artifact.RemoveStaleLog(path); err != nil {
		t.Fatalf("RemoveStaleLog on missing file: %v", err)
	}

	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("writing log: %v", err)
	}
	if err := artifact.RemoveStaleLog(path); err != nil {
		t.Fatalf("RemoveStaleLog: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected stale log to be removed")
	}
}
