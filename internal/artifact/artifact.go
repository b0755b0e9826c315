package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var nonWord = regexp.MustCompile(`\W+`)

// Sanitize replaces every maximal run of non-word characters in s with a
// single underscore, making it safe as a filename component.
func Sanitize(s string) string {
	return nonWord.ReplaceAllString(s, "_")
}

// ScreenshotPath derives the screenshot file path for url under dir at the
// given timestamp. Deterministic for the same (url, dir, second): two runs
// inside one second produce the same path, which the caller disambiguates
// via UniqueScreenshotPath.
func ScreenshotPath(url, dir string, ts time.Time) string {
	name := fmt.Sprintf("%s_%s.png", Sanitize(url), ts.Format("20060102_150405"))
	return filepath.Join(dir, name)
}

// UniqueScreenshotPath returns ScreenshotPath, appending a short random
// suffix when that path already exists on disk. Keeps the deterministic
// name for the common case while avoiding same-second overwrites.
func UniqueScreenshotPath(url, dir string, ts time.Time) string {
	p := ScreenshotPath(url, dir, ts)
	if _, err := os.Stat(p); err != nil {
		return p
	}
	suffix := uuid.New().String()[:8]
	name := fmt.Sprintf("%s_%s_%s.png", Sanitize(url), ts.Format("20060102_150405"), suffix)
	return filepath.Join(dir, name)
}

// EnsureDir creates dir (and parents) when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// PerfLogPath returns the browser performance log path under root, creating
// the logs directory on demand.
func PerfLogPath(root string) (string, error) {
	logDir := filepath.Join(root, "logs")
	if err := EnsureDir(logDir); err != nil {
		return "", err
	}
	return filepath.Join(logDir, "browser.log"), nil
}

// RemoveStaleLog deletes a prior log file if present. Log files are
// overwritten per run, never accumulated.
func RemoveStaleLog(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale log %s: %w", path, err)
	}
	return nil
}
