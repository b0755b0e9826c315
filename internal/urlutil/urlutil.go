package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalid is returned when a raw string cannot be turned into a
// well-formed absolute URL.
var ErrInvalid = errors.New("invalid url")

// NormalizeOptions controls URL normalization.
type NormalizeOptions struct {
	// DefaultScheme is prepended when the input carries no scheme.
	DefaultScheme string
}

// DefaultNormalizeOptions returns the options used by the pipeline.
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{DefaultScheme: "https"}
}

// Normalize validates raw and returns a well-formed absolute URL. Inputs that
// already carry an http or https scheme are returned unchanged; anything else
// gets the default scheme prepended first. Inputs that still do not parse, or
// that are blank, fail with ErrInvalid. No network access is performed.
func Normalize(raw string, opts NormalizeOptions) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: blank input", ErrInvalid)
	}
	if strings.ContainsAny(trimmed, " \t") {
		return "", fmt.Errorf("%w: contains whitespace", ErrInvalid)
	}

	scheme := opts.DefaultScheme
	if scheme == "" {
		scheme = "https"
	}

	candidate := trimmed
	if !HasScheme(trimmed) {
		candidate = scheme + "://" + trimmed
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host in %q", ErrInvalid, raw)
	}

	return candidate, nil
}

// HasScheme reports whether raw already starts with http:// or https://.
func HasScheme(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

// Hostname returns the hostname of an already-normalized URL, or "" when the
// URL does not parse. Used for log fields only.
func Hostname(normalized string) string {
	u, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
