package browser

import "time"

// Config holds the headless browser session settings.
type Config struct {
	// ReadinessTimeout bounds one full session: navigation, the body
	// readiness wait, HTML retrieval and screenshot capture.
	ReadinessTimeout time.Duration

	// WindowWidth and WindowHeight fix the viewport.
	WindowWidth  int
	WindowHeight int
}

// DefaultConfig returns the browser defaults.
func DefaultConfig() Config {
	return Config{
		ReadinessTimeout: 10 * time.Second,
		WindowWidth:      1920,
		WindowHeight:     1080,
	}
}
