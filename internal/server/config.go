package server

import (
	"github.com/raysh454/snapview/internal/app"
	"github.com/raysh454/snapview/internal/logging"
)

// Config holds the HTTP API server settings.
type Config struct {
	// ListenAddr is the address handed to the http.Server, e.g. ":8574".
	ListenAddr string

	// AppConfig configures the capture pipeline. Nil selects the defaults.
	AppConfig *app.Config

	// Capturer overrides the browser runner, mainly for tests. Nil selects
	// a real headless browser.
	Capturer app.Capturer

	// Logger receives request and handler logs. Nil selects stdout.
	Logger logging.Logger
}
