package app

import (
	"path/filepath"

	"github.com/raysh454/snapview/internal/browser"
	"github.com/raysh454/snapview/internal/extract"
	"github.com/raysh454/snapview/internal/proxylist"
	"github.com/raysh454/snapview/internal/urlutil"
)

// Config contains the runtime configuration for the capture pipeline.
type Config struct {
	// StorageRoot is the base path for all artifacts: screenshots go to
	// StorageRoot/screenshots, the browser performance log to
	// StorageRoot/logs, the history database to StorageRoot itself.
	StorageRoot string

	// Browser configuration
	BrowserCfg browser.Config

	// Proxy selector configuration
	ProxyCfg proxylist.Config

	// Extraction configuration
	ExtractCfg extract.Config

	// URL normalization options
	URLOpts urlutil.NormalizeOptions
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		StorageRoot: "./data",
		BrowserCfg:  browser.DefaultConfig(),
		ProxyCfg:    proxylist.DefaultConfig(),
		ExtractCfg:  extract.DefaultConfig(),
		URLOpts:     urlutil.DefaultNormalizeOptions(),
	}
}

// ScreenshotDir returns the directory screenshots are written to.
func (c *Config) ScreenshotDir() string {
	return filepath.Join(c.StorageRoot, "screenshots")
}
