// Command snapviewd starts the Snapview capture API server.
// Usage: go run ./cmd/snapviewd [-listen :8574] [-storage ./data]
// Flags fall back to SNAPVIEW_* environment variables, loaded from a .env
// file when one is present.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/raysh454/snapview/internal/app"
	"github.com/raysh454/snapview/internal/logging"
	"github.com/raysh454/snapview/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := logging.NewStdoutLogger("snapviewd")
	appCfg := app.DefaultConfig()

	var (
		listenAddr  = flag.String("listen", envOr("SNAPVIEW_LISTEN", ":8574"), "HTTP listen address")
		storageRoot = flag.String("storage", envOr("SNAPVIEW_STORAGE", appCfg.StorageRoot), "artifact storage root")
		countries   = flag.String("countries", envOr("SNAPVIEW_COUNTRIES", strings.Join(appCfg.ProxyCfg.AllowedCountries, ",")), "comma-separated proxy country allow-list")
		readiness   = flag.Duration("readiness-timeout", envDurationOr("SNAPVIEW_READINESS_TIMEOUT", appCfg.BrowserCfg.ReadinessTimeout), "time to wait for the page body")
		minPhone    = flag.Int("min-phone-digits", envIntOr("SNAPVIEW_MIN_PHONE_DIGITS", appCfg.ExtractCfg.MinPhoneDigits), "minimum digits for a phone match")
	)
	flag.Parse()

	appCfg.StorageRoot = *storageRoot
	appCfg.ProxyCfg.AllowedCountries = splitList(*countries)
	appCfg.BrowserCfg.ReadinessTimeout = *readiness
	appCfg.ExtractCfg.MinPhoneDigits = *minPhone

	srv, err := server.NewServer(server.Config{
		ListenAddr: *listenAddr,
		AppConfig:  appCfg,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("starting server", logging.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
	defer srv.Close()

	httpSrv := srv.HTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening",
		logging.Field{Key: "addr", Value: *listenAddr},
		logging.Field{Key: "storage", Value: *storageRoot})

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", logging.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
	logger.Info("shut down")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToUpper(part))
		}
	}
	return out
}
