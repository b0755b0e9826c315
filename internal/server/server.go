package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/raysh454/snapview/docs" // swagger spec registration
	"github.com/raysh454/snapview/internal/app"
	"github.com/raysh454/snapview/internal/artifact"
	"github.com/raysh454/snapview/internal/browser"
	"github.com/raysh454/snapview/internal/history"
	"github.com/raysh454/snapview/internal/logging"
	"github.com/raysh454/snapview/internal/model"
	"github.com/raysh454/snapview/internal/proxylist"
)

// Server is the HTTP + WebSocket API surface for Snapview.
type Server struct {
	cfg      Config
	pipeline *app.Pipeline
	store    *history.Store
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewServer creates a Server with its own pipeline, journal and proxy
// selector.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	// Make sure storage root exists
	storageRoot, err := expandPath(cfg.AppConfig.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("expanding storage root path: %w", err)
	}
	cfg.AppConfig.StorageRoot = storageRoot
	if err := os.MkdirAll(storageRoot, 0755); err != nil {
		logger.Warn("creating storage root directory", logging.Field{Key: "path", Value: storageRoot}, logging.Field{Key: "error", Value: err.Error()})
	}

	store, err := history.Open(storageRoot, logger)
	if err != nil {
		return nil, fmt.Errorf("opening run journal: %w", err)
	}

	capturer := cfg.Capturer
	if capturer == nil {
		capturer = browser.New(cfg.AppConfig.BrowserCfg, logger)
	}

	selector := proxylist.New(cfg.AppConfig.ProxyCfg, logger, nil)
	pipeline := app.NewPipeline(cfg.AppConfig, capturer, selector, store, logger)

	s := &Server{
		cfg:      cfg,
		pipeline: pipeline,
		store:    store,
		router:   chi.NewRouter(),
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

// Pipeline returns the underlying pipeline for advanced use (tests, etc.).
func (s *Server) Pipeline() *app.Pipeline {
	return s.pipeline
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/runs", s.optionsHandler("GET, POST"))
	r.Options("/runs/{runID}", s.optionsHandler("GET"))
	r.Options("/runs/{runID}/screenshot", s.optionsHandler("GET"))
	r.Options("/runs/{runID}/text", s.optionsHandler("GET"))
	r.Options("/proxies", s.optionsHandler("GET"))
	r.Options("/version", s.optionsHandler("GET"))
	r.Options("/ws/runs", s.optionsHandler("GET"))

	// Runs
	r.Post("/runs", s.handleStartRun)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{runID}", s.handleGetRun)
	r.Get("/runs/{runID}/screenshot", s.handleGetScreenshot)
	r.Get("/runs/{runID}/text", s.handleGetText)

	// Proxy lists
	r.Get("/proxies", s.handleListProxies)

	// Version report
	r.Get("/version", s.handleVersion)

	// WebSocket for run progress
	r.Get("/ws/runs", s.handleRunWS)

	// Interactive API docs
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && r.Method == http.MethodPost {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close releases the journal database.
func (s *Server) Close() {
	if s.store != nil {
		s.store.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // captures can take a while
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// resolveProxy turns the request's proxy preferences into an endpoint. The
// second return is a warning when a proxy was wanted but none was available.
func (s *Server) resolveProxy(r *http.Request, body StartRunRequest) (*model.ProxyEndpoint, string, error) {
	if !body.UseProxy {
		return nil, "", nil
	}

	proto := model.Protocol(body.Protocol)
	if body.Protocol == "" {
		proto = model.ProtocolSOCKS5
	}
	if !proto.Valid() {
		return nil, "", fmt.Errorf("unknown protocol %q", body.Protocol)
	}

	ep, cause := s.pipeline.PickProxy(r.Context(), proto, body.Country)
	if cause != "" {
		s.logger.Warn("no proxy available", logging.Field{Key: "protocol", Value: string(proto)}, logging.Field{Key: "cause", Value: cause})
		return nil, cause, nil
	}
	return ep, "", nil
}

// --- HTTP handlers ---

// Runs

// handleStartRun godoc
// @Summary Capture a page
// @Description Runs the full pipeline for one URL: normalize, optionally pick a proxy, screenshot, extract text and contacts, journal.
// @Accept json
// @Produce json
// @Param request body StartRunRequest true "Run parameters"
// @Success 200 {object} RunResponse
// @Failure 400 {object} ErrorResponse
// @Router /runs [post]
func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	var body StartRunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	proxy, proxyWarning, err := s.resolveProxy(r, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, rec := s.pipeline.Run(r.Context(), model.RunRequest{TargetURL: body.URL, Proxy: proxy})
	if res.Error == model.ErrInvalidURL {
		writeError(w, http.StatusBadRequest, res.Cause)
		return
	}

	s.logger.Info("run handled",
		logging.Field{Key: "url", Value: body.URL},
		logging.Field{Key: "error", Value: string(res.Error)})
	writeJSON(w, http.StatusOK, RunResponse{Result: res, Record: rec, ProxyWarning: proxyWarning})
}

// handleListRuns godoc
// @Summary List journaled runs
// @Produce json
// @Param url query string false "Only runs for this URL"
// @Param limit query int false "Maximum rows, newest first"
// @Success 200 {array} model.RunRecord
// @Router /runs [get]
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")

	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	var (
		recs []*model.RunRecord
		err  error
	)
	if url != "" {
		recs, err = s.store.ListByURL(r.Context(), url, limit)
	} else {
		recs, err = s.store.List(r.Context(), limit)
	}
	if err != nil {
		s.logger.Warn("listing runs", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("listed runs", logging.Field{Key: "count", Value: len(recs)})
	writeJSON(w, http.StatusOK, recs)
}

// handleGetRun godoc
// @Summary Fetch one journaled run
// @Produce json
// @Param runID path string true "Run ID"
// @Success 200 {object} model.RunRecord
// @Failure 404 {object} ErrorResponse
// @Router /runs/{runID} [get]
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleGetScreenshot godoc
// @Summary Download a run's screenshot
// @Produce png
// @Param runID path string true "Run ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /runs/{runID}/screenshot [get]
func (s *Server) handleGetScreenshot(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	if rec.ScreenshotPath == "" {
		writeError(w, http.StatusNotFound, "run has no screenshot")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, rec.ScreenshotPath)
}

// handleGetText godoc
// @Summary Download a run's extracted page text
// @Produce plain
// @Param runID path string true "Run ID"
// @Success 200 {string} string
// @Failure 404 {object} ErrorResponse
// @Router /runs/{runID}/text [get]
func (s *Server) handleGetText(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	name := artifact.Sanitize(rec.URL) + ".txt"
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = io.WriteString(w, rec.PageText)
}

func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) (*model.RunRecord, bool) {
	runID := chi.URLParam(r, "runID")
	rec, err := s.store.Get(r.Context(), runID)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
		} else {
			s.logger.Warn("getting run", logging.Field{Key: "run_id", Value: runID}, logging.Field{Key: "error", Value: err.Error()})
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return rec, true
}

// Proxy lists

// handleListProxies godoc
// @Summary List filtered proxies for a protocol
// @Produce json
// @Param protocol query string false "socks4 or socks5 (default socks5)"
// @Param country query string false "Narrow to one ISO country code"
// @Success 200 {object} ProxyListResponse
// @Failure 400 {object} ErrorResponse
// @Router /proxies [get]
func (s *Server) handleListProxies(w http.ResponseWriter, r *http.Request) {
	proto := model.Protocol(r.URL.Query().Get("protocol"))
	if proto == "" {
		proto = model.ProtocolSOCKS5
	}
	if !proto.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown protocol %q", proto))
		return
	}
	country := r.URL.Query().Get("country")

	list, cause := s.pipeline.Selector().Proxies(r.Context(), proto, country)
	s.logger.Info("listed proxies", logging.Field{Key: "protocol", Value: string(proto)}, logging.Field{Key: "count", Value: len(list)})
	writeJSON(w, http.StatusOK, ProxyListResponse{Proxies: list, Cause: cause})
}

// Version

// handleVersion godoc
// @Summary Report app, Go and browser versions
// @Produce json
// @Success 200 {object} app.VersionInfo
// @Router /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, app.Version())
}

// WebSockets

// handleRunWS streams run progress. The client sends one StartRunRequest as
// JSON, receives a RunEvent per stage, then the final RunResponse.
func (s *Server) handleRunWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	var body StartRunRequest
	if err := conn.ReadJSON(&body); err != nil {
		_ = conn.WriteJSON(ErrorResponse{Error: "invalid JSON"})
		return
	}

	proxy, proxyWarning, err := s.resolveProxy(r, body)
	if err != nil {
		_ = conn.WriteJSON(ErrorResponse{Error: err.Error()})
		return
	}

	res, rec := s.pipeline.RunWithProgress(r.Context(), model.RunRequest{TargetURL: body.URL, Proxy: proxy}, func(ev model.RunEvent) {
		_ = conn.WriteJSON(ev)
	})

	_ = conn.WriteJSON(RunResponse{Result: res, Record: rec, ProxyWarning: proxyWarning})
}

func expandPath(p string) (string, error) {
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[1:]), nil
	}
	return p, nil
}
