// Package devserver replays canned backend responses for local development.
// It performs no financial computation: /analyze validates the request shape
// and returns the analyze fixture unchanged.
package devserver

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rovshanmuradov/fund-analyzer/internal/analysis"
	"go.uber.org/zap"
)

const (
	FundFixture    = "fund-data.json"
	AnalyzeFixture = "analyze.json"

	maxRequestBody = 1 << 20
)

//go:embed fixtures/*.json
var embedded embed.FS

// Options configures the fixture server.
type Options struct {
	// Dir overrides the embedded fixtures. Files are re-read on every request.
	Dir string
	// FailEvery makes every Nth /analyze call answer 500; 0 disables it.
	FailEvery int
	// Latency delays every /analyze response.
	Latency time.Duration
}

// Server serves the fixture backend.
type Server struct {
	fixtures fs.FS
	opts     Options
	logger   *zap.Logger
	analyzed atomic.Int64
}

// New creates a fixture server.
func New(opts Options, logger *zap.Logger) (*Server, error) {
	var fixtures fs.FS
	if opts.Dir != "" {
		info, err := os.Stat(opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("fixture directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("fixture directory %s is not a directory", opts.Dir)
		}
		fixtures = os.DirFS(filepath.Clean(opts.Dir))
	} else {
		sub, err := fs.Sub(embedded, "fixtures")
		if err != nil {
			return nil, err
		}
		fixtures = sub
	}

	return &Server{
		fixtures: fixtures,
		opts:     opts,
		logger:   logger.Named("devserver"),
	}, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/api/health", s.handleHealth)
	r.Get("/"+FundFixture, s.handleFundData)
	r.Post("/analyze", s.handleAnalyze)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("Request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFundData(w http.ResponseWriter, r *http.Request) {
	s.serveFixture(w, FundFixture)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analysis.AnalysisRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.AdditionalFlows == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "additionalFlows is required"})
		return
	}
	if res := analysis.Validate(req.Params()); !res.OK {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid parameters", "details": res.Errors})
		return
	}

	n := s.analyzed.Add(1)
	if s.opts.Latency > 0 {
		select {
		case <-time.After(s.opts.Latency):
		case <-r.Context().Done():
			return
		}
	}
	if s.opts.FailEvery > 0 && n%int64(s.opts.FailEvery) == 0 {
		s.logger.Warn("Injected analysis failure", zap.Int64("call", n))
		http.Error(w, "injected failure", http.StatusInternalServerError)
		return
	}

	s.logger.Debug("Analysis requested",
		zap.String("start", req.StartDate.Format(analysis.DateLayout)),
		zap.String("end", req.EndDate.Format(analysis.DateLayout)),
		zap.Int("flows", len(req.AdditionalFlows)))

	s.serveFixture(w, AnalyzeFixture)
}

func (s *Server) serveFixture(w http.ResponseWriter, name string) {
	data, err := fs.ReadFile(s.fixtures, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "fixture not found: "+name, http.StatusNotFound)
			return
		}
		s.logger.Error("Failed to read fixture", zap.String("fixture", name), zap.Error(err))
		http.Error(w, "failed to read fixture", http.StatusInternalServerError)
		return
	}
	if !json.Valid(data) {
		s.logger.Error("Fixture is not valid JSON", zap.String("fixture", name))
		http.Error(w, "fixture is not valid JSON", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
