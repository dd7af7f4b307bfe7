// Package api implements the HTTP API server for vibeguard.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/sprite-ai/vibeguard/internal/detect"
	"github.com/sprite-ai/vibeguard/internal/policy"
	"github.com/sprite-ai/vibeguard/internal/scan"
)

// Server is the vibeguard HTTP API server.
type Server struct {
	addr     string
	mux      *http.ServeMux
	server   *http.Server
	detector *detect.Detector
	cfg      *policy.Config
	scanner  *scan.Scanner
}

// New creates a new API server. A nil config falls back to the built-in
// policies.
func New(addr string, cfg *policy.Config) *Server {
	if cfg == nil {
		cfg = policy.DefaultConfig()
	}
	detector := detect.New()
	s := &Server{
		addr:     addr,
		detector: detector,
		cfg:      cfg,
		scanner:  scan.New(detector, cfg),
	}
	s.mux = http.NewServeMux()
	s.registerRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/v1/analyze", s.handleAnalyze)
	s.mux.HandleFunc("POST /api/v1/analyze/batch", s.handleAnalyzeBatch)
	s.mux.HandleFunc("POST /api/v1/evaluate", s.handleEvaluate)
	s.mux.HandleFunc("POST /api/v1/scan", s.handleScan)
	s.mux.HandleFunc("GET /api/v1/policies", s.handlePolicies)
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	log.Printf("vibeguard API server listening on %s", s.addr)
	return s.server.ListenAndServe()
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// readJSON decodes a JSON request body into v.
func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
