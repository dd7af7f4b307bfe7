package api

import (
	"net/http"

	"github.com/sprite-ai/vibeguard/internal/detect"
	"github.com/sprite-ai/vibeguard/internal/model"
	"github.com/sprite-ai/vibeguard/internal/policy"
	"github.com/sprite-ai/vibeguard/internal/scan"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "vibeguard",
	})
}

// --- Analyze ---

type analyzeRequest struct {
	Code          string `json:"code"`
	Language      string `json:"language,omitempty"`
	Filename      string `json:"filename,omitempty"`
	TelemetryHash string `json:"telemetry_hash,omitempty"`
}

type analyzeResponse struct {
	detect.Result
	Filename string `json:"filename"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	language := req.Language
	if language == "" {
		if req.Filename != "" {
			language = detect.LanguageForFile(req.Filename)
		} else {
			language = "auto"
		}
	}
	filename := req.Filename
	if filename == "" {
		filename = "unknown"
	}

	result := s.detector.Detect(req.Code, language, req.TelemetryHash)
	writeJSON(w, http.StatusOK, analyzeResponse{Result: result, Filename: filename})
}

// --- Analyze batch ---

type batchRequest struct {
	Files []scan.FileInput `json:"files"`
}

type batchFileResult struct {
	detect.Result
	Path string `json:"path"`
}

type batchResponse struct {
	FilesAnalyzed        int               `json:"files_analyzed"`
	AIDetected           int               `json:"ai_detected"`
	HumanWritten         int               `json:"human_written"`
	AverageAIProbability float64           `json:"average_ai_probability"`
	Results              []batchFileResult `json:"results"`
}

func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.Files == nil {
		writeError(w, http.StatusBadRequest, "files is required")
		return
	}

	resp := batchResponse{Results: []batchFileResult{}}
	var total float64
	for _, f := range req.Files {
		if f.Path == "" || f.Content == "" {
			continue
		}
		result := s.detector.Detect(f.Content, detect.LanguageForFile(f.Path), "")
		resp.Results = append(resp.Results, batchFileResult{Result: result, Path: f.Path})
		total += result.Probability
		if model.StatusFor(result.Probability) == model.StatusAIGenerated {
			resp.AIDetected++
		} else {
			resp.HumanWritten++
		}
	}
	resp.FilesAnalyzed = len(resp.Results)
	if resp.FilesAnalyzed > 0 {
		resp.AverageAIProbability = detect.Round3(total / float64(resp.FilesAnalyzed))
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- Evaluate ---

type evaluateRequest struct {
	policy.CommitAnalysis
	Config string `json:"config,omitempty"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	engine, err := s.engineFor(req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, engine.Evaluate(req.CommitAnalysis))
}

// --- Scan ---

type scanRequest struct {
	Files             []scan.FileInput `json:"files"`
	ReviewTimeSeconds *int             `json:"review_time_seconds,omitempty"`
	Config            string           `json:"config,omitempty"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.Files == nil {
		writeError(w, http.StatusBadRequest, "files is required")
		return
	}

	scanner, err := s.scannerFor(req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, scanner.Run(req.Files, req.ReviewTimeSeconds))
}

// --- Policies ---

type policyJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

type policiesResponse struct {
	Version  string       `json:"version"`
	Org      string       `json:"org"`
	Policies []policyJSON `json:"policies"`
}

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	resp := policiesResponse{
		Version:  s.cfg.Version,
		Org:      s.cfg.Org,
		Policies: []policyJSON{},
	}
	for _, p := range s.cfg.Policies {
		resp.Policies = append(resp.Policies, policyJSON{
			Name:        p.Name,
			Description: p.Description,
			Action:      p.Action.String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// engineFor returns the default engine, or one built from an inline YAML
// config.
func (s *Server) engineFor(configYAML string) (*policy.Engine, error) {
	if configYAML == "" {
		return policy.NewEngine(s.cfg), nil
	}
	cfg, err := policy.Load([]byte(configYAML))
	if err != nil {
		return nil, err
	}
	return policy.NewEngine(cfg), nil
}

// scannerFor returns the default scanner, or one built from an inline YAML
// config.
func (s *Server) scannerFor(configYAML string) (*scan.Scanner, error) {
	if configYAML == "" {
		return s.scanner, nil
	}
	cfg, err := policy.Load([]byte(configYAML))
	if err != nil {
		return nil, err
	}
	return scan.New(s.detector, cfg), nil
}
