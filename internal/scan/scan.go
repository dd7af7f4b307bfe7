// Package scan orchestrates detection, security scanning, and policy
// evaluation over a set of files.
package scan

import (
	"math"
	"strings"

	"github.com/sprite-ai/vibeguard/internal/detect"
	"github.com/sprite-ai/vibeguard/internal/model"
	"github.com/sprite-ai/vibeguard/internal/policy"
	"github.com/sprite-ai/vibeguard/internal/security"
)

// FileInput is one file submitted for scanning.
type FileInput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// FileReport is the per-file outcome.
type FileReport struct {
	Path         string           `json:"path"`
	AIConfidence float64          `json:"ai_confidence"`
	LinesChanged int              `json:"lines_changed"`
	Status       model.FileStatus `json:"status"`
	Detection    detect.Result    `json:"detection"`
	Issues       []security.Issue `json:"security_issues,omitempty"`
}

// Report is the full scan outcome.
type Report struct {
	Status          string             `json:"status"`
	FilesScanned    int                `json:"files_scanned"`
	AIDetected      int                `json:"ai_detected"`
	HumanWritten    int                `json:"human_written"`
	MaxAIConfidence float64            `json:"max_ai_confidence"`
	AIPercentage    float64            `json:"ai_percentage"`
	TotalLines      int                `json:"total_lines_changed"`
	Results         []FileReport       `json:"results"`
	Security        security.Summary   `json:"security_summary"`
	Policy          policy.Result      `json:"policy_evaluation"`
	Blocked         bool               `json:"blocked"`
	Violations      []policy.Violation `json:"violations"`
	Warnings        []policy.Warning   `json:"warnings"`
}

// Scanner runs the full pipeline with a fixed detector and policy set.
type Scanner struct {
	detector *detect.Detector
	engine   *policy.Engine
}

// New builds a Scanner. A nil config falls back to the built-in policies.
func New(detector *detect.Detector, cfg *policy.Config) *Scanner {
	if cfg == nil {
		cfg = policy.DefaultConfig()
	}
	return &Scanner{detector: detector, engine: policy.NewEngine(cfg)}
}

// Run scans every file, aggregates commit-level numbers, and evaluates the
// policies. Aggregation uses full-precision probabilities; the reported
// max confidence and AI percentage are rounded for presentation.
func (s *Scanner) Run(files []FileInput, reviewTimeSeconds *int) Report {
	var (
		results      []FileReport
		maxAI        float64
		totalAILines int
		totalLines   int
		allIssues    []policy.SecurityIssue
		secSummary   security.Summary
	)

	for _, f := range files {
		det := s.detector.Detect(f.Content, detect.LanguageForFile(f.Path), "")
		lines := len(strings.Split(f.Content, "\n"))

		sec := security.Scan(f.Content)
		for _, issue := range sec.Issues {
			allIssues = append(allIssues, policy.SecurityIssue{
				Type:     issue.Type,
				Severity: issue.Severity.String(),
				Line:     issue.Line,
			})
		}
		secSummary.Total += sec.Summary.Total
		secSummary.Critical += sec.Summary.Critical
		secSummary.High += sec.Summary.High
		secSummary.Medium += sec.Summary.Medium
		secSummary.Low += sec.Summary.Low

		if det.Probability > maxAI {
			maxAI = det.Probability
		}
		if det.Probability > model.AIThreshold {
			totalAILines += lines
		}
		totalLines += lines

		results = append(results, FileReport{
			Path:         f.Path,
			AIConfidence: det.Probability,
			LinesChanged: lines,
			Status:       model.StatusFor(det.Probability),
			Detection:    det,
			Issues:       sec.Issues,
		})
	}

	var aiPct float64
	if totalLines > 0 {
		aiPct = float64(totalAILines) / float64(totalLines) * 100
	}

	analysis := policy.CommitAnalysis{
		MaxAIConfidence:   maxAI,
		AIPercentage:      aiPct,
		TotalLinesChanged: totalLines,
		ReviewTimeSeconds: reviewTimeSeconds,
		SecurityIssues:    allIssues,
	}
	for _, r := range results {
		analysis.Files = append(analysis.Files, policy.FileAnalysis{
			Path:         r.Path,
			AIConfidence: r.AIConfidence,
			LinesChanged: r.LinesChanged,
		})
	}

	policyResult := s.engine.Evaluate(analysis)

	rep := Report{
		Status:          "completed",
		FilesScanned:    len(results),
		MaxAIConfidence: detect.Round3(maxAI),
		AIPercentage:    math.Round(aiPct*10) / 10,
		TotalLines:      totalLines,
		Results:         results,
		Security:        secSummary,
		Policy:          policyResult,
		Blocked:         !policyResult.Allowed,
		Violations:      policyResult.Violations,
		Warnings:        policyResult.Warnings,
	}
	for _, r := range results {
		if r.Status == model.StatusAIGenerated {
			rep.AIDetected++
		} else {
			rep.HumanWritten++
		}
	}
	return rep
}
