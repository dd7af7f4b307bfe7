package policy

import (
	"path"
	"strings"
)

// FileAnalysis is the per-file detection summary fed into evaluation.
type FileAnalysis struct {
	Path         string  `json:"path"`
	AIConfidence float64 `json:"ai_confidence"`
	LinesChanged int     `json:"lines_changed"`
}

// SecurityIssue is the slice of a scanner finding that policy checks
// inspect.
type SecurityIssue struct {
	Type     string `json:"type"`
	Severity string `json:"severity,omitempty"`
	Line     int    `json:"line,omitempty"`
}

// CommitAnalysis is everything the engine knows about one commit. A nil
// ReviewTimeSeconds means no review timing is available and review_time
// conditions are skipped.
type CommitAnalysis struct {
	Files             []FileAnalysis  `json:"files"`
	MaxAIConfidence   float64         `json:"max_ai_confidence"`
	AIPercentage      float64         `json:"ai_percentage"`
	TotalLinesChanged int             `json:"total_lines_changed"`
	ReviewTimeSeconds *int            `json:"review_time_seconds,omitempty"`
	SecurityIssues    []SecurityIssue `json:"security_issues,omitempty"`
}

// Violation records a blocked policy.
type Violation struct {
	Policy  string   `json:"policy"`
	Message string   `json:"message"`
	Files   []string `json:"files"`
}

// Warning records a warn policy that fired.
type Warning struct {
	Policy  string `json:"policy"`
	Message string `json:"message"`
}

// Result is the outcome of evaluating one commit against every policy.
type Result struct {
	Allowed           bool        `json:"allowed"`
	Violations        []Violation `json:"violations"`
	Warnings          []Warning   `json:"warnings"`
	RequiredReviewers []string    `json:"required_reviewers"`
}

// Engine evaluates commit analyses against a loaded configuration.
type Engine struct {
	cfg *Config
}

// NewEngine wraps a loaded configuration.
func NewEngine(cfg *Config) *Engine {
	return &Engine{cfg: cfg}
}

// Evaluate runs every policy over the analysis. A commit is allowed unless
// at least one block policy fires.
func (e *Engine) Evaluate(analysis CommitAnalysis) Result {
	result := Result{
		Allowed:           true,
		Violations:        []Violation{},
		Warnings:          []Warning{},
		RequiredReviewers: []string{},
	}

	for _, p := range e.cfg.Policies {
		triggered, matchedFiles := e.evaluatePolicy(p, analysis)
		if !triggered {
			continue
		}

		switch p.Action {
		case ActionBlock:
			result.Allowed = false
			result.Violations = append(result.Violations, Violation{
				Policy:  p.Name,
				Message: p.Message,
				Files:   matchedFiles,
			})
		case ActionWarn:
			result.Warnings = append(result.Warnings, Warning{
				Policy:  p.Name,
				Message: p.Message,
			})
		case ActionRequireReviewers:
			if p.Reviewers != nil {
				result.RequiredReviewers = append(result.RequiredReviewers, p.Reviewers.Teams...)
			}
		}
	}

	return result
}

func (e *Engine) evaluatePolicy(p Policy, analysis CommitAnalysis) (bool, []string) {
	if !triggerMatches(p.Trigger, analysis) {
		return false, nil
	}

	var matchedFiles []string
	if len(p.Paths) > 0 {
		matchedFiles = matchPaths(p.Paths, analysis.Files)
		if len(matchedFiles) == 0 {
			return false, nil
		}
	} else {
		for _, f := range analysis.Files {
			matchedFiles = append(matchedFiles, f.Path)
		}
	}

	// Security checks gate in reverse: when every listed check passes the
	// policy does not fire.
	if len(p.Trigger.Checks) > 0 && checksPass(p.Trigger.Checks, analysis) {
		return false, nil
	}

	return true, matchedFiles
}

func triggerMatches(t Trigger, analysis CommitAnalysis) bool {
	if t.AIConfidence.IsSet() && !t.AIConfidence.Matches(analysis.MaxAIConfidence*100) {
		return false
	}
	if t.AIPercentage.IsSet() && !t.AIPercentage.Matches(analysis.AIPercentage) {
		return false
	}
	if t.LinesChanged.IsSet() && !t.LinesChanged.Matches(float64(analysis.TotalLinesChanged)) {
		return false
	}
	if t.ReviewTime.IsSet() && analysis.ReviewTimeSeconds != nil {
		if !t.ReviewTime.Matches(float64(*analysis.ReviewTimeSeconds)) {
			return false
		}
	}
	return true
}

// matchPaths returns the file paths matching any of the glob patterns.
// Patterns use segment-scoped matching where ** is equivalent to *; a
// malformed pattern matches nothing.
func matchPaths(patterns []string, files []FileAnalysis) []string {
	var matched []string
	for _, f := range files {
		for _, pattern := range patterns {
			ok, err := path.Match(strings.ReplaceAll(pattern, "**", "*"), f.Path)
			if err != nil {
				continue
			}
			if ok {
				matched = append(matched, f.Path)
				break
			}
		}
	}
	return matched
}

// checkIssueTypes maps check names to the scanner issue types they veto on.
var checkIssueTypes = map[string]string{
	"hardcoded_secrets": "hardcoded_secret",
	"sql_injection":     "sql_injection",
	"xss_patterns":      "xss",
}

// checksPass reports whether every named check passes. Unknown check names
// pass. A check fails when any security issue of its type is present.
func checksPass(checks []string, analysis CommitAnalysis) bool {
	for _, check := range checks {
		issueType, ok := checkIssueTypes[check]
		if !ok {
			continue
		}
		for _, issue := range analysis.SecurityIssues {
			if issue.Type == issueType {
				return false
			}
		}
	}
	return true
}
