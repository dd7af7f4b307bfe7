// Package security scans source text for common vulnerability patterns.
package security

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sprite-ai/vibeguard/internal/model"
)

// Issue is a single vulnerability finding.
type Issue struct {
	Type     string         `json:"type"`
	Severity model.Severity `json:"severity"`
	Message  string         `json:"message"`
	Line     int            `json:"line"`
	Column   int            `json:"column"`
	Snippet  string         `json:"snippet"`
}

// Summary aggregates findings by severity.
type Summary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Report is the result of one scan.
type Report struct {
	Issues  []Issue `json:"issues"`
	Summary Summary `json:"summary"`
	Passed  bool    `json:"passed"`
}

// rule is one pattern within a vulnerability category. A non-nil unless
// regex suppresses the match when it also matches at the same offset.
type rule struct {
	re     *regexp.Regexp
	unless *regexp.Regexp
}

// Vulnerability categories and their detection patterns.
var vulnPatterns = []struct {
	vulnType string
	severity model.Severity
	message  string
	rules    []rule
}{
	{
		vulnType: "hardcoded_secret",
		severity: model.SeverityCritical,
		message:  "Hardcoded secret detected",
		rules: compileRules(
			`(?i)(api[_-]?key|apikey|secret[_-]?key|secretkey|auth[_-]?token|password|passwd|pwd)\s*[=:]\s*["'][^"']{8,}["']`,
			`(?i)(aws[_-]?access[_-]?key|aws[_-]?secret)\s*[=:]\s*["'][A-Za-z0-9+/=]{20,}["']`,
			`(?i)bearer\s+[a-zA-Z0-9\-_]+\.[a-zA-Z0-9\-_]+\.[a-zA-Z0-9\-_]+`,
			`(?i)(ghp|gho|ghu|ghs|ghr)_[a-zA-Z0-9]{36}`,
			`sk-[a-zA-Z0-9]{48}`,
			`(?i)private[_-]?key\s*[=:]\s*["']-----BEGIN`,
		),
	},
	{
		vulnType: "sql_injection",
		severity: model.SeverityHigh,
		message:  "Potential SQL injection vulnerability",
		rules: compileRules(
			`(?i)(execute|query|raw)\s*\(\s*["']?\s*SELECT.*\+`,
			`(?i)(execute|query|raw)\s*\(\s*f["'].*SELECT`,
			`(?i)cursor\.(execute|executemany)\s*\(\s*["'].*%s.*%s`,
			"(?i)\\.query\\s*\\(\\s*`[^`]*\\$\\{",
			`(?i)SELECT\s+.*\s+FROM\s+.*\s+WHERE\s+.*\s*\+\s*(?:req|request|params|body|query)`,
		),
	},
	{
		vulnType: "xss",
		severity: model.SeverityHigh,
		message:  "Potential XSS vulnerability",
		rules: append(
			// Flag innerHTML assignment unless it assigns an empty string.
			[]rule{{
				re:     regexp.MustCompile(`(?i)innerHTML\s*=\s*`),
				unless: regexp.MustCompile(`(?i)innerHTML\s*=\s*['"]\s*['"]`),
			}},
			compileRules(
				`(?i)document\.write\s*\(`,
				`(?i)\.html\s*\(\s*(?:req|request|params|data|input)`,
				`(?i)dangerouslySetInnerHTML`,
				`(?i)v-html\s*=`,
			)...,
		),
	},
	{
		vulnType: "path_traversal",
		severity: model.SeverityHigh,
		message:  "Potential path traversal vulnerability",
		rules: compileRules(
			`(?i)(open|readFile|readFileSync|createReadStream)\s*\(\s*(?:req|request|params)`,
			`(?i)path\.join\s*\([^)]*(?:req|request|params|body|query)`,
			`(?i)\.\./`,
		),
	},
	{
		vulnType: "insecure_random",
		severity: model.SeverityMedium,
		message:  "Insecure random number generator (use crypto module for security)",
		rules: compileRules(
			`Math\.random\s*\(\s*\)`,
			`(?i)random\.random\s*\(\s*\)`,
			`(?i)rand\s*\(\s*\)`,
		),
	},
	{
		vulnType: "eval_usage",
		severity: model.SeverityHigh,
		message:  "Dangerous eval/exec usage detected",
		rules: compileRules(
			`\beval\s*\(`,
			`(?i)exec\s*\(\s*(?:req|request|params|input)`,
			`Function\s*\(\s*["']`,
			`(?i)subprocess\.(?:call|run|Popen)\s*\(\s*(?:req|request|params|input|shell\s*=\s*True)`,
		),
	},
	{
		vulnType: "weak_crypto",
		severity: model.SeverityMedium,
		message:  "Weak cryptographic algorithm detected",
		rules: compileRules(
			`(?i)md5\s*\(`,
			`(?i)sha1\s*\(`,
			`(?i)createHash\s*\(\s*["']md5["']`,
			`(?i)createHash\s*\(\s*["']sha1["']`,
			`(?i)DES|3DES|RC4`,
		),
	},
	{
		vulnType: "cors_wildcard",
		severity: model.SeverityMedium,
		message:  "CORS wildcard allows any origin",
		rules: compileRules(
			`(?i)Access-Control-Allow-Origin["']?\s*[,:]\s*["']?\*`,
			`(?i)cors\s*\(\s*\{\s*origin\s*:\s*["']?\*`,
		),
	},
}

// compileRules builds rules from patterns, skipping any that fail to
// compile so one bad pattern cannot take down the whole category.
func compileRules(patterns ...string) []rule {
	var rules []rule
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		rules = append(rules, rule{re: re})
	}
	return rules
}

const snippetLimit = 100

// Scan runs every vulnerability pattern over the code and returns the
// deduplicated, severity-sorted findings.
func Scan(code string) Report {
	lines := strings.Split(code, "\n")
	var issues []Issue

	for _, vp := range vulnPatterns {
		for _, r := range vp.rules {
			for _, loc := range r.re.FindAllStringIndex(code, -1) {
				start := loc[0]
				if r.unless != nil {
					if idx := r.unless.FindStringIndex(code[start:]); idx != nil && idx[0] == 0 {
						continue
					}
				}
				lineNum := strings.Count(code[:start], "\n") + 1

				var snippet string
				if lineNum <= len(lines) {
					snippet = strings.TrimSpace(lines[lineNum-1])
				} else {
					snippet = code[loc[0]:loc[1]]
				}
				if len(snippet) > snippetLimit {
					snippet = snippet[:snippetLimit]
				}

				issues = append(issues, Issue{
					Type:     vp.vulnType,
					Severity: vp.severity,
					Message:  vp.message,
					Line:     lineNum,
					Column:   start - strings.LastIndex(code[:start], "\n"),
					Snippet:  snippet,
				})
			}
		}
	}

	issues = deduplicate(issues)
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity > issues[j].Severity
	})

	summary := Summary{Total: len(issues)}
	for _, issue := range issues {
		switch issue.Severity {
		case model.SeverityCritical:
			summary.Critical++
		case model.SeverityHigh:
			summary.High++
		case model.SeverityMedium:
			summary.Medium++
		default:
			summary.Low++
		}
	}

	return Report{
		Issues:  issues,
		Summary: summary,
		Passed:  len(issues) == 0,
	}
}

// deduplicate keeps the first issue per (type, line) pair.
func deduplicate(issues []Issue) []Issue {
	type key struct {
		vulnType string
		line     int
	}
	seen := make(map[key]bool)
	var unique []Issue
	for _, issue := range issues {
		k := key{issue.Type, issue.Line}
		if !seen[k] {
			seen[k] = true
			unique = append(unique, issue)
		}
	}
	return unique
}
