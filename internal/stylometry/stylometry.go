// Package stylometry extracts style features from source text and scores
// how AI-typical they are.
//
// AI-generated code tends to have high naming consistency, moderate formulaic
// comments, even line lengths, exact indentation, and a higher ratio of
// standard boilerplate structures.
package stylometry

import (
	"math"
	"regexp"
	"strings"
)

// StyleFeatures is an immutable record of metrics derived from one source text.
type StyleFeatures struct {
	NamingConsistency      float64 `json:"naming_consistency"`      // 0-1, higher = more consistent (AI signal)
	CommentDensity         float64 `json:"comment_density"`         // comment lines / total lines
	AvgLineLength          float64 `json:"avg_line_length"`         // mean characters per non-empty line
	LineLengthVariance     float64 `json:"line_length_variance"`    // stddev of non-empty line lengths
	IndentationConsistency float64 `json:"indentation_consistency"` // 0-1, fraction of indents on the base unit
	BoilerplateRatio       float64 `json:"boilerplate_ratio"`       // common structural patterns, normalized
	EmptyLineRatio         float64 `json:"empty_line_ratio"`        // empty lines / total lines
	MaxNestingDepth        int     `json:"max_nesting_depth"`       // deepest bracket nesting
}

// Structural idioms that AI assistants emit at well above human base rates.
var boilerplatePatterns = compilePatterns(
	`try\s*\{[\s\S]*?catch`,
	`if\s*\(\s*!\s*\w+\s*\)\s*\{?\s*return`,
	`async\s+function\s+\w+\s*\([^)]*\)\s*\{`,
	`const\s+\w+\s*=\s*async\s*\([^)]*\)\s*=>`,
	`export\s+(default\s+)?(function|class|const)`,
	`import\s+\{[^}]+\}\s+from`,
	`@\w+\([^)]*\)`,
	`public\s+(static\s+)?(async\s+)?\w+\s*\(`,
	`private\s+(readonly\s+)?\w+:\s*\w+`,
	`interface\s+\w+\s*\{`,
	`type\s+\w+\s*=\s*\{`,
)

var (
	identifierPattern = regexp.MustCompile(`\b([a-z][a-zA-Z0-9_]*)\b`)
	camelCasePattern  = regexp.MustCompile(`^[a-z]+([A-Z][a-z]*)*$`)
)

// Comment line markers by language. Unknown hints fall back to "auto".
var commentMarkers = map[string][]string{
	"python":     {"#"},
	"javascript": {"//", "/*"},
	"typescript": {"//", "/*"},
	"go":         {"//", "/*"},
	"java":       {"//", "/*"},
	"auto":       {"//", "#", "/*"},
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	var compiled []*regexp.Regexp
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Analyzer extracts StyleFeatures from source text. The zero value is usable;
// Analyze never mutates its input and never fails on empty or malformed text.
type Analyzer struct{}

// NewAnalyzer creates a stylometry analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze extracts style features from code. The language hint selects the
// comment marker set; unrecognized values use the "auto" superset.
func (a *Analyzer) Analyze(code, language string) StyleFeatures {
	lines := strings.Split(code, "\n")

	var nonEmpty []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty = append(nonEmpty, l)
		}
	}

	return StyleFeatures{
		NamingConsistency:      analyzeNaming(code),
		CommentDensity:         analyzeComments(lines, language),
		AvgLineLength:          avgLineLength(nonEmpty),
		LineLengthVariance:     lineLengthVariance(nonEmpty),
		IndentationConsistency: analyzeIndentation(lines),
		BoilerplateRatio:       analyzeBoilerplate(code, len(lines)),
		EmptyLineRatio:         emptyLineRatio(lines),
		MaxNestingDepth:        maxNestingDepth(code),
	}
}

// analyzeNaming returns the dominant naming style's share of identifiers.
// AI tends to be very consistent; humans mix styles more often. Fewer than
// five identifiers yields a neutral 0.5.
func analyzeNaming(code string) float64 {
	matches := identifierPattern.FindAllString(code, -1)
	if len(matches) < 5 {
		return 0.5
	}

	var camel, snake int
	for _, id := range matches {
		if camelCasePattern.MatchString(id) {
			camel++
		}
		if strings.ContainsRune(id, '_') && id == strings.ToLower(id) {
			snake++
		}
	}

	dominant := camel
	if snake > dominant {
		dominant = snake
	}
	return float64(dominant) / float64(len(matches))
}

func analyzeComments(lines []string, language string) float64 {
	markers, ok := commentMarkers[language]
	if !ok {
		markers = commentMarkers["auto"]
	}

	var count int
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		for _, m := range markers {
			if strings.HasPrefix(trimmed, m) {
				count++
				break
			}
		}
	}

	total := len(lines)
	if total < 1 {
		total = 1
	}
	return float64(count) / float64(total)
}

func avgLineLength(nonEmpty []string) float64 {
	if len(nonEmpty) == 0 {
		return 0
	}
	var sum int
	for _, l := range nonEmpty {
		sum += len(l)
	}
	return float64(sum) / float64(len(nonEmpty))
}

// lineLengthVariance returns the sample standard deviation of non-empty line
// lengths. Low variance is an AI signal.
func lineLengthVariance(nonEmpty []string) float64 {
	n := len(nonEmpty)
	if n < 2 {
		return 0
	}

	mean := avgLineLength(nonEmpty)
	var sumSq float64
	for _, l := range nonEmpty {
		d := float64(len(l)) - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// analyzeIndentation infers a base indent unit (2 or 4 spaces) and returns
// the fraction of indents that are exact multiples of it.
func analyzeIndentation(lines []string) float64 {
	var indents []int
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		indents = append(indents, len(l)-len(strings.TrimLeft(l, " \t")))
	}

	if len(indents) == 0 {
		return 0.5
	}

	unit := 4
	for _, i := range indents {
		if i%2 == 0 && i%4 != 0 {
			unit = 2
			break
		}
	}

	var consistent int
	for _, i := range indents {
		if i%unit == 0 {
			consistent++
		}
	}
	return float64(consistent) / float64(len(indents))
}

func analyzeBoilerplate(code string, totalLines int) float64 {
	var matches int
	for _, p := range boilerplatePatterns {
		matches += len(p.FindAllStringIndex(code, -1))
	}

	norm := float64(totalLines) / 10
	if norm < 1 {
		norm = 1
	}
	return math.Min(float64(matches)/norm, 1.0)
}

func emptyLineRatio(lines []string) float64 {
	var empty int
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			empty++
		}
	}
	total := len(lines)
	if total < 1 {
		total = 1
	}
	return float64(empty) / float64(total)
}

// maxNestingDepth scans characters, counting any opening bracket up and any
// closing bracket down (floored at zero), and reports the deepest point.
func maxNestingDepth(code string) int {
	var depth, max int
	for _, ch := range code {
		switch ch {
		case '{', '[', '(':
			depth++
			if depth > max {
				max = depth
			}
		case '}', ']', ')':
			if depth > 0 {
				depth--
			}
		}
	}
	return max
}

// Feature weights for the AI-probability combination.
var featureWeights = struct {
	naming, indentation, boilerplate, comments, variance, emptyLines, nesting float64
}{
	naming:      0.20,
	indentation: 0.20,
	boilerplate: 0.20,
	comments:    0.10,
	variance:    0.15,
	emptyLines:  0.10,
	nesting:     0.05,
}

// Probability converts features into a probability that the code is
// AI-generated. Each feature is transformed into a [0,1] signal (some are
// centered around an AI-typical target, some inverted), then weighted.
func Probability(f StyleFeatures) float64 {
	signals := []struct {
		value, weight float64
	}{
		{f.NamingConsistency, featureWeights.naming},
		{f.IndentationConsistency, featureWeights.indentation},
		{f.BoilerplateRatio, featureWeights.boilerplate},
		// ~15% comment density is AI-like
		{1 - math.Abs(f.CommentDensity-0.15)*5, featureWeights.comments},
		// low variance is AI-like
		{1 - f.LineLengthVariance/30, featureWeights.variance},
		// ~15% empty lines is AI-like
		{1 - math.Abs(f.EmptyLineRatio-0.15)*5, featureWeights.emptyLines},
		// shallow nesting is AI-like
		{1 - float64(f.MaxNestingDepth)/10, featureWeights.nesting},
	}

	var p float64
	for _, s := range signals {
		p += clamp01(s.value) * s.weight
	}
	return p
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
