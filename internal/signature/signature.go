// Package signature matches source text against a library of weighted regex
// signatures for known AI-authorship idioms.
package signature

import (
	"fmt"
	"regexp"
	"strings"
)

// Signature is a named pattern with a confidence weight.
type Signature struct {
	Name   string
	Weight float64
	re     *regexp.Regexp
}

// Match is one located occurrence of a signature.
type Match struct {
	Name      string  `json:"pattern"`
	Weight    float64 `json:"confidence"`
	LineStart int     `json:"line_start"`
	LineEnd   int     `json:"line_end"`
	Snippet   string  `json:"snippet"`
}

// Result is the outcome of scanning one source text.
type Result struct {
	Score   float64 // sum of matched weights, capped at 1.0
	Matched int     // total number of matches
	Matches []Match
}

const snippetLimit = 100

// Signature definitions: (name, pattern, weight). Patterns that fail to
// compile are dropped at construction so one bad entry never takes down the
// rest of the library.
var signatureDefs = []struct {
	name    string
	pattern string
	weight  float64
}{
	// Error handling
	{"copilot_try_catch", `try\s*\{[^}]+\}\s*catch\s*\(\s*(?:error|err|e)\s*(?::\s*\w+)?\s*\)\s*\{[^}]*(?:console\.(?:error|log)|throw)[^}]*\}`, 0.15},
	{"standard_error_throw", `throw\s+new\s+Error\s*\(\s*['"` + "`" + `](?:Failed to|Unable to|Error|Invalid|Cannot)[^'"` + "`" + `]+['"` + "`" + `]\s*\)`, 0.12},

	// Async
	{"async_await_fetch", `async\s+(?:function\s+)?\w+\s*\([^)]*\)\s*(?::\s*Promise<[^>]+>)?\s*\{[^}]*await\s+fetch`, 0.10},
	{"promise_chain", `\.then\s*\(\s*(?:\([^)]*\)|[a-z]+)\s*=>\s*\{?[^}]*\}\s*\)\s*\.catch`, 0.08},

	// Comments
	{"jsdoc_complete", `/\*\*\s*\n(?:\s*\*\s*@\w+[^\n]*\n)+\s*\*/`, 0.10},
	{"inline_explanation", `//\s*[A-Z][a-z]+(?:\s+[a-z]+){3,}`, 0.08},

	// Variables
	{"descriptive_const", `const\s+[a-z]+(?:[A-Z][a-z]+){2,}\s*=`, 0.06},
	{"response_data_pattern", `(?:const|let)\s+(?:response|data|result)\s*=\s*await`, 0.08},

	// Functions
	{"arrow_with_types", `const\s+\w+\s*=\s*(?:async\s*)?\([^)]*:\s*\w+[^)]*\)\s*(?::\s*\w+(?:<[^>]+>)?)?\s*=>`, 0.10},
	{"export_default_function", `export\s+default\s+(?:async\s+)?function\s+\w+`, 0.06},

	// React hooks
	{"use_effect_deps", `useEffect\s*\(\s*\(\s*\)\s*=>\s*\{[^}]+\}\s*,\s*\[[^\]]*\]\s*\)`, 0.08},
	{"use_state_destructure", `const\s*\[\s*\w+\s*,\s*set[A-Z]\w+\s*\]\s*=\s*useState`, 0.08},

	// Imports
	{"grouped_imports", `import\s*\{[^}]{20,}\}\s*from\s*['"][^'"]+['"]`, 0.05},

	// Types
	{"interface_complete", `interface\s+\w+\s*\{(?:\s*\w+\s*:\s*\w+(?:<[^>]+>)?;?\s*){3,}\}`, 0.08},
	{"type_alias", `type\s+\w+\s*=\s*\{(?:\s*\w+\s*:\s*\w+(?:<[^>]+>)?;?\s*){2,}\}`, 0.06},

	// Python
	{"python_docstring", `"""[^"]+(?:Args:|Returns:|Raises:)[^"]+"""`, 0.10},
	{"python_type_hints", `def\s+\w+\s*\([^)]*:\s*\w+[^)]*\)\s*->\s*\w+:`, 0.08},
	{"python_try_except", `try:\s*\n[^e]+except\s+\w+(?:\s+as\s+\w+)?:\s*\n`, 0.10},

	// Go
	{"go_error_check", `if\s+err\s*!=\s*nil\s*\{[^}]*return[^}]*\}`, 0.12},
	{"go_defer", `defer\s+(?:\w+\.)?(?:Close|Unlock|Done)\s*\(\s*\)`, 0.08},

	// Generic AI tells
	{"numbered_steps", `//\s*(?:Step\s+)?\d+[.:]\s*[A-Z]`, 0.06},
	{"todo_ai_style", `//\s*TODO:\s*[A-Z][a-z]+\s+[a-z]+`, 0.05},
}

// Library is a fixed, ordered set of compiled signatures. Safe for concurrent
// use; construct once and share.
type Library struct {
	signatures []Signature
}

// NewLibrary compiles the built-in signature set.
func NewLibrary() *Library {
	lib := &Library{}
	for _, def := range signatureDefs {
		re, err := regexp.Compile(def.pattern)
		if err != nil {
			continue
		}
		lib.signatures = append(lib.signatures, Signature{
			Name:   def.name,
			Weight: def.weight,
			re:     re,
		})
	}
	return lib
}

// Len returns the number of usable signatures.
func (l *Library) Len() int {
	return len(l.signatures)
}

// Scan matches every signature against code. Matches from different patterns
// are counted independently; overlaps are not deduplicated. The returned
// score is the weight sum capped at 1.0.
func (l *Library) Scan(code string) Result {
	var res Result
	var total float64

	for _, sig := range l.signatures {
		for _, loc := range sig.re.FindAllStringIndex(code, -1) {
			res.Matches = append(res.Matches, Match{
				Name:      sig.Name,
				Weight:    sig.Weight,
				LineStart: lineAt(code, loc[0]),
				LineEnd:   lineAt(code, loc[1]),
				Snippet:   truncate(code[loc[0]:loc[1]]),
			})
			total += sig.Weight
		}
	}

	res.Matched = len(res.Matches)
	if total > 1.0 {
		total = 1.0
	}
	res.Score = total
	return res
}

// lineAt returns the 1-based line number of a byte offset.
func lineAt(code string, offset int) int {
	return strings.Count(code[:offset], "\n") + 1
}

func truncate(s string) string {
	if len(s) <= snippetLimit {
		return s
	}
	return s[:snippetLimit] + "..."
}

// LineSpan formats a match's line range as "start-end".
func (m Match) LineSpan() string {
	return fmt.Sprintf("%d-%d", m.LineStart, m.LineEnd)
}
