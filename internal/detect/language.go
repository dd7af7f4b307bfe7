package detect

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Languages with dedicated comment-marker sets in stylometry. Everything else
// degrades to the "auto" superset.
var knownHints = map[string]string{
	"python":     "python",
	"javascript": "javascript",
	"jsx":        "javascript",
	"typescript": "typescript",
	"tsx":        "typescript",
	"go":         "go",
	"java":       "java",
}

// LanguageForFile maps a filename to a stylometry language hint using the
// chroma lexer registry, falling back to "auto" when nothing matches.
func LanguageForFile(filename string) string {
	lexer := lexerForFile(filename)
	if lexer == nil {
		return "auto"
	}

	name := strings.ToLower(lexer.Config().Name)
	if hint, ok := knownHints[name]; ok {
		return hint
	}
	return "auto"
}

func lexerForFile(filename string) chroma.Lexer {
	lexer := lexers.Match(filename)
	if lexer == nil {
		ext := filepath.Ext(filename)
		if ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	return lexer
}
