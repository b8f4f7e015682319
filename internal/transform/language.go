package transform

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// languages maps extensions to fence language identifiers.
var languages = map[string]string{
	// Frontend
	".js": "javascript", ".jsx": "javascript", ".ts": "typescript", ".tsx": "typescript",
	".vue": "javascript", ".svelte": "javascript",
	".css": "css", ".scss": "css", ".sass": "css", ".less": "css",
	".html": "html", ".htm": "html", ".json": "json", ".graphql": "graphql", ".gql": "graphql",
	// Backend
	".py": "python", ".java": "java", ".cpp": "cpp", ".cc": "cpp", ".cxx": "cpp",
	".c": "c", ".h": "c", ".hpp": "cpp", ".go": "go", ".rs": "rust", ".rb": "ruby",
	".php": "php", ".cs": "csharp", ".kt": "kotlin", ".swift": "swift", ".scala": "scala",
	".clj": "clojure", ".ex": "elixir", ".exs": "elixir", ".erl": "erlang", ".lua": "lua",
	".r": "r",
	// Configuration and scripts
	".sh": "bash", ".bash": "bash", ".zsh": "bash", ".fish": "fish", ".sql": "sql",
	".yaml": "yaml", ".yml": "yaml", ".toml": "toml", ".xml": "xml", ".ini": "ini",
	".conf": "conf", ".env": "bash",
	// Documentation
	".md": "markdown", ".mdx": "mdx", ".rst": "rst", ".txt": "text",
	// Other
	".dockerfile": "dockerfile", ".makefile": "makefile",
}

// IsCode reports whether name is a source file the code transformer handles:
// a known extension, or a file chroma recognizes by name (Dockerfile,
// Makefile, go.mod).
func IsCode(name string) bool {
	if _, ok := languages[strings.ToLower(filepath.Ext(name))]; ok {
		return true
	}
	return lexers.Match(filepath.Base(name)) != nil
}

// Language returns the fence language for name: the extension table first,
// then chroma's filename patterns, then "text".
func Language(name string) string {
	if lang, ok := languages[strings.ToLower(filepath.Ext(name))]; ok {
		return lang
	}
	if l := lexers.Match(filepath.Base(name)); l != nil {
		cfg := l.Config()
		if len(cfg.Aliases) > 0 {
			return cfg.Aliases[0]
		}
		return strings.ToLower(cfg.Name)
	}
	return "text"
}

// ExtensionLanguage looks name up in the extension table only.
func ExtensionLanguage(name string) (string, bool) {
	lang, ok := languages[strings.ToLower(filepath.Ext(name))]
	return lang, ok
}
