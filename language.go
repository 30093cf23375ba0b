package jupyter

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// defaultLanguage is the fence tag used when the notebook metadata names
// no kernel language. Python is by far the most common Jupyter kernel.
const defaultLanguage = "python"

// fenceLanguage normalizes a kernel language name to a fence tag.
// Kernel names like "python3" or "Python" resolve through the chroma
// lexer registry to their canonical alias; names chroma does not know
// are lowercased and sanitized so the fence stays valid.
func fenceLanguage(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultLanguage
	}
	if lexer := lexers.Get(name); lexer != nil {
		cfg := lexer.Config()
		if len(cfg.Aliases) > 0 {
			return cfg.Aliases[0]
		}
		return strings.ToLower(cfg.Name)
	}
	return sanitizeTag(name)
}

// sanitizeTag keeps only characters safe inside a fence info string.
func sanitizeTag(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '+', r == '#':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return defaultLanguage
	}
	return b.String()
}
