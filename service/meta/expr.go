package meta

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// expandEnvExpr replaces every ${env.KEY} in value with lookup(KEY). An
// expression with an invalid key is kept literally; an unterminated one ends
// expansion.
func expandEnvExpr(value string, lookup func(string) string) string {
	if lookup == nil {
		lookup = os.Getenv
	}
	var b strings.Builder
	rest := value
	for {
		idx := strings.Index(rest, envPrefix)
		if idx < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:idx])
		rest = rest[idx+len(envPrefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			b.WriteString(envPrefix)
			b.WriteString(rest)
			return b.String()
		}
		key := rest[:end]
		if !validKey(key) {
			// rescan from just after the prefix so nested expressions expand
			b.WriteString(envPrefix)
			continue
		}
		b.WriteString(lookup(key))
		rest = rest[end+1:]
	}
}

func validKey(key string) bool {
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
