package utils

import (
	"regexp"
	"strings"
)

// redigoMetaEscape is the set of regexp metacharacters that must be
// escaped before translating Redis glob syntax (`*`, `?`) into a regexp.
const redigoMetaEscape = `.()+|^$@%\`

// CompileGlob turns a Redis-style glob pattern (`*` -> any run, `?` -> any
// single char) into an anchored regexp, used by SCAN/KEYS pattern matching.
func CompileGlob(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			if strings.ContainsRune(redigoMetaEscape, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('$')
	return regexp.Compile(b.String())
}
