// Package pkg
package pkg

import "strings"

// MatchAny reports whether name matches one of the patterns. A pattern ending
// in "*" matches by prefix, anything else by substring. Matching ignores case.
func MatchAny(name string, patterns []string) bool {
	name = strings.ToLower(name)

	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}

		if strings.HasSuffix(p, "*") {
			if strings.HasPrefix(name, strings.TrimSuffix(p, "*")) {
				return true
			}
			continue
		}

		if strings.Contains(name, p) {
			return true
		}
	}

	return false
}
