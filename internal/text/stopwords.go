package text

import "strings"

// RemoveStopWords drops stop words from s. Remaining tokens keep their
// original form and are joined with single spaces.
func RemoveStopWords(s string) string {
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if w := bareWord(f); w != "" && IsStopWord(w) {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
