package text

import (
	"sort"
	"strings"
)

// DefaultKeywordCount is how many keywords Keywords returns.
const DefaultKeywordCount = 5

// Keywords returns the n most frequent non-stop words of s, joined with
// ", ". Ties keep first-appearance order. Single characters and numbers
// are ignored.
func Keywords(s string, n int) string {
	if n <= 0 {
		n = DefaultKeywordCount
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range words(s) {
		if len([]rune(w)) < 2 || IsStopWord(w) || isNumeric(w) {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(a, b int) bool { return counts[order[a]] > counts[order[b]] })
	if len(order) > n {
		order = order[:n]
	}
	return strings.Join(order, ", ")
}

func isNumeric(w string) bool {
	for _, r := range w {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
