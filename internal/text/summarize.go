package text

import (
	"sort"
	"strings"
)

// DefaultSummarySentences is how many sentences Summarize keeps.
const DefaultSummarySentences = 3

// Summarize returns the n highest scoring sentences of s in their original
// order. Sentences score by the frequency of their non-stop words,
// normalized by length so long sentences do not always win.
func Summarize(s string, n int) string {
	if n <= 0 {
		n = DefaultSummarySentences
	}

	sents := sentences(s)
	if len(sents) <= n {
		return strings.Join(sents, " ")
	}

	freq := make(map[string]int)
	for _, w := range words(s) {
		if !IsStopWord(w) {
			freq[w]++
		}
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(sents))
	for i, sent := range sents {
		ws := words(sent)
		total := 0
		for _, w := range ws {
			total += freq[w]
		}
		score := 0.0
		if len(ws) > 0 {
			score = float64(total) / float64(len(ws))
		}
		ranked[i] = scored{idx: i, score: score}
	}

	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })
	keep := ranked[:n]
	sort.Slice(keep, func(a, b int) bool { return keep[a].idx < keep[b].idx })

	out := make([]string, len(keep))
	for i, k := range keep {
		out[i] = sents[k.idx]
	}
	return strings.Join(out, " ")
}
