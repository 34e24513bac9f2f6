package text

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	wordPattern     = regexp.MustCompile(`[\p{L}\p{N}]+(?:'[\p{L}]+)*`)
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)
)

// words returns the lower-cased word tokens of s.
func words(s string) []string {
	tokens := wordPattern.FindAllString(s, -1)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}
	return tokens
}

// sentences splits s on terminal punctuation, dropping empty pieces.
func sentences(s string) []string {
	var out []string
	for _, m := range sentencePattern.FindAllString(s, -1) {
		if m = strings.TrimSpace(m); m != "" && strings.IndexFunc(m, isWordRune) >= 0 {
			out = append(out, m)
		}
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// bareWord strips surrounding punctuation from a whitespace token.
func bareWord(tok string) string {
	return strings.ToLower(strings.TrimFunc(tok, func(r rune) bool { return !isWordRune(r) && r != '\'' }))
}

// stopWords is a common English stop word list.
var stopWords = toSet(
	"a", "about", "above", "after", "again", "against", "all", "am", "an", "and",
	"any", "are", "as", "at", "be", "because", "been", "before", "being", "below",
	"between", "both", "but", "by", "can", "could", "did", "do", "does", "doing",
	"down", "during", "each", "few", "for", "from", "further", "had", "has", "have",
	"having", "he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
	"i", "if", "in", "into", "is", "it", "it's", "its", "itself", "just", "me",
	"more", "most", "my", "myself", "no", "nor", "not", "now", "of", "off", "on",
	"once", "only", "or", "other", "our", "ours", "ourselves", "out", "over", "own",
	"same", "she", "should", "so", "some", "such", "than", "that", "the", "their",
	"theirs", "them", "themselves", "then", "there", "these", "they", "this",
	"those", "through", "to", "too", "under", "until", "up", "very", "was", "we",
	"were", "what", "when", "where", "which", "while", "who", "whom", "why", "will",
	"with", "would", "you", "your", "yours", "yourself", "yourselves",
)

// IsStopWord reports whether w (any case) is a stop word.
func IsStopWord(w string) bool {
	_, ok := stopWords[strings.ToLower(w)]
	return ok
}

func toSet(items ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, it := range items {
		m[it] = struct{}{}
	}
	return m
}
