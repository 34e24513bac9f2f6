// Package text implements the built-in text capabilities.
//
// Every capability is a plain string transformation. Register wires them
// into a core.Registry under their public operation names.
package text

import (
	"github.com/JonMunkholm/textflow/internal/core"
)

// Operation names exposed to clients.
const (
	OpSummarization     = "Summarization"
	OpSentimentAnalysis = "Sentiment Analysis"
	OpConvertCase       = "Convert Case"
	OpKeywordExtraction = "Keyword Extraction"
	OpSpellCheck        = "Spell Check"
	OpRemoveStopWords   = "Remove Stop Words"
	OpHTMLToText        = "HTML To Text"
)

// Options customizes the built-in registry.
type Options struct {
	// Summarizer replaces the extractive summarizer when set, e.g. with an
	// LLM-backed capability.
	Summarizer core.Capability

	// SummarySentences is the number of sentences kept by the extractive
	// summarizer. Zero means DefaultSummarySentences.
	SummarySentences int

	// KeywordCount is the number of keywords returned. Zero means
	// DefaultKeywordCount.
	KeywordCount int
}

// Register adds every built-in capability to reg in a stable order.
func Register(reg *core.Registry, opts Options) {
	summarize := opts.Summarizer
	if summarize == nil {
		n := opts.SummarySentences
		summarize = core.Func(func(s string) string { return Summarize(s, n) })
	}
	k := opts.KeywordCount

	reg.Register(OpSummarization, summarize)
	reg.Register(OpSentimentAnalysis, core.Func(Sentiment))
	reg.Register(OpConvertCase, core.Func(ConvertCase))
	reg.Register(OpKeywordExtraction, core.Func(func(s string) string { return Keywords(s, k) }))
	reg.Register(OpSpellCheck, core.Func(SpellCheck))
	reg.Register(OpRemoveStopWords, core.Func(RemoveStopWords))
	reg.Register(OpHTMLToText, core.FuncErr(HTMLToText))
}

// NewRegistry returns a registry holding only the built-ins.
func NewRegistry(opts Options) *core.Registry {
	reg := core.NewRegistry()
	Register(reg, opts)
	return reg
}
