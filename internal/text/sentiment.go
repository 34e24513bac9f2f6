package text

// Sentiment labels.
const (
	Positive = "Positive"
	Negative = "Negative"
	Neutral  = "Neutral"
)

var positiveWords = toSet(
	"amazing", "awesome", "beautiful", "best", "better", "brilliant", "delight",
	"delighted", "easy", "excellent", "fantastic", "fast", "fine", "good", "great",
	"happy", "helpful", "impressive", "incredible", "like", "love", "loved",
	"lovely", "nice", "perfect", "pleasant", "recommend", "reliable", "satisfied",
	"smooth", "superb", "thanks", "useful", "wonderful", "works",
)

var negativeWords = toSet(
	"angry", "annoying", "awful", "bad", "broken", "bug", "buggy", "crash",
	"disappointed", "disappointing", "difficult", "fail", "failed", "fails",
	"hate", "hated", "horrible", "poor", "problem", "refund", "sad", "slow",
	"terrible", "ugly", "unhappy", "unusable", "useless", "waste", "worse",
	"worst", "wrong",
)

// negators flip the polarity of the next sentiment word.
var negators = toSet("not", "no", "never", "don't", "doesn't", "didn't", "isn't", "wasn't", "can't", "won't")

// Sentiment classifies s as Positive, Negative or Neutral by counting
// lexicon hits.
func Sentiment(s string) string {
	score := 0
	negate := false
	for _, w := range words(s) {
		if _, ok := negators[w]; ok {
			negate = true
			continue
		}
		delta := 0
		if _, ok := positiveWords[w]; ok {
			delta = 1
		} else if _, ok := negativeWords[w]; ok {
			delta = -1
		}
		if delta != 0 {
			if negate {
				delta = -delta
			}
			score += delta
			negate = false
		}
	}

	switch {
	case score > 0:
		return Positive
	case score < 0:
		return Negative
	default:
		return Neutral
	}
}
