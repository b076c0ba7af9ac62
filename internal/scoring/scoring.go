// File: internal/scoring/scoring.go

// Package scoring turns a captured chatbot reply into the metrics recorded
// for each prompt: keyword accuracy, response latency, and sentiment tone.
// Everything here is a pure function of its inputs.
package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"
)

// Tone is the three-bucket sentiment label assigned to a reply.
type Tone string

const (
	TonePositive Tone = "Positive"
	ToneNeutral  Tone = "Neutral"
	ToneNegative Tone = "Negative"
)

// Polarity thresholds for tone bucketing. Boundary values map to Neutral.
const (
	positiveThreshold = 0.2
	negativeThreshold = -0.2
)

// Accuracy computes the percentage of expected keywords found in the reply,
// rounded to two decimals.
//
// Matching is case-insensitive substring containment, not whole-word: the
// keyword "fall" matches the reply word "falling". An empty keyword set
// scores 100 (there is nothing the reply failed to contain).
func Accuracy(reply string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 100.0
	}

	replyLower := strings.ToLower(reply)
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(replyLower, strings.ToLower(kw)) {
			matched++
		}
	}
	return Round2(float64(matched) / float64(len(keywords)) * 100)
}

// Polarity scores the sentiment of text on [-1, 1] using the VADER lexicon.
func Polarity(text string) float64 {
	parsed := sentitext.Parse(text, lexicon.DefaultLexicon)
	return sentitext.PolarityScore(parsed).Compound
}

// BucketTone maps a polarity score to its tone label.
func BucketTone(polarity float64) Tone {
	switch {
	case polarity > positiveThreshold:
		return TonePositive
	case polarity < negativeThreshold:
		return ToneNegative
	default:
		return ToneNeutral
	}
}

// ToneOf is the composed convenience: polarity then bucketing.
func ToneOf(text string) Tone {
	return BucketTone(Polarity(text))
}

// Latency converts a wall-clock delta to seconds, rounded to two decimals.
func Latency(elapsed time.Duration) float64 {
	return Round2(elapsed.Seconds())
}

// Round2 rounds to two decimal places, the precision used in reports.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
