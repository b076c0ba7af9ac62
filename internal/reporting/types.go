// File: internal/reporting/types.go

// Package reporting persists probe results to CSV and renders the console
// summary shown at the end of a run.
package reporting

import (
	"github.com/tmcneil/chatprobe/internal/scoring"
)

// Record is the write-once outcome row for a single prompt.
type Record struct {
	Input        string
	Reply        string
	ResponseTime float64 // seconds, two decimals
	Accuracy     float64 // percent, two decimals
	Tone         scoring.Tone
}

// Summary aggregates a result collection for the console report.
type Summary struct {
	Count            int
	MeanResponseTime float64
	MeanAccuracy     float64
	// ToneDistribution maps each tone to its share of records, in percent
	// with one decimal. All three tones are always present.
	ToneDistribution map[scoring.Tone]float64
}
