// File: internal/reporting/summary.go
package reporting

import (
	"fmt"
	"io"
	"math"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/tmcneil/chatprobe/internal/scoring"
)

// tones fixes the display order of the distribution table.
var tones = []scoring.Tone{scoring.TonePositive, scoring.ToneNeutral, scoring.ToneNegative}

// Summarize aggregates the result collection: mean latency, mean accuracy,
// and the tone frequency distribution as percentages (one decimal).
func Summarize(records []Record) Summary {
	s := Summary{
		Count:            len(records),
		ToneDistribution: make(map[scoring.Tone]float64, len(tones)),
	}
	for _, tone := range tones {
		s.ToneDistribution[tone] = 0.0
	}
	if len(records) == 0 {
		return s
	}

	counts := make(map[scoring.Tone]int, len(tones))
	var timeSum, accSum float64
	for _, rec := range records {
		timeSum += rec.ResponseTime
		accSum += rec.Accuracy
		counts[rec.Tone]++
	}

	n := float64(len(records))
	s.MeanResponseTime = scoring.Round2(timeSum / n)
	s.MeanAccuracy = scoring.Round2(accSum / n)
	for _, tone := range tones {
		s.ToneDistribution[tone] = round1(float64(counts[tone]) / n * 100)
	}
	return s
}

// Render prints the summary block: averages, then the tone table.
func (s Summary) Render(w io.Writer) {
	headline := color.New(color.FgCyan, color.Bold)
	headline.Fprintln(w, "\nSUMMARY REPORT")

	fmt.Fprintf(w, "Prompts Scored: %d\n", s.Count)
	fmt.Fprintf(w, "Average Response Time: %.2fs\n", s.MeanResponseTime)
	fmt.Fprintf(w, "Average Accuracy Score: %.2f%%\n", s.MeanAccuracy)
	fmt.Fprintln(w, "Tone Distribution:")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Tone", "Share"})
	for _, tone := range tones {
		table.Append([]string{string(tone), fmt.Sprintf("%.1f%%", s.ToneDistribution[tone])})
	}
	table.Render()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
