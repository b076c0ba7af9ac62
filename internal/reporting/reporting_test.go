// File: internal/reporting/reporting_test.go
package reporting

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmcneil/chatprobe/internal/scoring"
)

func sampleRecords() []Record {
	return []Record{
		{
			Input:        "What is Julius AI capable of doing?",
			Reply:        "Julius AI can analyze data, answer questions, and act like a chatbot assistant.",
			ResponseTime: 14.52,
			Accuracy:     100.00,
			Tone:         scoring.TonePositive,
		},
		{
			Input:        "Can you help me write a short poem about autumn?",
			Reply:        "No reply detected",
			ResponseTime: 35.02,
			Accuracy:     0.00,
			Tone:         scoring.ToneNeutral,
		},
	}
}

func TestCSVReporter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	cr, err := NewCSVReporter(path)
	require.NoError(t, err)

	// The round trip runs through the Reporter contract, not the concrete type.
	var r Reporter = cr
	require.NoError(t, r.Write(sampleRecords()))
	require.NoError(t, r.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per record")

	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{
		"What is Julius AI capable of doing?",
		"Julius AI can analyze data, answer questions, and act like a chatbot assistant.",
		"14.52", "100.00", "Positive",
	}, rows[1])
	assert.Equal(t, "No reply detected", rows[2][1])
	assert.Equal(t, "35.02", rows[2][2])
	assert.Equal(t, "0.00", rows[2][3])
	assert.Equal(t, "Neutral", rows[2][4])
}

func TestCSVReporter_OverwritesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale,data\n1,2\n3,4\n"), 0o644))

	r, err := NewCSVReporter(path)
	require.NoError(t, err)
	require.NoError(t, r.Write(sampleRecords()[:1]))
	require.NoError(t, r.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 2, "previous contents must be truncated")
	assert.Equal(t, Header, rows[0])
}

func TestCSVReporter_EmptyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	r, err := NewCSVReporter(path)
	require.NoError(t, err)
	require.NoError(t, r.Write(nil))
	require.NoError(t, r.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "User Input,Bot Reply,Response Time (s),Accuracy (%),Tone\n", string(data))
}

func TestNewCSVReporter_BadPath(t *testing.T) {
	_, err := NewCSVReporter(filepath.Join(t.TempDir(), "missing", "results.csv"))
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	records := []Record{
		{ResponseTime: 10.00, Accuracy: 100.00, Tone: scoring.TonePositive},
		{ResponseTime: 20.00, Accuracy: 50.00, Tone: scoring.ToneNeutral},
	}

	s := Summarize(records)
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 15.00, s.MeanResponseTime, 0.001)
	assert.InDelta(t, 75.00, s.MeanAccuracy, 0.001)
	assert.InDelta(t, 50.0, s.ToneDistribution[scoring.TonePositive], 0.001)
	assert.InDelta(t, 50.0, s.ToneDistribution[scoring.ToneNeutral], 0.001)
	assert.InDelta(t, 0.0, s.ToneDistribution[scoring.ToneNegative], 0.001)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Count)
	assert.Zero(t, s.MeanResponseTime)
	assert.Zero(t, s.MeanAccuracy)
	// The distribution still enumerates every tone so the report renders.
	assert.Len(t, s.ToneDistribution, 3)
}

func TestSummarize_ThirdsRounding(t *testing.T) {
	records := []Record{
		{Tone: scoring.TonePositive},
		{Tone: scoring.TonePositive},
		{Tone: scoring.ToneNegative},
	}
	s := Summarize(records)
	assert.InDelta(t, 66.7, s.ToneDistribution[scoring.TonePositive], 0.001)
	assert.InDelta(t, 33.3, s.ToneDistribution[scoring.ToneNegative], 0.001)
}

func TestSummaryRender(t *testing.T) {
	var buf bytes.Buffer
	s := Summarize(sampleRecords())
	s.Render(&buf)

	out := buf.String()
	assert.Contains(t, out, "SUMMARY REPORT")
	assert.Contains(t, out, "Average Response Time: 24.77s")
	assert.Contains(t, out, "Average Accuracy Score: 50.00%")
	assert.Contains(t, out, "Positive")
	assert.Contains(t, out, "50.0%")
}
