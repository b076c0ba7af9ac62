// File: internal/reporting/csv.go
package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Header is the fixed CSV column set, one data row per processed prompt.
var Header = []string{"User Input", "Bot Reply", "Response Time (s)", "Accuracy (%)", "Tone"}

// Reporter defines the interface for writing probe results to an output.
type Reporter interface {
	// Write appends result records to the report.
	Write(records []Record) error
	// Close finalizes the report and releases the underlying resources.
	Close() error
}

// CSVReporter streams records to a CSV file, truncating any previous run.
type CSVReporter struct {
	wc  io.WriteCloser
	csv *csv.Writer
}

var _ Reporter = (*CSVReporter)(nil)

// NewCSVReporter creates the output file and writes the header row.
func NewCSVReporter(path string) (*CSVReporter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	return &CSVReporter{wc: f, csv: w}, nil
}

// Write appends one row per record.
func (r *CSVReporter) Write(records []Record) error {
	for _, rec := range records {
		row := []string{
			rec.Input,
			rec.Reply,
			strconv.FormatFloat(rec.ResponseTime, 'f', 2, 64),
			strconv.FormatFloat(rec.Accuracy, 'f', 2, 64),
			string(rec.Tone),
		}
		if err := r.csv.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	r.csv.Flush()
	return r.csv.Error()
}

// Close flushes buffered rows and closes the file.
func (r *CSVReporter) Close() error {
	r.csv.Flush()
	if err := r.csv.Error(); err != nil {
		r.wc.Close()
		return err
	}
	return r.wc.Close()
}
