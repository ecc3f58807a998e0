package trace

import (
	"fmt"
	"os"
	"strings"

	"github.com/tebeka/atexit"
)

// CSVWriter streams routing records into a CSV file. Records are buffered
// and flushed when the buffer fills, on Close, and at process exit.
type CSVWriter struct {
	path string
	file *os.File

	records    []RoutingRecord
	bufferSize int
	err        error // first write error, reported by Close
}

// NewCSVWriter creates a CSVWriter for path. Call Init before writing.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Init creates the CSV file, overwriting any existing one.
func (w *CSVWriter) Init() error {
	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create trace file: %w", err)
	}
	w.file = file

	_, err = fmt.Fprintf(file, "CustomerID, Clock, Class, Chosen, QueueLengths\n")
	w.keep(err)

	atexit.Register(func() {
		_ = w.Close()
	})
	return nil
}

// Write buffers a record.
func (w *CSVWriter) Write(r RoutingRecord) {
	w.records = append(w.records, r)
	if len(w.records) >= w.bufferSize {
		w.Flush()
	}
}

// Flush writes the buffered records to the file.
func (w *CSVWriter) Flush() {
	if w.file == nil {
		return
	}
	for _, r := range w.records {
		lengths := make([]string, len(r.Candidates))
		for i, name := range r.Candidates {
			lengths[i] = fmt.Sprintf("%s=%d", name, r.QueueLengths[name])
		}
		_, err := fmt.Fprintf(w.file, "%d, %.10f, %s, %s, %s\n",
			r.CustomerID,
			r.Clock,
			r.Class,
			r.ChosenStation,
			strings.Join(lengths, " "),
		)
		w.keep(err)
	}
	w.records = nil
}

func (w *CSVWriter) keep(err error) {
	if w.err == nil && err != nil {
		w.err = fmt.Errorf("write trace file: %w", err)
	}
}

// Close flushes and closes the file. It returns the first write error,
// if any, so a truncated trace is not mistaken for a complete one.
// Closing twice is a no-op.
func (w *CSVWriter) Close() error {
	if w.file == nil {
		return nil
	}
	w.Flush()
	err := w.file.Close()
	w.file = nil
	if w.err != nil {
		return w.err
	}
	return err
}
