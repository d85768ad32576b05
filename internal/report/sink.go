package report

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Sink receives one formatted report per reporting cycle. A file or metrics
// sink is a drop-in replacement for the console: the text contract is the
// same.
type Sink interface {
	Emit(report string) error
}

// ConsoleSink writes reports to a stream, normally stdout.
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleSink creates a sink over w. A nil writer defaults to stdout.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) Emit(report string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintln(s.w, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// FileSink appends each report to a file, creating it on first use.
type FileSink struct {
	mu   sync.Mutex
	path string
}

// NewFileSink creates a sink appending to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Emit(report string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open report file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, report); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}
