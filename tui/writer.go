package tui

import (
	"fmt"
	"io"
)

// lineWriter accumulates formatted output and goes quiet after the first
// write error, so render methods can emit a whole block and check Err once
// at the end.
type lineWriter struct {
	w   io.Writer
	err error
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{w: w}
}

func (lw *lineWriter) printf(format string, args ...any) {
	if lw.err != nil {
		return
	}
	_, lw.err = fmt.Fprintf(lw.w, format, args...)
}

func (lw *lineWriter) line(args ...any) {
	if lw.err != nil {
		return
	}
	_, lw.err = fmt.Fprintln(lw.w, args...)
}

// field emits an aligned label/value row.
func (lw *lineWriter) field(label string, value any) {
	lw.printf("  %-16s %v\n", label, value)
}

// Err returns the first write error, or nil.
func (lw *lineWriter) Err() error {
	return lw.err
}
