package tui

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a progress indicator on a terminal writer. On non-TTY
// writers it stays silent so piped output is never polluted.
type spinner struct {
	out      io.Writer
	interval time.Duration
	err      error
}

func (s *spinner) emit(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.out, format, args...)
}

func (s *spinner) onTerminal() bool {
	f, ok := s.out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// animate redraws the frame until done is closed, then clears the line.
func (s *spinner) animate(message string, done <-chan struct{}, finished chan<- struct{}) {
	defer close(finished)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.emit("\033[2K\r%s%s%s %s", Cyan, spinnerFrames[i%len(spinnerFrames)], Reset, message)
		select {
		case <-done:
			s.emit("\033[2K\r")
			return
		case <-ticker.C:
		}
	}
}

// SpinnerOption configures the spinner.
type SpinnerOption func(*spinner)

// WithWriter redirects the spinner output.
func WithWriter(w io.Writer) SpinnerOption {
	return func(s *spinner) {
		s.out = w
	}
}

// WithInterval sets the frame interval.
func WithInterval(d time.Duration) SpinnerOption {
	return func(s *spinner) {
		s.interval = d
	}
}

// RunWithSpinner runs fn while animating a spinner with the given message.
// The spinner only renders when the output is a terminal; fn's result and
// error pass through either way.
func RunWithSpinner[T any](message string, fn func() (T, error), opts ...SpinnerOption) (T, error) {
	s := spinner{
		out:      os.Stderr,
		interval: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&s)
	}

	if !s.onTerminal() {
		return fn()
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go s.animate(message, done, finished)

	result, err := fn()

	close(done)
	<-finished

	if err != nil {
		return result, err
	}
	return result, s.err
}
