package tui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failWriter struct {
	failAfter int
	written   int
}

func (fw *failWriter) Write(p []byte) (int, error) {
	if fw.written >= fw.failAfter {
		return 0, errors.New("write failed")
	}
	fw.written += len(p)
	return len(p), nil
}

func TestLineWriter_Output(t *testing.T) {
	var buf bytes.Buffer
	lw := newLineWriter(&buf)

	lw.printf("hello %s\n", "world")
	lw.line("line two")
	lw.field("Domain", "workstation")

	require.NoError(t, lw.Err())
	assert.Equal(t, "hello world\nline two\n  Domain           workstation\n", buf.String())
}

func TestLineWriter_StopsAfterFirstError(t *testing.T) {
	lw := newLineWriter(&failWriter{})

	lw.printf("first")
	first := lw.Err()
	require.Error(t, first)

	lw.printf("second")
	lw.line("third")

	assert.Same(t, first, lw.Err(), "later writes must not replace the first error")
}
