package tui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithSpinner_PassesThroughResult(t *testing.T) {
	var buf bytes.Buffer

	got, err := RunWithSpinner("working...", func() (int, error) {
		return 42, nil
	}, WithWriter(&buf))

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Empty(t, buf.String(), "non-TTY writer must stay silent")
}

func TestRunWithSpinner_PassesThroughError(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("fetch failed")

	got, err := RunWithSpinner("working...", func() (string, error) {
		return "partial", boom
	}, WithWriter(&buf))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "partial", got, "partial results survive alongside the error")
	assert.Empty(t, buf.String())
}
