package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLogger_CapturesDerivedLoggers(t *testing.T) {
	mock := NewMockLogger()
	errBoom := errors.New("boom")

	mock.Info("starting", F(FieldCount, 0))
	mock.WithField(FieldLine, 2).WithError(errBoom).Warn("skipped")

	entries := mock.GetEntries()
	require.Len(t, entries, 2)
	assert.True(t, mock.HasEntry("INFO", "starting"))

	warns := mock.GetEntriesByLevel("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, errBoom, warns[0].Error)

	line, ok := warns[0].FieldValue(FieldLine)
	assert.True(t, ok)
	assert.Equal(t, 2, line)

	_, ok = warns[0].FieldValue(FieldContent)
	assert.False(t, ok)
}

func TestMockLogger_ZeroValueUsable(t *testing.T) {
	var mock MockLogger
	mock.Debug("debug")
	mock.Error("error")

	assert.Len(t, mock.GetEntries(), 2)
	assert.Empty(t, mock.GetEntriesByLevel("INFO"))
}
