package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{name: "debug level with text format", level: "debug", format: "text", expectLevel: logrus.DebugLevel},
		{name: "info level with json format", level: "info", format: "json", expectLevel: logrus.InfoLevel},
		{name: "upper case level", level: "WARN", format: "text", expectLevel: logrus.WarnLevel},
		{name: "invalid level defaults to info", level: "invalid", format: "text", expectLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			require.NotNil(t, logger)

			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			if tt.format == "json" {
				_, ok := adapter.logger.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "formatter should be JSONFormatter")
			} else {
				_, ok := adapter.logger.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "formatter should be TextFormatter")
			}
		})
	}
}

func TestLogrusAdapter_FieldsInJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("debug", "json", &buf)

	logger.WithField(FieldInputFile, "in.csv").
		WithError(errors.New("boom")).
		Warn("Skipping line", F(FieldLine, 3), F(FieldFieldCount, 5))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Skipping line", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "in.csv", entry[FieldInputFile])
	assert.Equal(t, "boom", entry["error"])
	assert.EqualValues(t, 3, entry[FieldLine])
	assert.EqualValues(t, 5, entry[FieldFieldCount])
}

func TestLogrusAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("warn", "text", &buf)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Error("visible error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible error")
}

func TestLogrusAdapter_AppField(t *testing.T) {
	var buf bytes.Buffer
	NewLogrusAdapterWithOutput("info", "json", &buf).Info("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, AppName, entry["app"])
}

func TestLogrusAdapter_InvalidLevelWarns(t *testing.T) {
	var buf bytes.Buffer
	NewLogrusAdapterWithOutput("loud", "text", &buf)

	assert.Contains(t, buf.String(), "Invalid log level, using info")
	assert.Contains(t, buf.String(), "requested_level=loud")
}

func TestSortFields(t *testing.T) {
	keys := []string{"zeta", FieldOutputFile, "msg", "app", FieldLine, "level", "time", FieldInputFile}

	sortFields(keys)

	assert.Equal(t, []string{"time", "level", "msg", FieldLine, FieldInputFile, FieldOutputFile, "app", "zeta"}, keys)
}
