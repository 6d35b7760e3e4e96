package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oaiiae/huma-contacts-patch/cli/logger"
)

func TestNewWithOutput(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithOutput(&logger.Options{Level: "warn", Format: "json"}, &buf)
	log.Info("hidden")
	log.Warn("shown", "k", "v")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "shown", record["msg"])
	assert.Equal(t, "v", record["k"])
}

func TestNewWithOutputFallbacks(t *testing.T) {
	var buf bytes.Buffer
	options := &logger.Options{Level: "loud", Format: "yaml"}
	log := logger.NewWithOutput(options, &buf)
	assert.Equal(t, "", options.Level)
	assert.Equal(t, "text", options.Format)
	assert.Contains(t, buf.String(), "could not parse logger format")
	assert.Contains(t, buf.String(), "could not parse logger level")

	buf.Reset()
	log.Debug("hidden")
	log.Info("shown")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewWithOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	var buf bytes.Buffer
	logger.NewWithOutput(&logger.Options{File: path, Format: "text"}, &buf).Info("to file")
	assert.Empty(t, buf.String())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "msg=\"to file\"")

	options := &logger.Options{File: filepath.Join(path, "not-a-dir", "x.log"), Format: "text"}
	logger.NewWithOutput(options, &buf)
	assert.Equal(t, "", options.File)
	assert.Contains(t, buf.String(), "could not open logger file")
}

func TestNewWithOutputDevNull(t *testing.T) {
	var buf bytes.Buffer
	logger.NewWithOutput(&logger.Options{File: os.DevNull, Format: "text"}, &buf).Error("dropped")
	assert.Empty(t, buf.String())
}
