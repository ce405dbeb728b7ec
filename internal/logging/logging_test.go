package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.WarnLevel},
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warn ", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_ConsoleFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn, err := New(Options{Level: "warn", Console: &buf})
	require.NoError(t, err)

	log.Info("quiet")
	log.Warn("bank questions without analytics", zap.Int("count", 2))
	require.NoError(t, closeFn())

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "bank questions without analytics")
	assert.Contains(t, out, "WARN")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "banksort.log")
	var console bytes.Buffer
	log, closeFn, err := New(Options{Level: "debug", File: path, Console: &console})
	require.NoError(t, err)

	log.Debug("cache miss", zap.String("fingerprint", "abc"))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "cache miss", entry["msg"])
	assert.Equal(t, "abc", entry["fingerprint"])
	assert.Equal(t, "DEBUG", entry["level"])
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}
