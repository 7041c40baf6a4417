package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestParseLevel(t *testing.T) {
	for input, want := range map[string]Level{
		"":         InfoLevel,
		"DEBUG":    DebugLevel,
		" warn ":   WarnLevel,
		"error":    ErrorLevel,
		"disabled": DisabledLevel,
	} {
		got, err := ParseLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: WarnLevel, Output: &buf})
	logger.Info("hidden")
	logger.Warn("shown", "stage", "develop")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "stage=develop")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: InfoLevel, Output: &buf, JSON: true})
	logger.Info("iteration finished", "requirements", 3)

	line := buf.String()
	assert.Equal(t, "iteration finished", gjson.Get(line, "msg").String())
	assert.Equal(t, int64(3), gjson.Get(line, "requirements").Int())
}

func TestDiscardAndContext(t *testing.T) {
	logger := Discard()
	logger.Error("nothing")

	assert.NotNil(t, FromContext(context.Background()))

	var buf bytes.Buffer
	attached := New(Config{Output: &buf})
	ctx := ContextWithLogger(context.Background(), attached)
	assert.Same(t, attached, FromContext(ctx))
}

func TestOpenFileAndTee(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	f, err := OpenFile(dir)
	require.NoError(t, err)

	var console bytes.Buffer
	logger := New(Tee(Config{Level: InfoLevel, Output: &console}, f))
	logger.Info("persisted")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "persisted")
	assert.Contains(t, console.String(), "persisted")
}
