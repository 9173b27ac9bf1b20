package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ngen/internal/adapters/logger"
	"go.trai.ch/ngen/internal/core/ports"
	"go.trai.ch/zerr"
)

func newLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)
	return lg, &buf
}

func TestLogger_ImplementsPort(_ *testing.T) {
	var _ ports.Logger = logger.New()
}

func TestLogger_Levels(t *testing.T) {
	lg, buf := newLogger(t)

	lg.Info("some message")
	lg.Warn("some warning")
	lg.Debug("hidden detail")

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "some message")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "some warning")
	assert.NotContains(t, out, "hidden detail")
}

func TestLogger_Verbose(t *testing.T) {
	lg, buf := newLogger(t)

	lg.SetVerbose(true)
	lg.Debug("rule C_COMPILER already registered")
	assert.Contains(t, buf.String(), "level=DEBUG")

	buf.Reset()
	lg.SetVerbose(false)
	lg.Debug("dropped")
	assert.Empty(t, buf.String())
}

func TestLogger_Error(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		lg, buf := newLogger(t)
		lg.Error(os.ErrPermission)

		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "permission denied")
	})

	t.Run("nil error", func(t *testing.T) {
		lg, buf := newLogger(t)
		lg.Error(nil)
		assert.Empty(t, buf.String())
	})

	t.Run("cause chain and metadata", func(t *testing.T) {
		lg, buf := newLogger(t)
		sentinel := zerr.New("missing required command definition")
		err := zerr.With(zerr.Wrap(sentinel, "lower target"), "target", "app")

		lg.Error(err)

		out := buf.String()
		assert.Contains(t, out, "lower target")
		assert.Contains(t, out, "caused by: missing required command definition")
		assert.Contains(t, out, "target=app")
	})
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newLogger(t)
	lg.SetJSON(true)

	lg.Error(zerr.With(zerr.Wrap(errors.New("disk full"), "commit build.ninja"), "path", "build/build.ninja"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "build/build.ninja", record["path"])
	assert.Contains(t, record["error"], "disk full")
}
