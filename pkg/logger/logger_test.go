package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "warn")
	require.NoError(t, err)

	log.Info("CreateReservation: tenant=%s", "t1")
	assert.Empty(t, buf.String())

	log.Warn("CreateReservation: overlap for tenant=%s", "t1")
	assert.Contains(t, buf.String(), "CreateReservation: overlap for tenant=t1")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "info")
	require.NoError(t, err)

	log.With("request_id", "abc").Info("hello")
	assert.Contains(t, buf.String(), `"request_id":"abc"`)
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New("", "verbose")
	assert.Error(t, err)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(path, "debug")
	require.NoError(t, err)
	log.Debug("written")
	assert.NoError(t, log.Close())
}
