package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "app.log")

	log, err := New(file, "debug")
	require.NoError(t, err)

	log.Info("BookAppointment: date=%s, time=%s", "2026-02-18", "09:00")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BookAppointment: date=2026-02-18, time=09:00")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")

	log, err := New(file, "chatty")
	require.NoError(t, err)

	log.Debug("hidden")
	log.Warn("visible")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Info("nothing %d", 1)
	log.Error("nothing")
	assert.NoError(t, log.Close())
}
