package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "production", "warn")

	log.Info().Msg("dropped")
	log.Warn().Str("component", "test").Msg("kept")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "production", entry["env"])
	assert.Equal(t, "test", entry["component"])
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	log := New(&bytes.Buffer{}, "production", "verbose")
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())

	log = New(&bytes.Buffer{}, "production", "")
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNew_DevelopmentIsHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "development", "debug")
	log.Debug().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()))
}
