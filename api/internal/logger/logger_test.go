package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := build(&buf, "warn", false)

	log.Info().Msg("hidden")
	log.Warn().Int64("chat_id", 42).Msg("shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "warn", rec["level"])
	assert.Equal(t, "shown", rec["message"])
	assert.Equal(t, "avbot", rec["service"])
	assert.EqualValues(t, 42, rec["chat_id"])
	assert.Contains(t, rec, "time")
}

func TestBuild_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := build(&buf, "loud", false)
	log.Debug().Msg("debug")
	log.Info().Msg("info")
	assert.NotContains(t, buf.String(), `"debug"`)
	assert.Contains(t, buf.String(), `"info"`)
}

func TestBuild_Pretty(t *testing.T) {
	var buf bytes.Buffer
	log := build(&buf, "info", true)
	log.Info().Str("job_id", "j1").Msg("done")
	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "j1")
	assert.NotContains(t, out, "{")
}
