package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false, "json")

	logger.Debug().Msg("hidden")
	logger.Info().Str("path", "site.yaml").Msg("loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "site.yaml", entry["path"])
	assert.Equal(t, "loaded", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true, "json")

	logger.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false, "console")

	logger.Info().Msg("hello")
	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.NotContains(t, out, `"message"`)
}
