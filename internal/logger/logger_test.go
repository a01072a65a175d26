package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	original := log.Logger
	t.Cleanup(func() { log.Logger = original })

	var buf bytes.Buffer
	require.NoError(t, setup(&buf, "warn", FormatJSON))

	log.Info().Msg("hidden")
	log.Warn().Str("db_id", "concert_singer").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"db_id":"concert_singer"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestSetupErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, setup(&buf, "verbose", FormatText))
	assert.Error(t, setup(&buf, "info", "xml"))
}
