package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_LevelAndColour(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, true)

	logger.Debug("hidden")
	logger.Info("region assigned", slog.String("region", "compressed_liquid"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "region assigned")
	assert.Contains(t, out, "region=compressed_liquid")
	assert.NotContains(t, out, "\x1b[", "NoColor must suppress ANSI escapes")
}
