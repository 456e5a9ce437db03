package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCLILogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewCLILogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", "rows", 4)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "rows=4")
}

func TestNewCLILogger_BadLevelDefaultsToInfo(t *testing.T) {
	logger := NewCLILogger(&bytes.Buffer{}, "loud")
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
