package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesJSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, "production")

	l.Info("post created", "post_id", "abc")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "post created", record["msg"])
	assert.Equal(t, "abc", record["post_id"])
}

func TestSetupDropsDebugOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, "production")

	l.Debug("noise")

	assert.Empty(t, buf.String())
}

func TestSetupDefaultUsesTextInDevelopment(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	SetupDefault(&buf, "development")
	slog.Debug("connect scheduled", "platform", "linkedin")

	assert.Contains(t, buf.String(), "platform=linkedin")
}
