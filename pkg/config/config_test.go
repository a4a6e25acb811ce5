package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.Server.Port)
	assert.Equal(t, "./data/legilight.db", cfg.SQLite.Path)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 100000, cfg.Analysis.MaxDocumentChars)
	assert.Equal(t, 500, cfg.Analysis.MaxQuestionChars)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LEGILIGHT_SERVER_PORT", "9090")
	t.Setenv("LEGILIGHT_LLM_MODEL", "gpt-4o")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
}
