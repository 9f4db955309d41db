package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "file", cfg.Roster.Source)
	assert.Equal(t, "succession-events", cfg.Kafka.EventTopic)
	assert.Equal(t, 3, cfg.Kafka.MaxAttempts)
	assert.EqualValues(t, 50, cfg.Hierarchy["bignumber"])
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  mode: debug
log:
  level: debug
  format: console
roster:
  source: redis
  redis_key: roster:test
hierarchy:
  bigNumber: 3
  somethingElse: true
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "redis", cfg.Roster.Source)
	assert.Equal(t, "roster:test", cfg.Roster.RedisKey)
	// untouched keys keep their defaults
	assert.Equal(t, "members", cfg.Roster.Table)
	assert.EqualValues(t, 3, cfg.Hierarchy["bignumber"])
	assert.Equal(t, true, cfg.Hierarchy["somethingelse"])
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"9090\"\n")
	t.Setenv("SUCCESSION_SERVER_PORT", "7070")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}

func TestInit_SetsGlobal(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"6060\"\n")

	Init(path)

	assert.Equal(t, "6060", Conf.Server.Port)
}
