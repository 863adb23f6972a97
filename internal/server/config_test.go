package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadServerConfigMissingFile(t *testing.T) {
	t.Parallel()
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfig(), cfg)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:8080", cfg.ListenAddr())
	assert.Zero(t, cfg.IdleTimeout())
	assert.Equal(t, time.Minute, cfg.SweepInterval())
}

func TestLoadServerConfig(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
server {
  address   = "0.0.0.0"
  port      = 9090
  log_level = "debug"
}

engine {
  seed           = 1234
  burn_cards     = true
  idle_timeout   = "30m"
  sweep_interval = "30s"
}

game "main" {
  players = ["Alice", "Bob"]
}

game "empty" {}
`)

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	require.NotNil(t, cfg.Engine.Seed)
	assert.Equal(t, int64(1234), *cfg.Engine.Seed)
	assert.True(t, cfg.Engine.BurnCards)
	assert.Equal(t, 30*time.Minute, cfg.IdleTimeout())
	assert.Equal(t, 30*time.Second, cfg.SweepInterval())
	require.Len(t, cfg.Games, 2)
	assert.Equal(t, GamePreset{ID: "main", Players: []string{"Alice", "Bob"}}, cfg.Games[0])
	assert.Equal(t, "empty", cfg.Games[1].ID)
}

func TestLoadServerConfigPartial(t *testing.T) {
	t.Parallel()
	cfg, err := LoadServerConfig(writeConfig(t, `engine { burn_cards = true }`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultServerConfig().Server, cfg.Server)
	assert.Nil(t, cfg.Engine.Seed)
	assert.Equal(t, time.Minute, cfg.SweepInterval())
}

func TestLoadServerConfigErrors(t *testing.T) {
	t.Parallel()
	_, err := LoadServerConfig(writeConfig(t, `server {`))
	assert.Error(t, err)

	_, err = LoadServerConfig(writeConfig(t, `unknown = 1`))
	assert.Error(t, err)
}

func TestServerConfigValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"port zero", func(c *ServerConfig) { c.Server.Port = 0 }},
		{"port too high", func(c *ServerConfig) { c.Server.Port = 70000 }},
		{"bad log level", func(c *ServerConfig) { c.Server.LogLevel = "loud" }},
		{"bad idle timeout", func(c *ServerConfig) { c.Engine.IdleTimeout = "soon" }},
		{"negative idle timeout", func(c *ServerConfig) { c.Engine.IdleTimeout = "-1m" }},
		{"zero sweep interval", func(c *ServerConfig) { c.Engine.SweepInterval = "0s" }},
		{"duplicate game", func(c *ServerConfig) { c.Games = []GamePreset{{ID: "a"}, {ID: "a"}} }},
		{"too many players", func(c *ServerConfig) {
			c.Games = []GamePreset{{ID: "a", Players: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCreatePresets(t *testing.T) {
	t.Parallel()
	service, _ := newTestService(t)
	cfg := DefaultServerConfig()
	cfg.Games = []GamePreset{{ID: "main", Players: []string{"Alice", "Bob"}}, {ID: "side"}}

	require.NoError(t, cfg.CreatePresets(service))
	games := service.List()
	require.Len(t, games, 2)
	assert.Equal(t, []string{"Alice", "Bob"}, games[0].Players)

	assert.Error(t, cfg.CreatePresets(service), "presets already exist")
}
