package main

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/lox/holdemtable/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("holdemtable"), kong.Vars{"version": "test"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestParseCommands(t *testing.T) {
	cli, ctx := parse(t, "create", "main", "-p", "Alice", "-p", "Bob", "--server", "http://example:9000")
	assert.Equal(t, "create <id>", ctx.Command())
	assert.Equal(t, "main", cli.Create.ID)
	assert.Equal(t, []string{"Alice", "Bob"}, cli.Create.Players)
	assert.Equal(t, "http://example:9000", cli.Server)

	cli, ctx = parse(t, "join", "main", "Carol", "3")
	assert.Equal(t, "join <id> <player> <seat>", ctx.Command())
	assert.Equal(t, 3, cli.Join.Seat)

	cli, _ = parse(t, "serve", "--seed", "7", "--idle-timeout", "10m")
	require.NotNil(t, cli.Serve.Seed)
	assert.Equal(t, int64(7), *cli.Serve.Seed)
	assert.Equal(t, "holdemtable.hcl", cli.Serve.Config)
}

func TestServeOverrides(t *testing.T) {
	seed := int64(99)
	cmd := &ServeCmd{Addr: "0.0.0.0:9000", LogLevel: "debug", Seed: &seed, BurnCards: true, IdleTimeout: "5m"}
	cfg := server.DefaultServerConfig()

	require.NoError(t, cmd.applyOverrides(cfg))
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, &seed, cfg.Engine.Seed)
	assert.True(t, cfg.Engine.BurnCards)
	assert.Equal(t, "5m", cfg.Engine.IdleTimeout)

	bad := &ServeCmd{Addr: "nope"}
	assert.Error(t, bad.applyOverrides(server.DefaultServerConfig()))
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("debug")
	assert.NoError(t, err)
	_, err = newLogger("chatty")
	assert.Error(t, err)
}
