package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/holdemtable/internal/client"
	"github.com/lox/holdemtable/internal/tui"
)

// Globals holds flags shared by the client commands
type Globals struct {
	ClientConfig string `name:"client-config" default:"holdemtable-client.hcl" help:"Path to client HCL configuration file"`
	Server       string `short:"s" help:"Server URL (overrides client config)"`
	NoColor      bool   `name:"no-color" help:"Disable colored output (overrides client config)"`
}

// newLogger creates the root logger at level
func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
	}), nil
}

// connect loads the client configuration, applies flag overrides and
// returns a client for the configured server.
func (g *Globals) connect() (*client.Client, *client.ClientConfig, error) {
	cfg, err := client.LoadClientConfig(g.ClientConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if g.Server != "" {
		cfg.Server.URL = g.Server
	}
	if g.NoColor {
		cfg.UI.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.UI.NoColor {
		tui.DisableColor()
	}

	logger, err := newLogger(cfg.UI.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	c, err := client.NewClient(cfg.Server.URL, cfg.Timeout(), logger)
	if err != nil {
		return nil, nil, err
	}
	return c, cfg, nil
}

// player returns name, falling back to the configured player
func player(name string, cfg *client.ClientConfig) string {
	if name != "" {
		return name
	}
	return cfg.Player.Name
}
