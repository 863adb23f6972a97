package server

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/holdemtable/internal/game"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server *ServerSettings `hcl:"server,block"`
	Engine *EngineSettings `hcl:"engine,block"`
	Games  []GamePreset    `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// EngineSettings configures the tables the server creates
type EngineSettings struct {
	Seed          *int64 `hcl:"seed,optional"`
	BurnCards     bool   `hcl:"burn_cards,optional"`
	IdleTimeout   string `hcl:"idle_timeout,optional"`
	SweepInterval string `hcl:"sweep_interval,optional"`
}

// GamePreset is a table created when the server starts
type GamePreset struct {
	ID      string   `hcl:"id,label"`
	Players []string `hcl:"players,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: &ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Engine: &EngineSettings{
			IdleTimeout:   "0s",
			SweepInterval: "1m",
		},
	}
}

// LoadServerConfig loads server configuration from HCL file. A missing file
// yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *ServerConfig) applyDefaults() {
	defaults := DefaultServerConfig()
	if c.Server == nil {
		c.Server = defaults.Server
	}
	if c.Engine == nil {
		c.Engine = defaults.Engine
	}

	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaults.Server.LogLevel
	}
	if c.Engine.IdleTimeout == "" {
		c.Engine.IdleTimeout = defaults.Engine.IdleTimeout
	}
	if c.Engine.SweepInterval == "" {
		c.Engine.SweepInterval = defaults.Engine.SweepInterval
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Server.LogLevel, err)
	}

	idle, err := time.ParseDuration(c.Engine.IdleTimeout)
	if err != nil || idle < 0 {
		return fmt.Errorf("invalid idle_timeout %q", c.Engine.IdleTimeout)
	}
	sweep, err := time.ParseDuration(c.Engine.SweepInterval)
	if err != nil || sweep <= 0 {
		return fmt.Errorf("invalid sweep_interval %q", c.Engine.SweepInterval)
	}

	seen := make(map[string]bool)
	for _, g := range c.Games {
		if g.ID == "" {
			return fmt.Errorf("game block needs an id")
		}
		if seen[g.ID] {
			return fmt.Errorf("duplicate game %q", g.ID)
		}
		seen[g.ID] = true
		if len(g.Players) > game.MaxSeats {
			return fmt.Errorf("game %q: %d players exceeds %d seats", g.ID, len(g.Players), game.MaxSeats)
		}
	}
	return nil
}

// ListenAddr returns the host:port to listen on
func (c *ServerConfig) ListenAddr() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// IdleTimeout is the parsed idle_timeout; zero disables reaping
func (c *ServerConfig) IdleTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Engine.IdleTimeout)
	return d
}

// SweepInterval is the parsed sweep_interval
func (c *ServerConfig) SweepInterval() time.Duration {
	d, _ := time.ParseDuration(c.Engine.SweepInterval)
	return d
}

// TableOptions returns the game options every table is created with
func (c *ServerConfig) TableOptions() []game.Option {
	return []game.Option{game.WithBurnCards(c.Engine.BurnCards)}
}

// CreatePresets creates the configured games on service
func (c *ServerConfig) CreatePresets(service *GameService) error {
	for _, g := range c.Games {
		if _, err := service.Create(g.ID, g.Players); err != nil {
			return fmt.Errorf("preset game %q: %w", g.ID, err)
		}
	}
	return nil
}
