package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/lox/holdemtable/internal/randutil"
	"github.com/lox/holdemtable/internal/server"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// ServeCmd runs the HTTP and WebSocket server
type ServeCmd struct {
	Config      string `short:"c" default:"holdemtable.hcl" help:"Path to HCL configuration file"`
	Addr        string `short:"a" help:"Server address to bind to, host:port (overrides config)"`
	LogLevel    string `short:"l" help:"Log level (overrides config)"`
	Seed        *int64 `help:"Deterministic RNG seed (overrides config)"`
	BurnCards   bool   `help:"Burn a card before each community deal (overrides config)"`
	IdleTimeout string `help:"Discard games idle for this long, 0 disables (overrides config)"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := c.applyOverrides(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg.Server.LogLevel)
	if err != nil {
		return err
	}

	if cfg.Engine.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *cfg.Engine.Seed)
	}
	service := server.NewGameService(logger,
		server.WithRandSource(randutil.NewSourceFrom(cfg.Engine.Seed)),
		server.WithTableOptions(cfg.TableOptions()...),
	)
	if err := cfg.CreatePresets(service); err != nil {
		return err
	}

	srv := server.NewServer(cfg.ListenAddr(), service, logger)
	reaper := server.NewReaper(service, cfg.IdleTimeout(), cfg.SweepInterval(), logger)

	logger.Info("Starting holdemtable server",
		"addr", cfg.ListenAddr(),
		"games", len(cfg.Games),
		"burn_cards", cfg.Engine.BurnCards,
		"idle_timeout", cfg.IdleTimeout())

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		return reaper.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (c *ServeCmd) applyOverrides(cfg *server.ServerConfig) error {
	if c.Addr != "" {
		host, port, err := net.SplitHostPort(c.Addr)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", c.Addr, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port in %q: %w", c.Addr, err)
		}
		cfg.Server.Address = host
		cfg.Server.Port = p
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Seed != nil {
		cfg.Engine.Seed = c.Seed
	}
	if c.BurnCards {
		cfg.Engine.BurnCards = true
	}
	if c.IdleTimeout != "" {
		cfg.Engine.IdleTimeout = c.IdleTimeout
	}
	return nil
}
