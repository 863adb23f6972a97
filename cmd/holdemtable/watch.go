package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lox/holdemtable/internal/tui"
)

// WatchCmd follows a game in a terminal UI
type WatchCmd struct {
	ID       string `arg:"" help:"Game ID"`
	Player   string `short:"p" help:"Watch as this player (defaults to client config)"`
	ReadOnly bool   `name:"read-only" help:"Disable the deal and reset keys"`
}

func (c *WatchCmd) Run(g *Globals) error {
	cl, cfg, err := g.connect()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	viewer := player(c.Player, cfg)
	stream, err := cl.Watch(ctx, c.ID, viewer)
	if err != nil {
		return err
	}
	defer func() { _ = stream.Close() }()

	tcfg := tui.Config{
		GameID:    c.ID,
		Viewer:    viewer,
		Updates:   stream.C,
		StreamErr: stream.Err,
	}
	if !c.ReadOnly {
		tcfg.Controller = cl
	}
	return tui.Run(ctx, tcfg)
}
