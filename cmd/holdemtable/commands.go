package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/poker"
)

// CreateCmd creates a game, optionally seating players from seat 0
type CreateCmd struct {
	ID      string   `arg:"" optional:"" help:"Game ID, generated when omitted"`
	Players []string `short:"p" name:"player" help:"Player to seat, repeatable"`
}

func (c *CreateCmd) Run(g *Globals) error {
	cl, _, err := g.connect()
	if err != nil {
		return err
	}
	id, err := cl.Create(context.Background(), c.ID, c.Players)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

// ListCmd lists the games on the server
type ListCmd struct{}

func (c *ListCmd) Run(g *Globals) error {
	cl, _, err := g.connect()
	if err != nil {
		return err
	}
	games, err := cl.List(context.Background())
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Println("No games")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("GAME", "PHASE", "ROUND", "PLAYERS")
	for _, summary := range games {
		t.Row(summary.GameID, summary.Phase.String(), strconv.Itoa(summary.Round), strings.Join(summary.Players, ", "))
	}
	fmt.Println(t.Render())
	return nil
}

// StateCmd prints a snapshot of a game
type StateCmd struct {
	ID     string `arg:"" help:"Game ID"`
	Player string `short:"p" help:"View as this player (defaults to client config)"`
	JSON   bool   `help:"Print the raw JSON snapshot"`
}

func (c *StateCmd) Run(g *Globals) error {
	cl, cfg, err := g.connect()
	if err != nil {
		return err
	}
	snap, err := cl.State(context.Background(), c.ID, player(c.Player, cfg))
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	printSnapshot(snap)
	return nil
}

func printSnapshot(snap game.Snapshot) {
	fmt.Printf("Game %s: %s (round %d)\n", snap.GameID, snap.Phase, snap.Round)
	for _, seat := range snap.Seats {
		if seat.Name == nil {
			continue
		}
		line := fmt.Sprintf("  Seat %d: %s", seat.SeatIndex, *seat.Name)
		if len(seat.Hand) > 0 {
			line += " " + strings.Join(poker.FormatCards(seat.Hand), " ")
		}
		fmt.Println(line)
	}
	if len(snap.CommunityCards) > 0 {
		fmt.Println("  Board: " + strings.Join(poker.FormatCards(snap.CommunityCards), " "))
	}
	for _, w := range snap.Winners {
		fmt.Printf("  Winner: %s with %s (%s)\n", w.Name, w.HandRank, strings.Join(poker.FormatCards(w.BestFiveCards), " "))
	}
}

// JoinCmd seats a player
type JoinCmd struct {
	ID     string `arg:"" help:"Game ID"`
	Player string `arg:"" help:"Player name"`
	Seat   int    `arg:"" help:"Seat index, 0 to 7"`
}

func (c *JoinCmd) Run(g *Globals) error {
	cl, _, err := g.connect()
	if err != nil {
		return err
	}
	msg, err := cl.Join(context.Background(), c.ID, c.Player, c.Seat)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

// LeaveCmd removes a player from their seat
type LeaveCmd struct {
	ID     string `arg:"" help:"Game ID"`
	Player string `arg:"" help:"Player name"`
}

func (c *LeaveCmd) Run(g *Globals) error {
	cl, _, err := g.connect()
	if err != nil {
		return err
	}
	msg, err := cl.Leave(context.Background(), c.ID, c.Player)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

// DealCmd advances a game one phase
type DealCmd struct {
	ID string `arg:"" help:"Game ID"`
}

func (c *DealCmd) Run(g *Globals) error {
	cl, _, err := g.connect()
	if err != nil {
		return err
	}
	phase, err := cl.Deal(context.Background(), c.ID)
	if err != nil {
		return err
	}
	fmt.Println(phase)
	return nil
}

// ResetCmd returns a game to WAITING
type ResetCmd struct {
	ID string `arg:"" help:"Game ID"`
}

func (c *ResetCmd) Run(g *Globals) error {
	cl, _, err := g.connect()
	if err != nil {
		return err
	}
	return cl.Reset(context.Background(), c.ID)
}

// DiscardCmd removes a game from the server
type DiscardCmd struct {
	ID string `arg:"" help:"Game ID"`
}

func (c *DiscardCmd) Run(g *Globals) error {
	cl, _, err := g.connect()
	if err != nil {
		return err
	}
	return cl.Discard(context.Background(), c.ID)
}
