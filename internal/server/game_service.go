package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/internal/gameid"
	"github.com/lox/holdemtable/internal/randutil"
)

// GameService is the operation surface shared by the HTTP boundary and the
// CLI. Every mutation is logged and published to subscribers.
type GameService struct {
	registry  *Registry
	hub       *Hub
	clock     quartz.Clock
	rngs      *randutil.Source
	ids       *gameid.Generator
	tableOpts []game.Option
	logger    *log.Logger
}

// ServiceOption configures a GameService
type ServiceOption func(*GameService)

// WithClock sets the clock used for idle tracking, IDs and message stamps.
func WithClock(clock quartz.Clock) ServiceOption {
	return func(s *GameService) { s.clock = clock }
}

// WithRandSource sets where table shuffling generators come from.
func WithRandSource(src *randutil.Source) ServiceOption {
	return func(s *GameService) { s.rngs = src }
}

// WithSeed makes every deal of the service reproducible.
func WithSeed(seed int64) ServiceOption {
	return WithRandSource(randutil.NewSource(seed))
}

// WithTableOptions applies opts to every table the service creates.
func WithTableOptions(opts ...game.Option) ServiceOption {
	return func(s *GameService) { s.tableOpts = append(s.tableOpts, opts...) }
}

// WithIDGenerator replaces the generator used when Create gets no ID.
func WithIDGenerator(g *gameid.Generator) ServiceOption {
	return func(s *GameService) { s.ids = g }
}

// NewGameService creates a game service with its own registry and hub
func NewGameService(logger *log.Logger, opts ...ServiceOption) *GameService {
	s := &GameService{
		clock:  quartz.NewReal(),
		logger: logger.WithPrefix("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rngs == nil {
		s.rngs = randutil.NewRandomSource()
	}
	if s.ids == nil {
		s.ids = gameid.NewGenerator(s.clock, nil)
	}
	s.registry = NewRegistry(s.clock, logger)
	s.hub = NewHub(logger)
	return s
}

// Hub returns the hub state changes are published to
func (s *GameService) Hub() *Hub { return s.hub }

// Clock returns the service clock
func (s *GameService) Clock() quartz.Clock { return s.clock }

// Create registers a new table in WAITING with players seated from seat 0.
// An empty id is replaced by a generated one.
func (s *GameService) Create(id string, players []string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		generated, err := s.ids.Generate()
		if err != nil {
			return "", fmt.Errorf("generate game id: %w", err)
		}
		id = generated
	}

	table := game.NewTable(id, s.rngs.Next(), s.tableOpts...)
	if err := table.SeatPlayers(players...); err != nil {
		return "", err
	}
	if err := s.registry.Create(table); err != nil {
		return "", err
	}

	s.logger.Info("Game created", "game", id, "players", len(players))
	return id, nil
}

// Exists reports whether a game is registered
func (s *GameService) Exists(id string) bool {
	return s.registry.View(id, func(*game.Table) error { return nil }) == nil
}

// State returns the snapshot of a game as seen by viewer
func (s *GameService) State(id, viewer string) (game.Snapshot, error) {
	var snap game.Snapshot
	err := s.registry.Do(id, func(t *game.Table) error {
		snap = t.State(viewer)
		return nil
	})
	return snap, err
}

// Join seats a player
func (s *GameService) Join(id, player string, seat int) error {
	return s.mutate(id, "join", func(t *game.Table) error {
		return t.Join(seat, player)
	}, "player", player, "seat", seat)
}

// Leave vacates a player's seat
func (s *GameService) Leave(id, player string) error {
	return s.mutate(id, "leave", func(t *game.Table) error {
		return t.Leave(player)
	}, "player", player)
}

// Deal advances the game one phase
func (s *GameService) Deal(id string) (game.Phase, error) {
	var phase game.Phase
	err := s.mutate(id, "deal", func(t *game.Table) error {
		var err error
		phase, err = t.DealNext()
		if err == nil && phase == game.Showdown {
			for _, w := range t.Winners() {
				s.logger.Info("Showdown", "game", id, "winner", w.Name, "seat", w.Seat, "hand", w.Hand.Category)
			}
		}
		return err
	})
	return phase, err
}

// Reset returns the game to WAITING
func (s *GameService) Reset(id string) error {
	return s.mutate(id, "reset", func(t *game.Table) error {
		t.ResetRound()
		return nil
	})
}

// Discard removes a game and closes its subscriptions
func (s *GameService) Discard(id string) error {
	if err := s.registry.Discard(id); err != nil {
		return err
	}
	s.hub.CloseGame(id)
	s.logger.Info("Game discarded", "game", id)
	return nil
}

// List summarizes every game in ID order. Listing does not count as use.
func (s *GameService) List() []GameSummary {
	ids := s.registry.IDs()
	games := make([]GameSummary, 0, len(ids))
	for _, id := range ids {
		// A game discarded since IDs was taken is skipped
		_ = s.registry.View(id, func(t *game.Table) error {
			summary := GameSummary{GameID: id, Phase: t.Phase(), Round: t.Round(), Players: []string{}}
			for _, seat := range t.Seats() {
				if seat.Occupied() {
					summary.Players = append(summary.Players, seat.Name)
				}
			}
			games = append(games, summary)
			return nil
		})
	}
	return games
}

// Watch subscribes viewer to a game. The current snapshot is queued before
// any later change.
func (s *GameService) Watch(id, viewer string) (*Subscription, error) {
	var sub *Subscription
	err := s.registry.View(id, func(t *game.Table) error {
		sub = s.hub.Subscribe(id, viewer)
		sub.offer(t.State(viewer))
		return nil
	})
	return sub, err
}

// Sweep discards games idle for longer than idle
func (s *GameService) Sweep(idle time.Duration) []string {
	evicted := s.registry.Sweep(idle)
	for _, id := range evicted {
		s.hub.CloseGame(id)
		s.logger.Info("Game expired", "game", id, "idle", idle)
	}
	return evicted
}

// mutate runs fn under the table lock and publishes the new state on success
func (s *GameService) mutate(id, action string, fn func(*game.Table) error, keyvals ...any) error {
	logger := s.logger.With("game", id, "action", action)
	if len(keyvals) > 0 {
		logger = logger.With(keyvals...)
	}

	err := s.registry.Do(id, func(t *game.Table) error {
		if err := fn(t); err != nil {
			return err
		}
		s.hub.Publish(id, t.State)
		logger.Info("Applied", "phase", t.Phase(), "players", t.PlayerCount())
		return nil
	})
	if err != nil {
		logger.Debug("Rejected", "error", err)
	}
	return err
}
