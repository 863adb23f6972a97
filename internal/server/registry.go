package server

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdemtable/internal/game"
)

// entry guards one table. Every table operation runs with mu held.
type entry struct {
	mu        sync.Mutex
	table     *game.Table
	lastUsed  time.Time
	discarded bool
}

// Registry owns the tables of one server, keyed by game ID. The registry lock
// only guards the map and is never held while a table operation runs, so
// distinct tables proceed concurrently.
type Registry struct {
	mu     sync.RWMutex
	games  map[string]*entry
	clock  quartz.Clock
	logger *log.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(clock quartz.Clock, logger *log.Logger) *Registry {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Registry{
		games:  make(map[string]*entry),
		clock:  clock,
		logger: logger.WithPrefix("registry"),
	}
}

// Create registers a table under its ID
func (r *Registry) Create(table *game.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := table.ID()
	if _, ok := r.games[id]; ok {
		return fmt.Errorf("%w: %s", game.ErrGameExists, id)
	}
	r.games[id] = &entry{table: table, lastUsed: r.clock.Now()}
	r.logger.Debug("Registered table", "game", id, "total", len(r.games))
	return nil
}

// Do runs fn with exclusive access to the table and marks it used.
func (r *Registry) Do(id string, fn func(*game.Table) error) error {
	return r.run(id, true, fn)
}

// View runs fn with exclusive access to the table without refreshing its
// idle timer.
func (r *Registry) View(id string, fn func(*game.Table) error) error {
	return r.run(id, false, fn)
}

func (r *Registry) run(id string, touch bool, fn func(*game.Table) error) error {
	r.mu.RLock()
	e, ok := r.games[id]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", game.ErrGameNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// Discarded while we waited for the lock
	if e.discarded {
		return fmt.Errorf("%w: %s", game.ErrGameNotFound, id)
	}
	if touch {
		e.lastUsed = r.clock.Now()
	}
	return fn(e.table)
}

// Discard removes a table
func (r *Registry) Discard(id string) error {
	r.mu.Lock()
	e, ok := r.games[id]
	delete(r.games, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", game.ErrGameNotFound, id)
	}

	e.mu.Lock()
	e.discarded = true
	e.mu.Unlock()
	return nil
}

// IDs returns all game IDs in sorted order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Len returns the number of registered tables
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Sweep discards tables unused for longer than idle and returns their IDs.
// Tables busy with an operation are skipped until the next sweep.
func (r *Registry) Sweep(idle time.Duration) []string {
	if idle <= 0 {
		return nil
	}
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []string
	for id, e := range r.games {
		if !e.mu.TryLock() {
			continue
		}
		if now.Sub(e.lastUsed) > idle {
			e.discarded = true
			delete(r.games, id)
			evicted = append(evicted, id)
		}
		e.mu.Unlock()
	}

	sort.Strings(evicted)
	if len(evicted) > 0 {
		r.logger.Info("Swept idle tables", "evicted", len(evicted), "remaining", len(r.games))
	}
	return evicted
}
