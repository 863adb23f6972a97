package game

import (
	"github.com/lox/holdemtable/internal/randutil"
)

// TestTableOption configures test table creation
type TestTableOption func(*testTableBuilder)

type testTableBuilder struct {
	id      string
	seed    int64
	players []string
	options []Option
}

// Test table options
func WithSeed(seed int64) TestTableOption {
	return func(b *testTableBuilder) { b.seed = seed }
}

func WithID(id string) TestTableOption {
	return func(b *testTableBuilder) { b.id = id }
}

func WithPlayers(names ...string) TestTableOption {
	return func(b *testTableBuilder) { b.players = names }
}

func WithTableOptions(opts ...Option) TestTableOption {
	return func(b *testTableBuilder) { b.options = append(b.options, opts...) }
}

// NewTestTable creates a seeded table with players seated from seat 0
func NewTestTable(opts ...TestTableOption) *Table {
	builder := &testTableBuilder{
		id:   "test",
		seed: 42,
	}

	for _, opt := range opts {
		opt(builder)
	}

	table := NewTable(builder.id, randutil.New(builder.seed), builder.options...)
	if err := table.SeatPlayers(builder.players...); err != nil {
		panic("test table: " + err.Error())
	}
	return table
}

// HeadsUpTable is a seeded two player table
func HeadsUpTable() *Table {
	return NewTestTable(WithPlayers("Alice", "Bob"))
}

// DealTo advances the table until it reaches phase.
func DealTo(t *Table, phase Phase) error {
	for t.Phase() < phase {
		if _, err := t.DealNext(); err != nil {
			return err
		}
	}
	return nil
}
