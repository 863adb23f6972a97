package tui

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	DisableColor()
}

type fakeController struct {
	deals  int
	resets int
	err    error
}

func (f *fakeController) Deal(context.Context, string) (game.Phase, error) {
	f.deals++
	return game.Flop, f.err
}

func (f *fakeController) Reset(context.Context, string) error {
	f.resets++
	return f.err
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// snapshots plays a heads-up round with stacked cards and returns a snapshot
// per phase as Alice sees it.
func snapshots(t *testing.T) []game.Snapshot {
	t.Helper()
	table := game.NewTestTable(
		game.WithID("g"),
		game.WithPlayers("Alice", "Bob"),
		game.WithTableOptions(game.WithStackedDeck(poker.MustParseCards("AS", "AC", "KH", "KD", "KS", "KC", "2D", "3D", "4D")...)),
	)
	snaps := []game.Snapshot{table.State("Alice")}
	for table.Phase() != game.Showdown {
		_, err := table.DealNext()
		require.NoError(t, err)
		snaps = append(snaps, table.State("Alice"))
	}
	return snaps
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newWatcher(ctrl Controller) *Model {
	updates := make(chan game.Snapshot)
	return NewModel(context.Background(), Config{
		GameID:     "g",
		Viewer:     "Alice",
		Updates:    updates,
		Controller: ctrl,
		Logger:     quietLogger(),
	})
}

func TestModelRendersSnapshots(t *testing.T) {
	m := newWatcher(nil)
	assert.Contains(t, m.View(), "Connecting to g")

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	for _, snap := range snapshots(t) {
		_, cmd := m.Update(StateMsg{Snapshot: snap})
		assert.NotNil(t, cmd, "the model keeps listening after each snapshot")
	}

	view := m.View()
	assert.Contains(t, view, "Table g")
	assert.Contains(t, view, "SHOWDOWN")
	assert.Contains(t, view, "A♠ A♣", "own hole cards are visible")
	assert.Contains(t, view, "[?? ??]", "opponent cards stay hidden")
	assert.Contains(t, view, "Winner: Bob (Four of a Kind)")
	assert.Contains(t, view, "Your hand: Premium")
	assert.Contains(t, view, "(empty)")

	lines := m.GameLog()
	require.Len(t, lines, 8)
	assert.Equal(t, []string{
		"Watching g (WAITING, round 0)",
		"*** ROUND 1 ***",
		"Dealt to you: AS AC",
		"*** FLOP *** KS KC 2D",
		"*** TURN *** 3D",
		"*** RIVER *** 4D",
		"*** SHOWDOWN ***",
	}, lines[:7])
	assert.Contains(t, lines[7], "Bob wins with Four of a Kind: ")

	snap, ok := m.Snapshot()
	require.True(t, ok)
	assert.Equal(t, game.Showdown, snap.Phase)
}

func TestDescribeSeatChanges(t *testing.T) {
	table := game.NewTestTable(game.WithID("g"))
	before := table.State("")
	require.NoError(t, table.Join(2, "Carol"))
	joined := table.State("")
	require.NoError(t, table.Leave("Carol"))
	left := table.State("")

	assert.Equal(t, []string{"Carol joined seat 2"}, describe(&before, joined))
	assert.Equal(t, []string{"Carol left seat 2"}, describe(&joined, left))
	assert.Empty(t, describe(&left, left))
}

func TestModelKeysDriveController(t *testing.T) {
	ctrl := &fakeController{}
	m := newWatcher(ctrl)

	_, cmd := m.Update(keyMsg("d"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, 1, ctrl.deals)
	assert.Contains(t, m.renderFooter(), "Dealt FLOP")

	_, cmd = m.Update(keyMsg("r"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, 1, ctrl.resets)
	assert.Contains(t, m.renderFooter(), "Round reset")

	ctrl.err = game.ErrRoundComplete
	_, cmd = m.Update(keyMsg("d"))
	m.Update(cmd())
	assert.Contains(t, m.renderFooter(), "Error: "+game.ErrRoundComplete.Error())
}

func TestModelWithoutControllerIgnoresActions(t *testing.T) {
	m := newWatcher(nil)
	assert.False(t, m.keys.Deal.Enabled())
	assert.False(t, m.keys.Reset.Enabled())
	assert.NotContains(t, m.help.View(m.keys), "deal")
}

func TestModelQuit(t *testing.T) {
	m := newWatcher(nil)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}

func TestModelStreamClosed(t *testing.T) {
	ctrl := &fakeController{}
	m := newWatcher(ctrl)

	m.Update(StreamClosedMsg{Err: game.ErrGameNotFound})
	assert.Equal(t, "Game discarded", m.GameLog()[len(m.GameLog())-1])
	assert.False(t, m.keys.Deal.Enabled(), "a closed stream disables actions")

	m2 := newWatcher(nil)
	m2.Update(StreamClosedMsg{})
	assert.Equal(t, []string{"Stream closed"}, m2.GameLog())
}

func TestWaitForSnapshot(t *testing.T) {
	updates := make(chan game.Snapshot, 1)
	m := NewModel(context.Background(), Config{
		GameID:    "g",
		Updates:   updates,
		StreamErr: func() error { return game.ErrGameNotFound },
	})

	updates <- game.Snapshot{GameID: "g"}
	msg := m.Init()()
	assert.Equal(t, StateMsg{Snapshot: game.Snapshot{GameID: "g"}}, msg)

	close(updates)
	msg = m.waitForSnapshot()()
	assert.Equal(t, StreamClosedMsg{Err: game.ErrGameNotFound}, msg)
}
