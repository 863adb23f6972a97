package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/poker"
)

// Controller drives the watched table. *client.Client satisfies it.
type Controller interface {
	Deal(ctx context.Context, id string) (game.Phase, error)
	Reset(ctx context.Context, id string) error
}

// Config wires a watcher to its data
type Config struct {
	GameID string
	Viewer string

	// Updates carries snapshots; closing it ends the stream
	Updates <-chan game.Snapshot
	// StreamErr reports why Updates closed, may be nil
	StreamErr func() error
	// Controller enables the deal and reset keys, may be nil
	Controller Controller

	Logger *log.Logger
}

// StateMsg carries a new snapshot into the model
type StateMsg struct {
	Snapshot game.Snapshot
}

// StreamClosedMsg signals the end of the snapshot stream
type StreamClosedMsg struct {
	Err error
}

type actionResultMsg struct {
	status string
	err    error
}

// Model is the Bubble Tea model for watching one table
type Model struct {
	cfg    Config
	logger *log.Logger
	ctx    context.Context

	keys keyMap
	help help.Model

	// UI components
	logViewport viewport.Model

	// State
	snap     *game.Snapshot
	gameLog  []string
	status   string
	err      error
	closed   bool
	quitting bool

	// Dimensions
	width  int
	height int
}

// NewModel creates a watcher model
func NewModel(ctx context.Context, cfg Config) *Model {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	keys := defaultKeyMap()
	if cfg.Controller == nil {
		keys.Deal.SetEnabled(false)
		keys.Reset.SetEnabled(false)
	}

	vp := viewport.New(10, 5)
	vp.SetContent("")

	return &Model{
		cfg:         cfg,
		logger:      logger.WithPrefix("tui").With("game", cfg.GameID),
		ctx:         ctx,
		keys:        keys,
		help:        help.New(),
		logViewport: vp,
	}
}

// Run shows the watcher until the user quits or ctx ends
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewModel(ctx, cfg), opts...)
	final, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return err
	}
	if m, ok := final.(*Model); ok && m.err != nil && !errors.Is(m.err, game.ErrGameNotFound) {
		return m.err
	}
	return nil
}

// Init starts listening for snapshots
func (m *Model) Init() tea.Cmd {
	return m.waitForSnapshot()
}

func (m *Model) waitForSnapshot() tea.Cmd {
	updates, streamErr := m.cfg.Updates, m.cfg.StreamErr
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			var err error
			if streamErr != nil {
				err = streamErr()
			}
			return StreamClosedMsg{Err: err}
		}
		return StateMsg{Snapshot: snap}
	}
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case StateMsg:
		m.AddLogEntries(describe(m.snap, msg.Snapshot)...)
		snap := msg.Snapshot
		m.snap = &snap
		cmds = append(cmds, m.waitForSnapshot())

	case StreamClosedMsg:
		m.closed = true
		m.err = msg.Err
		switch {
		case errors.Is(msg.Err, game.ErrGameNotFound):
			m.AddLogEntries("Game discarded")
		case msg.Err != nil:
			m.AddLogEntries("Stream ended: " + msg.Err.Error())
		default:
			m.AddLogEntries("Stream closed")
		}
		m.keys.Deal.SetEnabled(false)
		m.keys.Reset.SetEnabled(false)

	case actionResultMsg:
		m.status = msg.status
		m.err = msg.err
		if msg.err != nil {
			m.logger.Debug("Action failed", "error", msg.err)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Deal):
			return m, m.deal()
		case key.Matches(msg, m.keys.Reset):
			return m, m.reset()
		case key.Matches(msg, m.keys.ShowHelp):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) deal() tea.Cmd {
	ctrl, ctx, id := m.cfg.Controller, m.ctx, m.cfg.GameID
	return func() tea.Msg {
		phase, err := ctrl.Deal(ctx, id)
		if err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{status: "Dealt " + phase.String()}
	}
}

func (m *Model) reset() tea.Cmd {
	ctrl, ctx, id := m.cfg.Controller, m.ctx, m.cfg.GameID
	return func() tea.Msg {
		if err := ctrl.Reset(ctx, id); err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{status: "Round reset"}
	}
}

// AddLogEntries appends entries to the game log and scrolls to the bottom
func (m *Model) AddLogEntries(entries ...string) {
	if len(entries) == 0 {
		return
	}
	m.gameLog = append(m.gameLog, entries...)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// GameLog returns a copy of the log lines
func (m *Model) GameLog() []string {
	return append([]string(nil), m.gameLog...)
}

// Snapshot returns the most recent snapshot, if any
func (m *Model) Snapshot() (game.Snapshot, bool) {
	if m.snap == nil {
		return game.Snapshot{}, false
	}
	return *m.snap, true
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.snap == nil && !m.closed {
		return "Connecting to " + m.cfg.GameID + "..."
	}

	header := m.renderHeader()
	table := PaneStyle.Render(m.renderTable())
	footer := m.renderFooter()

	width := m.width
	if width == 0 {
		width = lipgloss.Width(table)
	}
	logHeight := m.height - lipgloss.Height(header) - lipgloss.Height(table) - lipgloss.Height(footer) - 2
	if logHeight < 3 {
		logHeight = 3
	}
	logWidth := width - 4
	if logWidth < 10 {
		logWidth = 10
	}
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight
	logPane := PaneStyle.Width(logWidth).Height(logHeight).Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, table, logPane, footer)
}

func (m *Model) renderHeader() string {
	title := HeaderStyle.Render("Table " + m.cfg.GameID)
	if m.snap == nil {
		return title
	}
	info := fmt.Sprintf(" %s  round %d", PhaseStyle.Render(m.snap.Phase.String()), m.snap.Round)
	if m.cfg.Viewer != "" {
		info += "  " + InfoStyle.Render("as "+m.cfg.Viewer)
	} else {
		info += "  " + InfoStyle.Render("spectating")
	}
	return title + info
}

func (m *Model) renderTable() string {
	if m.snap == nil {
		return InfoStyle.Render("No table state")
	}
	snap := m.snap
	var b strings.Builder

	for _, seat := range snap.Seats {
		name := seatName(seat)
		line := fmt.Sprintf("Seat %d  ", seat.SeatIndex)
		switch {
		case name == "":
			b.WriteString(InfoStyle.Render(line + "(empty)"))
		case name == m.cfg.Viewer:
			b.WriteString(ViewerStyle.Render(line+fmt.Sprintf("%-12s", name)) + " " + m.renderHole(seat))
		default:
			b.WriteString(PlayerInfoStyle.Render(line+fmt.Sprintf("%-12s", name)) + " " + m.renderHole(seat))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HandInfoStyle.Render("Board: "))
	if len(snap.CommunityCards) == 0 {
		b.WriteString(InfoStyle.Render("-"))
	} else {
		b.WriteString(formatCards(snap.CommunityCards))
	}

	if seat, ok := snap.Viewer(m.cfg.Viewer); ok && seat.HoleCategory != "" {
		b.WriteString("\n")
		b.WriteString(HandInfoStyle.Render("Your hand: " + string(seat.HoleCategory)))
	}

	for _, w := range snap.Winners {
		b.WriteString("\n")
		b.WriteString(WinnerStyle.Render(fmt.Sprintf("Winner: %s (%s) ", w.Name, w.HandRank)))
		b.WriteString(formatCards(w.BestFiveCards))
	}
	return b.String()
}

// renderHole shows visible hole cards, or face-down cards for others once dealt
func (m *Model) renderHole(seat game.SeatView) string {
	if len(seat.Hand) > 0 {
		return formatCards(seat.Hand)
	}
	if m.snap.GameStarted {
		return HiddenCardStyle.Render("[?? ??]")
	}
	return ""
}

func (m *Model) renderFooter() string {
	var b strings.Builder
	switch {
	case m.err != nil && !m.closed:
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(InfoStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// formatCards formats cards with colors
func formatCards(cards []poker.Card) string {
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		if card.Suit.IsRed() {
			formatted = append(formatted, RedCardStyle.Render(card.Symbol()))
		} else {
			formatted = append(formatted, BlackCardStyle.Render(card.Symbol()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}
