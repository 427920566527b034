// Package tui provides an interactive four-column board using Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rohits-web03/accountabilabuddy/internal/board"
	"github.com/rohits-web03/accountabilabuddy/internal/models"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1)

	activeColumnStyle = columnStyle.
				BorderForeground(lipgloss.Color("39"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	stateColors = map[models.TodoState]lipgloss.Color{
		models.StateOpen:       lipgloss.Color("252"),
		models.StateInProgress: lipgloss.Color("214"),
		models.StateBlocked:    lipgloss.Color("196"),
		models.StateClosed:     lipgloss.Color("42"),
	}

	publicStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("147"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const defaultColumnWidth = 24

type mode int

const (
	modeNormal mode = iota
	modeCreate
)

// Model is the Bubble Tea model for the board.
type Model struct {
	ctx   context.Context
	board *board.Board
	keys  keyMap

	columns board.Grouping
	friends []models.FriendTodo
	col     int
	row     int

	mode  mode
	input textinput.Model

	width   int
	err     error
	message string
}

func New(ctx context.Context, b *board.Board) Model {
	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.CharLimit = 200
	input.Width = 40

	return Model{
		ctx:     ctx,
		board:   b,
		keys:    defaultKeyMap(),
		columns: board.Group(nil),
		input:   input,
	}
}

// Messages
type loadedMsg struct {
	columns board.Grouping
	friends []models.FriendTodo
	err     error
}

type actionMsg struct {
	message string
	err     error
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		g, err := m.board.Grouped(m.ctx)
		return loadedMsg{columns: g, friends: m.board.FriendTodos(), err: err}
	}
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		m.board.Invalidate()
		m.board.RefreshFriends(m.ctx)
		g, err := m.board.Grouped(m.ctx)
		return loadedMsg{columns: g, friends: m.board.FriendTodos(), err: err}
	}
}

func (m Model) act(message string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{message: message, err: fn(m.ctx)}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.columns = msg.columns
		m.friends = msg.friends
		m.clampCursor()
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.message = msg.message
		return m, m.load()

	case tea.KeyMsg:
		if m.mode == modeCreate {
			return m.updateCreate(msg)
		}
		m.message = ""
		m.err = nil
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeNormal
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		title := m.input.Value()
		m.mode = modeNormal
		m.input.Blur()
		m.input.Reset()
		return m, m.act("Created", func(ctx context.Context) error {
			_, err := m.board.Create(ctx, models.TodoInput{Title: title})
			return err
		})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		if m.row < len(m.currentColumn())-1 {
			m.row++
		}
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Right):
		if m.col < len(m.columns)-1 {
			m.col++
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.MoveLeft):
		return m, m.moveSelected(-1)
	case key.Matches(msg, m.keys.MoveRight):
		return m, m.moveSelected(1)
	case key.Matches(msg, m.keys.New):
		m.mode = modeCreate
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.act("Deleted", func(ctx context.Context) error {
			return m.board.Delete(ctx, todo.ID)
		})
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	}
	return m, nil
}

// moveSelected shifts the selected todo one state along models.States.
func (m Model) moveSelected(delta int) tea.Cmd {
	todo, ok := m.selected()
	if !ok {
		return nil
	}
	target := m.col + delta
	if target < 0 || target >= len(models.States) {
		return nil
	}
	to := models.States[target]
	return m.act("Moved to "+to.Label(), func(ctx context.Context) error {
		return m.board.Move(ctx, todo.ID, to)
	})
}

func (m Model) currentColumn() []models.Todo {
	if m.col < 0 || m.col >= len(m.columns) {
		return nil
	}
	return m.columns[m.col].Todos
}

func (m Model) selected() (models.Todo, bool) {
	col := m.currentColumn()
	if m.row < 0 || m.row >= len(col) {
		return models.Todo{}, false
	}
	return col[m.row], true
}

func (m *Model) clampCursor() {
	n := len(m.currentColumn())
	if m.row >= n {
		m.row = max(0, n-1)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	who := "guest"
	if s, ok := m.board.Session(); ok {
		who = s.Username
	}
	b.WriteString(titleStyle.Render("accountabilabuddy") + helpStyle.Render(" · "+who))
	b.WriteString("\n\n")

	width := defaultColumnWidth
	if m.width > 0 {
		width = max(16, m.width/len(models.States)-4)
	}

	cols := make([]string, 0, len(m.columns))
	for i, c := range m.columns {
		cols = append(cols, m.renderColumn(i, c, width))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n")

	if len(m.friends) > 0 {
		b.WriteString(titleStyle.Render("Friends"))
		b.WriteString("\n")
		for _, f := range m.friends {
			b.WriteString(fmt.Sprintf("  %s  %s %s\n",
				publicStyle.Render("@"+f.Username),
				lipgloss.NewStyle().Foreground(stateColors[f.State]).Render(f.State.Label()),
				f.Title))
		}
	}

	if m.mode == modeCreate {
		b.WriteString("\nNew todo: " + m.input.View() + "\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	} else if m.message != "" {
		b.WriteString(messageStyle.Render(m.message) + "\n")
	}

	help := make([]string, 0, len(m.keys.help()))
	for _, k := range m.keys.help() {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(helpStyle.Render(strings.Join(help, " · ")))
	return b.String()
}

func (m Model) renderColumn(i int, c board.Column, width int) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(stateColors[c.State]).
		Render(fmt.Sprintf("%s (%d)", c.State.Label(), len(c.Todos)))

	lines := []string{header}
	for j, t := range c.Todos {
		line := truncate(t.Title, width-2)
		if t.Visibility == models.VisibilityPublic {
			line = publicStyle.Render("◆ ") + line
		} else {
			line = "  " + line
		}
		if i == m.col && j == m.row {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	style := columnStyle
	if i == m.col {
		style = activeColumnStyle
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Run starts the board in the alternate screen.
func Run(ctx context.Context, b *board.Board) error {
	_, err := tea.NewProgram(New(ctx, b), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
