package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rohits-web03/accountabilabuddy/internal/board"
	"github.com/rohits-web03/accountabilabuddy/internal/models"
)

const (
	columnWidth = 30
	shortIDLen  = 8
)

var (
	columnStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(columnWidth)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	publicStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	stateColors = map[models.TodoState]lipgloss.Color{
		models.StateOpen:       lipgloss.Color("12"),
		models.StateInProgress: lipgloss.Color("11"),
		models.StateBlocked:    lipgloss.Color("9"),
		models.StateClosed:     lipgloss.Color("10"),
	}
)

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func ago(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// renderBoard lays the grouping out as side-by-side columns.
func renderBoard(g board.Grouping, now time.Time) string {
	cols := make([]string, 0, len(g))
	for _, c := range g {
		header := lipgloss.NewStyle().Bold(true).Foreground(stateColors[c.State]).
			Render(fmt.Sprintf("%s (%d)", c.State.Label(), len(c.Todos)))

		lines := []string{header}
		for _, t := range c.Todos {
			title := t.Title
			if t.Visibility == models.VisibilityPublic {
				title = publicStyle.Render("◆ ") + title
			}
			lines = append(lines,
				dimStyle.Render(shortID(t.ID))+" "+title,
				dimStyle.Render("  "+ago(t.UpdatedAt, now)))
		}
		cols = append(cols, columnStyle.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func renderFriends(todos []models.FriendTodo, now time.Time) string {
	if len(todos) == 0 {
		return "No public todos from friends yet."
	}
	var b strings.Builder
	for _, t := range todos {
		state := lipgloss.NewStyle().Foreground(stateColors[t.State]).Render(t.State.Label())
		fmt.Fprintf(&b, "%s  %s  %s  %s\n",
			publicStyle.Render("@"+t.Username), state, t.Title, dimStyle.Render(ago(t.UpdatedAt, now)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// resolveID finds the todo whose id is ref or starts with it.
func resolveID(todos []models.Todo, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("todo id is required")
	}

	var match string
	for _, t := range todos {
		if t.ID == ref {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("id %q matches more than one todo", ref)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no todo with id %q", ref)
	}
	return match, nil
}

// parseState accepts a state's value or its column label, case-insensitively.
func parseState(s string) (models.TodoState, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for _, st := range models.States {
		if norm == string(st) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown state %q (want one of open, in_progress, blocked, closed)", s)
}
