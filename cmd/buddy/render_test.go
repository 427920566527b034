package main

import (
	"strings"
	"testing"
	"time"

	"github.com/rohits-web03/accountabilabuddy/internal/board"
	"github.com/rohits-web03/accountabilabuddy/internal/models"
)

func TestRenderBoard(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	todos := []models.Todo{
		{ID: "aaaaaaaa-1111", Title: "Write tests", State: models.StateOpen, Visibility: models.VisibilityPrivate, UpdatedAt: now.Add(-3 * time.Minute)},
		{ID: "bbbbbbbb-2222", Title: "Ship it", State: models.StateClosed, Visibility: models.VisibilityPublic, UpdatedAt: now.Add(-2 * time.Hour)},
	}

	out := renderBoard(board.Group(todos), now)

	for _, want := range []string{
		"Open (1)", "In Progress (0)", "Blocked (0)", "Closed (1)",
		"aaaaaaaa", "Write tests", "3 minutes ago",
		"bbbbbbbb", "◆", "Ship it", "2 hours ago",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("board output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "-1111") {
		t.Errorf("expected ids to be shortened:\n%s", out)
	}
}

func TestRenderFriends(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if got := renderFriends(nil, now); got != "No public todos from friends yet." {
		t.Errorf("empty friends output = %q", got)
	}

	out := renderFriends([]models.FriendTodo{{
		Todo:     models.Todo{ID: "x", Title: "Run 5k", State: models.StateInProgress, UpdatedAt: now.Add(-time.Hour)},
		Username: "bob",
	}}, now)
	for _, want := range []string{"@bob", "In Progress", "Run 5k", "1 hour ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("friends output missing %q: %s", want, out)
		}
	}
}

func TestResolveID(t *testing.T) {
	todos := []models.Todo{
		{ID: "abc123"},
		{ID: "abd456"},
		{ID: "ab"},
	}

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr string
	}{
		{name: "exact", ref: "abc123", want: "abc123"},
		{name: "unique prefix", ref: "abc", want: "abc123"},
		{name: "exact beats prefix", ref: "ab", want: "ab"},
		{name: "ambiguous", ref: "a", wantErr: "more than one"},
		{name: "missing", ref: "zzz", wantErr: "no todo"},
		{name: "empty", ref: " ", wantErr: "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveID(todos, tt.ref)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseState(t *testing.T) {
	tests := []struct {
		in      string
		want    models.TodoState
		wantErr bool
	}{
		{in: "open", want: models.StateOpen},
		{in: "in_progress", want: models.StateInProgress},
		{in: "In Progress", want: models.StateInProgress},
		{in: "in-progress", want: models.StateInProgress},
		{in: "BLOCKED", want: models.StateBlocked},
		{in: " closed ", want: models.StateClosed},
		{in: "done", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseState(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseState(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseState(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "hunter2\n", want: "hunter2"},
		{in: "hunter2\r\nignored\n", want: "hunter2"},
		{in: "no-newline", want: "no-newline"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		got, err := readLine(strings.NewReader(tt.in))
		if err != nil {
			t.Fatalf("readLine(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("readLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
