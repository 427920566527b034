package models

import (
	"fmt"
	"time"

	"github.com/rohits-web03/accountabilabuddy/internal/apperr"
)

type TodoState string

const (
	StateOpen       TodoState = "open"
	StateInProgress TodoState = "in_progress"
	StateBlocked    TodoState = "blocked"
	StateClosed     TodoState = "closed"
)

// States lists every todo state in board column order.
var States = []TodoState{StateOpen, StateInProgress, StateBlocked, StateClosed}

var stateLabels = map[TodoState]string{
	StateOpen:       "Open",
	StateInProgress: "In Progress",
	StateBlocked:    "Blocked",
	StateClosed:     "Closed",
}

func (s TodoState) IsValid() bool {
	_, ok := stateLabels[s]
	return ok
}

// Label returns the human-facing column title for the state.
func (s TodoState) Label() string {
	if l, ok := stateLabels[s]; ok {
		return l
	}
	return string(s)
}

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

func (v Visibility) IsValid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

type Todo struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	UserID      string     `json:"user_id,omitempty" gorm:"size:36;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	State       TodoState  `json:"state" gorm:"type:varchar(16);not null;default:open"`
	Visibility  Visibility `json:"visibility" gorm:"type:varchar(16);not null;default:private;index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Owner *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// TodoInput is what a caller supplies when creating a todo.
type TodoInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	State       TodoState  `json:"state,omitempty"`
	Visibility  Visibility `json:"visibility"`
}

// TodoPatch carries the mutable todo fields; nil means "leave unchanged".
// Identity, ownership and timestamps cannot be patched.
type TodoPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	State       *TodoState  `json:"state,omitempty"`
	Visibility  *Visibility `json:"visibility,omitempty"`
}

func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.State == nil && p.Visibility == nil
}

// Validate checks the enum-typed fields present in the patch.
func (p TodoPatch) Validate() error {
	if p.State != nil && !p.State.IsValid() {
		return fmt.Errorf("%w: invalid state %q", apperr.ErrValidation, *p.State)
	}
	if p.Visibility != nil && !p.Visibility.IsValid() {
		return fmt.Errorf("%w: invalid visibility %q", apperr.ErrValidation, *p.Visibility)
	}
	return nil
}

// Apply copies the present fields onto t. Timestamps are left to the caller.
func (p TodoPatch) Apply(t *Todo) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.State != nil {
		t.State = *p.State
	}
	if p.Visibility != nil {
		t.Visibility = *p.Visibility
	}
}

// Columns maps the present fields to their column names.
func (p TodoPatch) Columns() map[string]any {
	cols := make(map[string]any, 4)
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.State != nil {
		cols["state"] = string(*p.State)
	}
	if p.Visibility != nil {
		cols["visibility"] = string(*p.Visibility)
	}
	return cols
}

// FriendTodo is a friend's public todo annotated with the owner's username.
type FriendTodo struct {
	Todo
	Username string `json:"username"`
}
