// Package board holds the client's view of one user's todos.
//
// A Board is either a guest board, whose todos live only in the local store,
// or an authenticated board, whose todos are read through the data source and
// cached briefly. The two collections are kept apart: logging in never
// uploads guest todos and logging out never exposes server todos.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rohits-web03/accountabilabuddy/internal/apperr"
	"github.com/rohits-web03/accountabilabuddy/internal/datasource"
	"github.com/rohits-web03/accountabilabuddy/internal/importer"
	"github.com/rohits-web03/accountabilabuddy/internal/localstore"
	"github.com/rohits-web03/accountabilabuddy/internal/models"
	"github.com/rohits-web03/accountabilabuddy/internal/utils"
	"golang.org/x/sync/singleflight"
)

// DefaultStaleTime is how long an authenticated todo list is served from cache.
const DefaultStaleTime = 60 * time.Second

const importedTitle = "Imported"

type Option func(*Board)

func WithStaleTime(d time.Duration) Option {
	return func(b *Board) { b.staleTime = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Board) { b.log = l }
}

type cacheEntry struct {
	todos     []models.Todo
	fetchedAt time.Time
}

type Board struct {
	source    datasource.DataSource
	store     *localstore.Store
	staleTime time.Duration
	now       func() time.Time
	log       *slog.Logger

	group singleflight.Group

	mu       sync.Mutex
	session  *models.Session
	guest    []models.Todo
	guestSeq uint64 // bumped per guest mutation so saves land in order
	cache    map[string]cacheEntry
	epoch    uint64 // bumped per invalidation; older fetches are not cached
	friends  []models.FriendTodo

	saveMu   sync.Mutex
	savedSeq uint64
}

// New restores the saved session and guest todos from store. When a session
// is present the friends' todos are fetched as well.
func New(ctx context.Context, source datasource.DataSource, store *localstore.Store, opts ...Option) (*Board, error) {
	b := &Board{
		source:    source,
		store:     store,
		staleTime: DefaultStaleTime,
		now:       time.Now,
		log:       slog.Default(),
		cache:     make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(b)
	}

	var session models.Session
	ok, err := store.GetJSON(ctx, localstore.SessionKey, &session)
	if err != nil {
		return nil, err
	}
	if ok && session.ID != "" {
		b.session = &session
	}

	guest := []models.Todo{}
	if _, err := store.GetJSON(ctx, localstore.GuestTodosKey, &guest); err != nil {
		return nil, err
	}
	b.guest = guest

	b.RefreshFriends(ctx)
	return b, nil
}

// Session returns the logged-in identity, if any.
func (b *Board) Session() (models.Session, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return models.Session{}, false
	}
	return *b.session, true
}

func (b *Board) currentSession() *models.Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return nil
	}
	s := *b.session
	return &s
}

// Signup creates the account and logs straight in.
func (b *Board) Signup(ctx context.Context, username, password string) (*models.Session, error) {
	if _, err := b.source.CreateUser(ctx, username, password); err != nil {
		return nil, err
	}
	return b.Login(ctx, username, password)
}

func (b *Board) Login(ctx context.Context, username, password string) (*models.Session, error) {
	s, err := b.source.LoginUser(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if err := b.store.SetJSON(ctx, localstore.SessionKey, s); err != nil {
		return nil, err
	}

	b.mu.Lock()
	session := *s
	b.session = &session
	b.friends = nil
	b.invalidateLocked()
	b.mu.Unlock()

	b.log.Debug("logged in", "user_id", s.ID, "username", s.Username)
	b.RefreshFriends(ctx)
	return s, nil
}

func (b *Board) Logout(ctx context.Context) error {
	b.mu.Lock()
	b.session = nil
	b.friends = nil
	b.cache = make(map[string]cacheEntry)
	b.invalidateLocked()
	b.mu.Unlock()

	return b.store.Delete(ctx, localstore.SessionKey)
}

// Todos returns the current collection: the guest todos, or the
// authenticated user's todos from cache or a fresh fetch.
func (b *Board) Todos(ctx context.Context) ([]models.Todo, error) {
	b.mu.Lock()
	if b.session == nil {
		out := slices.Clone(b.guest)
		b.mu.Unlock()
		return out, nil
	}
	userID := b.session.ID
	if e, ok := b.cache[userID]; ok && b.now().Sub(e.fetchedAt) < b.staleTime {
		out := slices.Clone(e.todos)
		b.mu.Unlock()
		return out, nil
	}
	b.mu.Unlock()

	return b.fetch(ctx, userID)
}

// fetch shares one ListTodos call among concurrent callers. The shared call
// is detached from any single caller's cancellation; each caller still stops
// waiting when its own ctx is done.
func (b *Board) fetch(ctx context.Context, userID string) ([]models.Todo, error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := b.group.DoChan(userID, func() (any, error) {
		b.mu.Lock()
		epoch := b.epoch
		b.mu.Unlock()

		todos, err := b.source.ListTodos(flightCtx, userID)
		if err != nil {
			return nil, err
		}
		if todos == nil {
			todos = []models.Todo{}
		}

		b.mu.Lock()
		if b.epoch == epoch {
			b.cache[userID] = cacheEntry{todos: todos, fetchedAt: b.now()}
		}
		b.mu.Unlock()
		return todos, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]models.Todo)), nil
	}
}

// Invalidate drops any cached authenticated list so the next read refetches.
func (b *Board) Invalidate() {
	b.mu.Lock()
	b.invalidateLocked()
	b.mu.Unlock()
}

func (b *Board) invalidateLocked() {
	b.epoch++
	clear(b.cache)
	if b.session != nil {
		b.group.Forget(b.session.ID)
	}
}

// Grouped returns the current collection bucketed by state.
func (b *Board) Grouped(ctx context.Context) (Grouping, error) {
	todos, err := b.Todos(ctx)
	if err != nil {
		return nil, err
	}
	return Group(todos), nil
}

// Create adds a new open todo. Title and description are trimmed and the
// title must not be empty; visibility defaults to private.
func (b *Board) Create(ctx context.Context, in models.TodoInput) (*models.Todo, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.State = models.StateOpen
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", apperr.ErrValidation)
	}
	if in.Visibility == "" {
		in.Visibility = models.VisibilityPrivate
	}
	if !in.Visibility.IsValid() {
		return nil, fmt.Errorf("%w: invalid visibility %q", apperr.ErrValidation, in.Visibility)
	}

	if s := b.currentSession(); s != nil {
		todo, err := b.source.CreateTodo(ctx, s.ID, in)
		if err != nil {
			return nil, err
		}
		b.Invalidate()
		return todo, nil
	}

	now := b.now().UTC()
	todo := models.Todo{
		ID:          utils.NewID(),
		Title:       in.Title,
		Description: in.Description,
		State:       in.State,
		Visibility:  in.Visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.mu.Lock()
	b.guest = append([]models.Todo{todo}, b.guest...)
	snapshot, seq := b.guestSnapshotLocked()
	b.mu.Unlock()

	if err := b.saveGuest(ctx, snapshot, seq); err != nil {
		return nil, err
	}
	return &todo, nil
}

// Update changes the fields present in patch.
func (b *Board) Update(ctx context.Context, id string, patch models.TodoPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	if s := b.currentSession(); s != nil {
		if err := b.source.UpdateTodo(ctx, id, patch); err != nil {
			return err
		}
		b.Invalidate()
		return nil
	}

	b.mu.Lock()
	i := slices.IndexFunc(b.guest, func(t models.Todo) bool { return t.ID == id })
	if i < 0 {
		b.mu.Unlock()
		return fmt.Errorf("%w: todo %s", apperr.ErrNotFound, id)
	}
	if patch.IsEmpty() {
		b.mu.Unlock()
		return nil
	}
	patch.Apply(&b.guest[i])
	b.guest[i].UpdatedAt = b.now().UTC()
	snapshot, seq := b.guestSnapshotLocked()
	b.mu.Unlock()

	return b.saveGuest(ctx, snapshot, seq)
}

func (b *Board) Move(ctx context.Context, id string, to models.TodoState) error {
	return b.Update(ctx, id, models.TodoPatch{State: &to})
}

// Delete removes the todo. Deleting an unknown guest todo is a no-op.
func (b *Board) Delete(ctx context.Context, id string) error {
	if s := b.currentSession(); s != nil {
		if err := b.source.DeleteTodo(ctx, id); err != nil {
			return err
		}
		b.Invalidate()
		return nil
	}

	b.mu.Lock()
	b.guest = slices.DeleteFunc(b.guest, func(t models.Todo) bool { return t.ID == id })
	snapshot, seq := b.guestSnapshotLocked()
	b.mu.Unlock()

	return b.saveGuest(ctx, snapshot, seq)
}

func (b *Board) guestSnapshotLocked() ([]models.Todo, uint64) {
	b.guestSeq++
	return slices.Clone(b.guest), b.guestSeq
}

// saveGuest writes the whole guest collection, skipping snapshots older than
// one already written.
func (b *Board) saveGuest(ctx context.Context, snapshot []models.Todo, seq uint64) error {
	b.saveMu.Lock()
	defer b.saveMu.Unlock()
	if seq <= b.savedSeq {
		return nil
	}
	if err := b.store.SetJSON(ctx, localstore.GuestTodosKey, snapshot); err != nil {
		return err
	}
	b.savedSeq = seq
	return nil
}

// FriendTodos returns the last fetched public todos of the user's friends.
func (b *Board) FriendTodos() []models.FriendTodo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.friends)
}

// RefreshFriends refetches the friends' todos. Failures leave an empty list.
func (b *Board) RefreshFriends(ctx context.Context) {
	s := b.currentSession()
	if s == nil {
		b.mu.Lock()
		b.friends = nil
		b.mu.Unlock()
		return
	}

	todos, err := b.source.ListFriendTodos(ctx, s.ID)
	if err != nil {
		b.log.Warn("failed to fetch friends' todos", "user_id", s.ID, "error", err)
		todos = []models.FriendTodo{}
	}

	b.mu.Lock()
	if b.session != nil && b.session.ID == s.ID {
		b.friends = todos
	}
	b.mu.Unlock()
}

// AddFriend follows friendUsername and refreshes the friends' todos.
func (b *Board) AddFriend(ctx context.Context, friendUsername string) error {
	s := b.currentSession()
	if s == nil {
		return fmt.Errorf("%w: log in to add friends", apperr.ErrValidation)
	}
	friendUsername = strings.TrimSpace(friendUsername)
	if friendUsername == "" {
		return fmt.Errorf("%w: friend username is required", apperr.ErrValidation)
	}

	if err := b.source.AddFriend(ctx, s.ID, friendUsername); err != nil {
		return err
	}
	b.RefreshFriends(ctx)
	return nil
}

// Import creates a private todo for each item, titling untitled ones
// "Imported". It stops at the first failure and reports how many were made.
func (b *Board) Import(ctx context.Context, items []importer.Item) (int, error) {
	created := 0
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = importedTitle
		}
		_, err := b.Create(ctx, models.TodoInput{
			Title:       title,
			Description: item.Description,
			Visibility:  models.VisibilityPrivate,
		})
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
