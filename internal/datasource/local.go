package datasource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rohits-web03/accountabilabuddy/internal/apperr"
	"github.com/rohits-web03/accountabilabuddy/internal/localstore"
	"github.com/rohits-web03/accountabilabuddy/internal/models"
	"github.com/rohits-web03/accountabilabuddy/internal/utils"
)

// Local keeps todos in the local store under localstore.TodosKey. There is
// no server, so users and friends are echoed rather than checked.
type Local struct {
	store *localstore.Store
	now   func() time.Time

	mu sync.Mutex
}

func NewLocal(store *localstore.Store) *Local {
	return &Local{store: store, now: time.Now}
}

func (l *Local) load(ctx context.Context) ([]models.Todo, error) {
	todos := []models.Todo{}
	if _, err := l.store.GetJSON(ctx, localstore.TodosKey, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (l *Local) save(ctx context.Context, todos []models.Todo) error {
	return l.store.SetJSON(ctx, localstore.TodosKey, todos)
}

// ListTodos returns every stored todo, newest first. Local todos have no owner.
func (l *Local) ListTodos(ctx context.Context, _ string) ([]models.Todo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

func (l *Local) CreateTodo(ctx context.Context, in models.TodoInput) (*models.Todo, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", apperr.ErrValidation)
	}
	if in.State == "" {
		in.State = models.StateOpen
	}
	if in.Visibility == "" {
		in.Visibility = models.VisibilityPrivate
	}
	if !in.State.IsValid() || !in.Visibility.IsValid() {
		return nil, fmt.Errorf("%w: invalid state or visibility", apperr.ErrValidation)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	now := l.now().UTC()
	todo := models.Todo{
		ID:          utils.NewID(),
		Title:       in.Title,
		Description: in.Description,
		State:       in.State,
		Visibility:  in.Visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	all = append([]models.Todo{todo}, all...)
	if err := l.save(ctx, all); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (l *Local) UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(all, id)
	if i < 0 {
		return fmt.Errorf("%w: todo %s", apperr.ErrNotFound, id)
	}
	if patch.IsEmpty() {
		return nil
	}
	patch.Apply(&all[i])
	all[i].UpdatedAt = l.now().UTC()
	return l.save(ctx, all)
}

func (l *Local) DeleteTodo(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(all, id)
	if i < 0 {
		return fmt.Errorf("%w: todo %s", apperr.ErrNotFound, id)
	}
	all = append(all[:i], all[i+1:]...)
	return l.save(ctx, all)
}

func (l *Local) MoveTodo(ctx context.Context, id string, to models.TodoState) error {
	return l.UpdateTodo(ctx, id, models.TodoPatch{State: &to})
}

func (l *Local) CreateUser(_ context.Context, username, _ string) (*models.Session, error) {
	return echoSession(username)
}

func (l *Local) LoginUser(_ context.Context, username, _ string) (*models.Session, error) {
	return echoSession(username)
}

// AddFriend always succeeds; there is nobody else to befriend.
func (l *Local) AddFriend(context.Context, string, string) error {
	return nil
}

func (l *Local) ListFriendTodos(context.Context, string) ([]models.FriendTodo, error) {
	return []models.FriendTodo{}, nil
}

func echoSession(username string) (*models.Session, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", apperr.ErrValidation)
	}
	return &models.Session{ID: username, Username: username}, nil
}

func indexOf(todos []models.Todo, id string) int {
	for i := range todos {
		if todos[i].ID == id {
			return i
		}
	}
	return -1
}
