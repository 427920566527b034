// Package datasource gives the client one capability set over either the
// HTTP API (Remote) or a file on disk (Local). Exactly one is chosen at
// startup and injected into the board.
package datasource

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rohits-web03/accountabilabuddy/internal/localstore"
	"github.com/rohits-web03/accountabilabuddy/internal/models"
)

type DataSource interface {
	ListTodos(ctx context.Context, userID string) ([]models.Todo, error)
	// CreateTodo creates a todo for ownerID. Local sources ignore the owner.
	CreateTodo(ctx context.Context, ownerID string, in models.TodoInput) (*models.Todo, error)
	UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) error
	DeleteTodo(ctx context.Context, id string) error
	MoveTodo(ctx context.Context, id string, to models.TodoState) error
	CreateUser(ctx context.Context, username, password string) (*models.Session, error)
	LoginUser(ctx context.Context, username, password string) (*models.Session, error)
	AddFriend(ctx context.Context, userID, friendUsername string) error
	ListFriendTodos(ctx context.Context, userID string) ([]models.FriendTodo, error)
}

type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

type Config struct {
	Mode Mode
	// APIURL is the server base URL, used in remote mode.
	APIURL     string
	HTTPClient *http.Client
	// Store backs local mode.
	Store *localstore.Store
}

// Open builds the data source for cfg.Mode.
func Open(cfg Config) (DataSource, error) {
	switch cfg.Mode {
	case ModeRemote, "":
		if cfg.APIURL == "" {
			return nil, fmt.Errorf("remote mode requires an API URL")
		}
		return FromRemote(NewRemote(cfg.APIURL, cfg.HTTPClient)), nil
	case ModeLocal:
		if cfg.Store == nil {
			return nil, fmt.Errorf("local mode requires a store")
		}
		return FromLocal(NewLocal(cfg.Store)), nil
	default:
		return nil, fmt.Errorf("unknown data source mode %q", cfg.Mode)
	}
}

type remoteSource struct{ *Remote }

// FromRemote exposes r as a DataSource.
func FromRemote(r *Remote) DataSource {
	return remoteSource{r}
}

type localSource struct{ *Local }

// FromLocal exposes l as a DataSource; the owner passed to CreateTodo is dropped.
func FromLocal(l *Local) DataSource {
	return localSource{l}
}

func (s localSource) CreateTodo(ctx context.Context, _ string, in models.TodoInput) (*models.Todo, error) {
	return s.Local.CreateTodo(ctx, in)
}
