package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rohits-web03/accountabilabuddy/internal/apperr"
	"github.com/rohits-web03/accountabilabuddy/internal/models"
)

// Error is a non-2xx API response. It unwraps to the apperr kind that
// matches its status, so errors.Is(err, apperr.ErrNotFound) works.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return apperr.FromStatus(e.Status)
}

// Remote talks to the HTTP API. Every call is one request; failures are
// returned once and never retried.
type Remote struct {
	baseURL string
	client  *http.Client
}

// NewRemote uses http.DefaultClient when client is nil.
func NewRemote(baseURL string, client *http.Client) *Remote {
	if client == nil {
		client = http.DefaultClient
	}
	return &Remote{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (r *Remote) ListTodos(ctx context.Context, userID string) ([]models.Todo, error) {
	var todos []models.Todo
	if err := r.do(ctx, http.MethodGet, "/api/todos/"+url.PathEscape(userID), nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *Remote) CreateTodo(ctx context.Context, ownerID string, in models.TodoInput) (*models.Todo, error) {
	if in.State == "" {
		in.State = models.StateOpen
	}
	body := struct {
		UserID string `json:"user_id"`
		models.TodoInput
	}{ownerID, in}

	var todo models.Todo
	if err := r.do(ctx, http.MethodPost, "/api/todos", body, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *Remote) UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) error {
	return r.do(ctx, http.MethodPatch, "/api/todos/"+url.PathEscape(id), patch, nil)
}

func (r *Remote) DeleteTodo(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/api/todos/"+url.PathEscape(id), nil, nil)
}

func (r *Remote) MoveTodo(ctx context.Context, id string, to models.TodoState) error {
	return r.UpdateTodo(ctx, id, models.TodoPatch{State: &to})
}

func (r *Remote) CreateUser(ctx context.Context, username, password string) (*models.Session, error) {
	var s models.Session
	body := map[string]string{"username": username, "password": password}
	if err := r.do(ctx, http.MethodPost, "/api/users", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Remote) LoginUser(ctx context.Context, username, password string) (*models.Session, error) {
	var s models.Session
	body := map[string]string{"username": username, "password": password}
	if err := r.do(ctx, http.MethodPost, "/api/login", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Remote) AddFriend(ctx context.Context, userID, friendUsername string) error {
	body := map[string]string{"user_id": userID, "friend_username": friendUsername}
	return r.do(ctx, http.MethodPost, "/api/friends", body, nil)
}

func (r *Remote) ListFriendTodos(ctx context.Context, userID string) ([]models.FriendTodo, error) {
	var todos []models.FriendTodo
	path := "/api/friends/" + url.PathEscape(userID) + "/todos"
	if err := r.do(ctx, http.MethodGet, path, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *Remote) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := http.StatusText(resp.StatusCode)
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}
