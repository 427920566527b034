package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rohits-web03/accountabilabuddy/internal/api/handlers"
	"github.com/rohits-web03/accountabilabuddy/internal/config"
	"github.com/rohits-web03/accountabilabuddy/internal/models"
	"github.com/rohits-web03/accountabilabuddy/internal/repositories"
	"gorm.io/driver/sqlite"
)

type testClient struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func setupTestServer(t *testing.T) *testClient {
	t.Helper()
	db, err := repositories.Open(sqlite.Open(repositories.SQLiteDSN(filepath.Join(t.TempDir(), "api.db"))))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	cfg := config.Config{
		JWTSecret:   "test-secret",
		Environment: "test",
		FrontendURL: "http://localhost:5173",
		CorsConfig:  config.CorsConfig([]string{"http://localhost:5173"}),
	}
	srv := httptest.NewServer(SetupRouter(handlers.NewHandler(repositories.NewStore(db), cfg), cfg))
	t.Cleanup(func() {
		srv.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	jar, _ := cookiejar.New(nil)
	return &testClient{t: t, server: srv, client: &http.Client{Jar: jar}}
}

// do sends body as JSON (unless it is a string, sent raw) and decodes the
// response into out when out is non-nil.
func (c *testClient) do(method, path string, body any, out any) int {
	c.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			c.t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.server.URL+path, r)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (c *testClient) signup(username, password string) models.Session {
	c.t.Helper()
	var s models.Session
	if code := c.do(http.MethodPost, "/api/users", map[string]string{"username": username, "password": password}, &s); code != http.StatusOK {
		c.t.Fatalf("signup %s: status %d", username, code)
	}
	return s
}

func (c *testClient) createTodo(owner, title string, vis models.Visibility) models.Todo {
	c.t.Helper()
	var todo models.Todo
	code := c.do(http.MethodPost, "/api/todos", map[string]string{
		"user_id":    owner,
		"title":      title,
		"state":      "open",
		"visibility": string(vis),
	}, &todo)
	if code != http.StatusOK {
		c.t.Fatalf("create todo: status %d", code)
	}
	return todo
}

type errorBody struct {
	Error string `json:"error"`
}

func TestHealthAndDBInfo(t *testing.T) {
	c := setupTestServer(t)

	resp, err := c.client.Get(c.server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "OK" {
		t.Errorf("/health = %d %q", resp.StatusCode, body)
	}

	var info struct{ Engine, Version string }
	if code := c.do(http.MethodGet, "/dbinfo", nil, &info); code != http.StatusOK {
		t.Fatalf("/dbinfo status = %d", code)
	}
	if info.Engine != "sqlite" || info.Version == "" {
		t.Errorf("/dbinfo = %+v", info)
	}
}

func TestSignupAndLogin(t *testing.T) {
	c := setupTestServer(t)
	alice := c.signup("alice", "pw1")
	if alice.ID == "" || alice.Username != "alice" {
		t.Fatalf("signup = %+v", alice)
	}

	var e errorBody
	if code := c.do(http.MethodPost, "/api/users", map[string]string{"username": "alice", "password": "x"}, &e); code != http.StatusConflict {
		t.Errorf("duplicate signup status = %d, want 409", code)
	}
	if e.Error != "Username already exists" {
		t.Errorf("duplicate signup error = %q", e.Error)
	}

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing password", map[string]string{"username": "alice"}, http.StatusBadRequest},
		{"malformed", "{not json", http.StatusBadRequest},
		{"wrong password", map[string]string{"username": "alice", "password": "nope"}, http.StatusUnauthorized},
		{"unknown user", map[string]string{"username": "zed", "password": "pw1"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := c.do(http.MethodPost, "/api/login", tt.body, nil); code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
		})
	}

	// No session yet.
	if code := c.do(http.MethodGet, "/api/session", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("session before login = %d, want 401", code)
	}

	var session models.Session
	if code := c.do(http.MethodPost, "/api/login", map[string]string{"username": "alice", "password": "pw1"}, &session); code != http.StatusOK {
		t.Fatalf("login status = %d", code)
	}
	if session != alice {
		t.Errorf("login = %+v, want %+v", session, alice)
	}

	var current models.Session
	if code := c.do(http.MethodGet, "/api/session", nil, &current); code != http.StatusOK {
		t.Fatalf("session status = %d", code)
	}
	if current != alice {
		t.Errorf("session = %+v, want %+v", current, alice)
	}

	if code := c.do(http.MethodPost, "/api/logout", nil, nil); code != http.StatusOK {
		t.Fatalf("logout status = %d", code)
	}
	if code := c.do(http.MethodGet, "/api/session", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("session after logout = %d, want 401", code)
	}
}

func TestTodoLifecycle(t *testing.T) {
	c := setupTestServer(t)
	alice := c.signup("alice", "pw1")

	var empty []models.Todo
	if code := c.do(http.MethodGet, "/api/todos/"+alice.ID, nil, &empty); code != http.StatusOK || empty == nil || len(empty) != 0 {
		t.Fatalf("empty list = %d %#v", code, empty)
	}

	todo := c.createTodo(alice.ID, "Buy milk", models.VisibilityPrivate)
	if todo.ID == "" || todo.UserID != alice.ID || todo.State != models.StateOpen || todo.CreatedAt.IsZero() {
		t.Errorf("created = %+v", todo)
	}

	var patched map[string]any
	if code := c.do(http.MethodPatch, "/api/todos/"+todo.ID, map[string]string{"state": "blocked"}, &patched); code != http.StatusOK {
		t.Fatalf("patch status = %d", code)
	}
	if patched["id"] != todo.ID || patched["state"] != "blocked" || len(patched) != 2 {
		t.Errorf("patch echo = %v", patched)
	}

	var list []models.Todo
	c.do(http.MethodGet, "/api/todos/"+alice.ID, nil, &list)
	if len(list) != 1 || list[0].State != models.StateBlocked {
		t.Fatalf("list after patch = %+v", list)
	}

	for i := 0; i < 2; i++ {
		var res struct{ Success bool }
		if code := c.do(http.MethodDelete, "/api/todos/"+todo.ID, nil, &res); code != http.StatusOK || !res.Success {
			t.Errorf("delete #%d = %d %+v", i+1, code, res)
		}
	}
	c.do(http.MethodGet, "/api/todos/"+alice.ID, nil, &list)
	if len(list) != 0 {
		t.Errorf("list after delete = %+v", list)
	}
}

func TestCreateTodo_Validation(t *testing.T) {
	c := setupTestServer(t)
	alice := c.signup("alice", "pw1")

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"missing title", map[string]string{"user_id": alice.ID, "state": "open", "visibility": "public"}, http.StatusBadRequest},
		{"missing state", map[string]string{"user_id": alice.ID, "title": "x", "visibility": "public"}, http.StatusBadRequest},
		{"bad state", map[string]string{"user_id": alice.ID, "title": "x", "state": "done", "visibility": "public"}, http.StatusBadRequest},
		{"bad visibility", map[string]string{"user_id": alice.ID, "title": "x", "state": "open", "visibility": "friends"}, http.StatusBadRequest},
		{"unknown owner", map[string]string{"user_id": "ghost", "title": "x", "state": "open", "visibility": "public"}, http.StatusNotFound},
		{"description optional", map[string]string{"user_id": alice.ID, "title": "x", "state": "open", "visibility": "public"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := c.do(http.MethodPost, "/api/todos", tt.body, nil); code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestUpdateTodo_ForbiddenFields(t *testing.T) {
	c := setupTestServer(t)
	alice := c.signup("alice", "pw1")
	bob := c.signup("bob", "pw2")
	todo := c.createTodo(alice.ID, "Buy milk", models.VisibilityPrivate)

	tests := []struct {
		name string
		body string
	}{
		{"id", `{"id":"other"}`},
		{"user_id", `{"user_id":"` + bob.ID + `"}`},
		{"created_at", `{"created_at":"2020-01-01T00:00:00Z"}`},
		{"updated_at", `{"title":"x","updated_at":"2020-01-01T00:00:00Z"}`},
		{"bad state", `{"state":"archived"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := c.do(http.MethodPatch, "/api/todos/"+todo.ID, tt.body, nil); code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", code)
			}
		})
	}

	var list []models.Todo
	c.do(http.MethodGet, "/api/todos/"+alice.ID, nil, &list)
	if len(list) != 1 || list[0].Title != "Buy milk" || list[0].UserID != alice.ID {
		t.Errorf("todo changed by rejected patches: %+v", list)
	}
}

func TestUpdateTodo_MissingIDSucceeds(t *testing.T) {
	c := setupTestServer(t)
	if code := c.do(http.MethodPatch, "/api/todos/nope", `{"title":"x"}`, nil); code != http.StatusOK {
		t.Errorf("status = %d, want 200", code)
	}
}

func TestFriendsScenario(t *testing.T) {
	c := setupTestServer(t)
	alice := c.signup("alice", "pw1")
	bob := c.signup("bob", "pw2")

	c.createTodo(alice.ID, "Buy milk", models.VisibilityPublic)
	c.createTodo(alice.ID, "Secret diary", models.VisibilityPrivate)

	var added struct {
		Success        bool   `json:"success"`
		FriendUserID   string `json:"friend_user_id"`
		FriendUsername string `json:"friend_username"`
	}
	code := c.do(http.MethodPost, "/api/friends", map[string]string{"user_id": bob.ID, "friend_username": "alice"}, &added)
	if code != http.StatusOK || !added.Success || added.FriendUserID != alice.ID || added.FriendUsername != "alice" {
		t.Fatalf("add friend = %d %+v", code, added)
	}

	var feed []models.FriendTodo
	if code := c.do(http.MethodGet, "/api/friends/"+bob.ID+"/todos", nil, &feed); code != http.StatusOK {
		t.Fatalf("friends todos status = %d", code)
	}
	if len(feed) != 1 || feed[0].Title != "Buy milk" || feed[0].Username != "alice" {
		t.Errorf("bob's feed = %+v", feed)
	}

	// Edge is bob -> alice; alice sees nothing of bob's.
	c.createTodo(bob.ID, "Bob's run", models.VisibilityPublic)
	var reverse []models.FriendTodo
	c.do(http.MethodGet, "/api/friends/"+alice.ID+"/todos", nil, &reverse)
	if reverse == nil || len(reverse) != 0 {
		t.Errorf("alice's feed = %#v, want empty", reverse)
	}

	var e errorBody
	if code := c.do(http.MethodPost, "/api/friends", map[string]string{"user_id": bob.ID, "friend_username": "alice"}, &e); code != http.StatusConflict || e.Error != "Already friends" {
		t.Errorf("duplicate add = %d %q", code, e.Error)
	}
}

func TestAddFriend_Errors(t *testing.T) {
	c := setupTestServer(t)
	alice := c.signup("alice", "pw1")

	tests := []struct {
		name    string
		body    map[string]string
		want    int
		wantMsg string
	}{
		{"missing friend", map[string]string{"user_id": alice.ID}, http.StatusBadRequest, "Missing user_id or friend_username"},
		{"unknown friend", map[string]string{"user_id": alice.ID, "friend_username": "zed"}, http.StatusNotFound, "Friend username not found"},
		{"unknown self", map[string]string{"user_id": "ghost", "friend_username": "alice"}, http.StatusNotFound, "User not found"},
		{"self", map[string]string{"user_id": alice.ID, "friend_username": "alice"}, http.StatusBadRequest, "Cannot add yourself as a friend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e errorBody
			if code := c.do(http.MethodPost, "/api/friends", tt.body, &e); code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
			if e.Error != tt.wantMsg {
				t.Errorf("error = %q, want %q", e.Error, tt.wantMsg)
			}
		})
	}
}

func TestGoogleLogin_NotConfigured(t *testing.T) {
	c := setupTestServer(t)
	if code := c.do(http.MethodGet, "/api/auth/google/login", nil, nil); code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestCORSPreflight(t *testing.T) {
	c := setupTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, c.server.URL+"/api/todos", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
