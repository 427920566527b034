package localstore

import (
	"context"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "local.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestGetSetDelete(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = (%v, %v), want not found", ok, err)
	}

	if err := s.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	if v, ok, _ := s.Get(ctx, "k"); !ok || v != "v2" {
		t.Errorf("Get(k) = (%q, %v), want v2", v, ok)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("key still present after Delete")
	}
}

func TestJSON(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	type session struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}

	var got session
	if ok, err := s.GetJSON(ctx, SessionKey, &got); err != nil || ok {
		t.Fatalf("GetJSON(missing) = (%v, %v)", ok, err)
	}

	want := session{ID: "u-1", Username: "alice"}
	if err := s.SetJSON(ctx, SessionKey, want); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}
	if ok, err := s.GetJSON(ctx, SessionKey, &got); err != nil || !ok || got != want {
		t.Errorf("GetJSON() = (%+v, %v, %v), want %+v", got, ok, err, want)
	}

	// Corrupt values read as missing.
	if err := s.Set(ctx, GuestTodosKey, "{not json"); err != nil {
		t.Fatal(err)
	}
	var todos []string
	if ok, err := s.GetJSON(ctx, GuestTodosKey, &todos); err != nil || ok {
		t.Errorf("GetJSON(corrupt) = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	s, path := setupTestStore(t)
	ctx := context.Background()
	if err := s.Set(ctx, TodosKey, "[]"); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if v, ok, _ := reopened.Get(ctx, TodosKey); !ok || v != "[]" {
		t.Errorf("Get() after reopen = (%q, %v)", v, ok)
	}
}
