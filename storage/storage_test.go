package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/labconsole/config"
)

// exercise runs the same contract against every backend.
func exercise(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "token"); err != nil || ok {
		t.Fatalf("Get on empty store = ok %v, err %v", ok, err)
	}
	if err := s.Set(ctx, "token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "user", `{"Account":"u1"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, "token")
	if err != nil || !ok || v != "abc" {
		t.Fatalf("Get = %q, %v, %v; want abc", v, ok, err)
	}
	if err := s.Set(ctx, "token", "def"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _, _ := s.Get(ctx, "token"); v != "def" {
		t.Errorf("after overwrite Get = %q, want def", v)
	}

	if err := s.Remove(ctx, "token", "user", "never-set"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	for _, k := range []string{"token", "user"} {
		if _, ok, _ := s.Get(ctx, k); ok {
			t.Errorf("%s still present after Remove", k)
		}
	}
}

func TestMemoryStorage(t *testing.T) {
	exercise(t, NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	s, err := NewFileStorage(filepath.Join(t.TempDir(), "session"))
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	exercise(t, s)
}

func TestFileStorage_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileStorage(dir)
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	if err := first.Set(ctx, "labconsole_token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	second, err := NewFileStorage(dir)
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	if v, ok, _ := second.Get(ctx, "labconsole_token"); !ok || v != "abc" {
		t.Errorf("reopened Get = %q, %v", v, ok)
	}

	info, err := os.Stat(filepath.Join(dir, "labconsole_token"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
}

func TestFileStorage_RejectsPathKeys(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	if err := s.Set(context.Background(), "../escape", "x"); err == nil {
		t.Error("Set should reject a key containing a path separator")
	}
}

func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	s, err := NewRedisStorage(context.Background(), config.RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisStorage: %v", err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestNew_SelectsBackend(t *testing.T) {
	s, err := New(context.Background(), &config.SessionConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := s.(*MemoryStorage); !ok {
		t.Errorf("New(memory) = %T", s)
	}
	if _, err := New(context.Background(), &config.SessionConfig{Backend: "etcd"}); err == nil {
		t.Error("New should reject an unknown backend")
	}
}
