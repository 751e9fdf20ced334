package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenWithOptions("sqlite://"+filepath.Join(t.TempDir(), "notes.db"), OpenOptions{
		BusyTimeout: time.Second,
		LockTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Init(ctx); err != nil {
		t.Fatalf("init store: %v", err)
	}
	return s
}

func strPtr(s string) *string { return &s }

func TestInitIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.Init(ctx); err != nil {
		t.Fatalf("second init: %v", err)
	}
	version, dirty, ok, err := s.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if !ok || dirty || version != 1 {
		t.Fatalf("expected clean version 1, got version=%d dirty=%v ok=%v", version, dirty, ok)
	}
}

func TestMigrateDownDropsTables(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.MigrateDown(ctx, 1); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if _, err := s.ListNotes(ctx); err == nil {
		t.Fatalf("expected error listing notes after down migration")
	}
	if err := s.Init(ctx); err != nil {
		t.Fatalf("re-init: %v", err)
	}
	if _, err := s.ListNotes(ctx); err != nil {
		t.Fatalf("list after re-init: %v", err)
	}
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	if _, err := Open("mysql://localhost/notes"); err == nil {
		t.Fatalf("expected error for mysql url")
	}
	if _, err := Open("  "); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestParseDatabaseURL(t *testing.T) {
	cases := []struct {
		in      string
		dialect string
	}{
		{"notes.db", "sqlite"},
		{"sqlite://data/notes.db", "sqlite"},
		{"sqlite:notes.db", "sqlite"},
		{"postgres://u:p@localhost/notes", "postgres"},
		{"postgresql://localhost/notes", "postgres"},
	}
	for _, c := range cases {
		d, _, err := parseDatabaseURL(c.in, 0)
		if err != nil {
			t.Fatalf("parse %q: %v", c.in, err)
		}
		if d.name != c.dialect {
			t.Fatalf("expected %q -> %s, got %s", c.in, c.dialect, d.name)
		}
	}
}

func TestRebind(t *testing.T) {
	got := postgresDialect.rebind("UPDATE notes SET title=?, content=? WHERE id=?")
	want := "UPDATE notes SET title=$1, content=$2 WHERE id=$3"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := sqliteDialect.rebind("SELECT ?"); got != "SELECT ?" {
		t.Fatalf("sqlite rebind changed query: %q", got)
	}
}

func TestPing(t *testing.T) {
	s := openTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if s.Dialect() != "sqlite" {
		t.Fatalf("expected sqlite dialect, got %s", s.Dialect())
	}
}

func TestClassifyLeavesOtherErrors(t *testing.T) {
	s := openTestStore(t)
	plain := errors.New("boom")
	if got := s.classify(plain); got != plain {
		t.Fatalf("expected error passthrough, got %v", got)
	}
}
