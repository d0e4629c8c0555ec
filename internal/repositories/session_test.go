package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/todox/internal/models"
	"github.com/desertthunder/todox/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func newTestSession(username string, demo bool) *models.Session {
	return models.NewSession(username, models.AuthResult{Token: "tok-" + username, UserID: "id-" + username}, demo)
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(ctx, db, "sessions")
		if err != nil {
			t.Fatalf("NextSequence() error = %v", err)
		}
		if got != want {
			t.Errorf("NextSequence() = %d, want %d", got, want)
		}
	}

	if _, err := NextSequence(ctx, db, "missing"); err == nil {
		t.Error("expected error for table without sequence")
	}
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		s := newTestSession("demo-user", true)

		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if s.ID == "" {
			t.Error("session ID should be set after creation")
		}
		if s.Sequence != 1 {
			t.Errorf("expected sequence 1, got %d", s.Sequence)
		}
	})

	t.Run("Create validates", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		s := newTestSession("alice", false)
		s.Token = ""

		if err := repo.Create(ctx, s); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		s := newTestSession("alice", false)
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		got, err := repo.Get(ctx, s.ID)
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if got.Username != "alice" || got.Token != "tok-alice" || got.UserID != "id-alice" || got.Demo {
			t.Errorf("unexpected session %+v", got)
		}

		if _, err := repo.Get(ctx, "missing"); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Current returns latest live session", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if _, err := repo.Current(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated on empty store, got %v", err)
		}

		first := newTestSession("alice", false)
		second := newTestSession("demo-user", true)
		for _, s := range []*models.Session{first, second} {
			if err := repo.Create(ctx, s); err != nil {
				t.Fatalf("failed to create session: %v", err)
			}
		}

		got, err := repo.Current(ctx)
		if err != nil {
			t.Fatalf("Current() error = %v", err)
		}
		if got.ID != second.ID || !got.Demo {
			t.Errorf("expected latest session %s, got %s", second.ID, got.ID)
		}

		if err := repo.Delete(ctx, second.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		got, err = repo.Current(ctx)
		if err != nil {
			t.Fatalf("Current() error = %v", err)
		}
		if got.ID != first.ID {
			t.Errorf("expected fallback to %s, got %s", first.ID, got.ID)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		s := newTestSession("alice", false)
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if err := repo.Delete(ctx, s.ID); err != nil {
			t.Fatalf("failed to delete session: %v", err)
		}
		if _, err := repo.Get(ctx, s.ID); err == nil {
			t.Error("deleted session should not be retrievable")
		}
		if err := repo.Delete(ctx, s.ID); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("second delete should report not found, got %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		for _, name := range []string{"alice", "bob"} {
			if err := repo.Create(ctx, newTestSession(name, false)); err != nil {
				t.Fatalf("failed to create session: %v", err)
			}
		}

		n, err := repo.Clear(ctx)
		if err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 cleared sessions, got %d", n)
		}
		if _, err := repo.Current(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated after Clear, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		for _, s := range []*models.Session{
			newTestSession("alice", false),
			newTestSession("demo-user", true),
			newTestSession("alice", false),
		} {
			if err := repo.Create(ctx, s); err != nil {
				t.Fatalf("failed to create session: %v", err)
			}
		}

		tc := []struct {
			name     string
			criteria map[string]any
			want     int
		}{
			{name: "all", criteria: nil, want: 3},
			{name: "by username", criteria: map[string]any{"username": "alice"}, want: 2},
			{name: "demo only", criteria: map[string]any{"demo": true}, want: 1},
			{name: "no match", criteria: map[string]any{"username": "carol"}, want: 0},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.List(ctx, tt.criteria)
				if err != nil {
					t.Fatalf("List() error = %v", err)
				}
				if len(got) != tt.want {
					t.Errorf("expected %d sessions, got %d", tt.want, len(got))
				}
			})
		}
	})
}
