package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/todox/internal/models"
	"github.com/desertthunder/todox/internal/shared"
)

const sessionColumns = "id, sequence, username, user_id, token, demo, created_at, updated_at, deleted_at"

// SessionRepository persists signed-in [models.Session] records.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session, assigning its ID and sequence.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "sessions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	session.ID = shared.GenerateID()
	session.Sequence = sequence

	query := `
		INSERT INTO sessions (id, sequence, username, user_id, token, demo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		session.ID, session.Sequence, session.Username, session.UserID, session.Token, session.Demo,
		session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// Get retrieves a live session by ID.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions WHERE id = ? AND deleted_at IS NULL"

	s, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return s, nil
}

// Current returns the most recent live session, or [shared.ErrNotAuthenticated] when nobody is signed in.
func (r *SessionRepository) Current(ctx context.Context) (*models.Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions WHERE deleted_at IS NULL ORDER BY sequence DESC LIMIT 1"

	s, err := scanSession(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query current session: %w", err)
	}
	return s, nil
}

// Delete soft-deletes a session by ID
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	now := time.Now()
	result, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL", now, now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	return nil
}

// Clear soft-deletes every live session and returns how many were ended.
func (r *SessionRepository) Clear(ctx context.Context) (int, error) {
	now := time.Now()
	result, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET deleted_at = ?, updated_at = ? WHERE deleted_at IS NULL", now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(rows), nil
}

// List retrieves live sessions matching the given criteria, oldest first.
//
// Supported criteria: "username" (string), "demo" (bool).
func (r *SessionRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions WHERE deleted_at IS NULL"
	args := []any{}

	if username, ok := criteria["username"].(string); ok && username != "" {
		query += " AND username = ?"
		args = append(args, username)
	}
	if demo, ok := criteria["demo"].(bool); ok {
		query += " AND demo = ?"
		args = append(args, demo)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*models.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*models.Session, error) {
	var (
		s         models.Session
		deletedAt sql.NullTime
	)

	err := row.Scan(&s.ID, &s.Sequence, &s.Username, &s.UserID, &s.Token, &s.Demo, &s.CreatedAt, &s.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		s.DeletedAt = &deletedAt.Time
	}
	return &s, nil
}
