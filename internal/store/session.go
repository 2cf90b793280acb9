package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/waymark-labs/waymark/internal/session"
)

// sessionRepo implements SessionRepo.
type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Save(ctx context.Context, s *session.Session) error {
	var completed sql.NullString
	if s.CompletedAt != nil {
		completed = sql.NullString{String: fmtTime(*s.CompletedAt), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, user_id, guide_id, current_step, status, created_at, updated_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			current_step = excluded.current_step,
			status       = excluded.status,
			updated_at   = excluded.updated_at,
			completed_at = excluded.completed_at`,
		s.ID, s.UserID, s.GuideID, s.CurrentIdentifier, string(s.Status),
		fmtTime(s.CreatedAt), fmtTime(s.UpdatedAt), completed)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Load(ctx context.Context, id string) (*session.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT session_id, user_id, guide_id, current_step, status, created_at, updated_at, completed_at
		FROM sessions WHERE session_id = ?`, id)

	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: "session", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s, nil
}

func (r *sessionRepo) ListByUser(ctx context.Context, userID string, status session.Status) ([]*session.Session, error) {
	query := `
		SELECT session_id, user_id, guide_id, current_step, status, created_at, updated_at, completed_at
		FROM sessions WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*session.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*session.Session, error) {
	var s session.Session
	var status, createdAt, updatedAt string
	var completedAt sql.NullString

	err := row.Scan(&s.ID, &s.UserID, &s.GuideID, &s.CurrentIdentifier,
		&status, &createdAt, &updatedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	s.Status = session.Status(status)
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse completed_at: %w", err)
		}
		s.CompletedAt = &t
	}
	return &s, nil
}
