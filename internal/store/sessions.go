package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateSession starts a new session in a room. An empty name becomes
// "Session N" where N is one past the room's current session count.
func (s *Store) CreateSession(ctx context.Context, roomID, name string) (*Session, error) {
	if name == "" {
		var existing int
		row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM sessions WHERE room_id = ?`, roomID)
		if err := row.Scan(&existing); err != nil {
			return nil, fmt.Errorf("count sessions: %w", err)
		}
		name = fmt.Sprintf("Session %d", existing+1)
	}

	id := uuid.NewString()
	now := timestamp(time.Now())
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (id, room_id, name, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id, roomID, name, string(StatusActive), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return s.GetSession(ctx, id)
}

// GetSession fetches a session by identifier. Returns nil when not found.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// SessionsByRoom returns a room's sessions ordered newest first.
func (s *Store) SessionsByRoom(ctx context.Context, roomID string) ([]*Session, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE room_id = ? ORDER BY created_at DESC`,
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session and its rounds via cascade. Returns false
// when the session did not exist.
func (s *Store) DeleteSession(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// UpdateSessionStatus transitions a session to the given status.
func (s *Store) UpdateSessionStatus(ctx context.Context, id string, status Status) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), timestamp(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SessionCountsFor returns the number of rounds and questions in a session.
func (s *Store) SessionCountsFor(ctx context.Context, sessionID string) (SessionCounts, error) {
	var counts SessionCounts
	row := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1), COALESCE(SUM(questions_count), 0)
         FROM rounds WHERE session_id = ?`,
		sessionID,
	)
	if err := row.Scan(&counts.Rounds, &counts.Questions); err != nil {
		return SessionCounts{}, fmt.Errorf("session counts: %w", err)
	}
	return counts, nil
}

const sessionColumns = "id, room_id, name, status, created_at, updated_at"

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		id         string
		roomID     string
		name       string
		status     string
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&id, &roomID, &name, &status, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	session := &Session{
		ID:     id,
		RoomID: roomID,
		Name:   name,
		Status: Status(status),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		session.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		session.UpdatedAt = updated
	}
	return session, nil
}
