package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const defaultRoomName = "Interview Room"

// CreateRoom inserts a new interview room. An empty name gets the default.
func (s *Store) CreateRoom(ctx context.Context, name string) (*Room, error) {
	id := uuid.NewString()
	memoryID := "memory_" + id[:8]
	if name == "" {
		name = defaultRoomName
	}
	now := timestamp(time.Now())

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO rooms (id, memory_id, name, jd_id, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id, memoryID, name, nil, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}

	return s.GetRoom(ctx, id)
}

// GetRoom fetches a room by identifier. Returns nil when not found.
func (s *Store) GetRoom(ctx context.Context, id string) (*Room, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
	room, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	return room, nil
}

// ListRooms returns all rooms ordered newest first.
func (s *Store) ListRooms(ctx context.Context) ([]*Room, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// DeleteRoom removes a room. Sessions, rounds, and question/answer rows
// cascade via foreign keys. Returns false when the room did not exist.
func (s *Store) DeleteRoom(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete room: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// SetRoomJD records the job-description identifier attached to a room.
func (s *Store) SetRoomJD(ctx context.Context, id, jdID string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE rooms SET jd_id = ?, updated_at = ? WHERE id = ?`,
		nullableString(jdID), timestamp(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("set room jd: %w", err)
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

// RoomCountsFor returns the number of sessions and rounds under a room.
func (s *Store) RoomCountsFor(ctx context.Context, roomID string) (RoomCounts, error) {
	var counts RoomCounts
	row := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(DISTINCT s.id), COUNT(r.id)
         FROM sessions s
         LEFT JOIN rounds r ON r.session_id = s.id
         WHERE s.room_id = ?`,
		roomID,
	)
	if err := row.Scan(&counts.Sessions, &counts.Rounds); err != nil {
		return RoomCounts{}, fmt.Errorf("room counts: %w", err)
	}
	return counts, nil
}

const roomColumns = "id, memory_id, name, jd_id, created_at, updated_at"

func scanRoom(scanner interface{ Scan(dest ...any) error }) (*Room, error) {
	var (
		id         string
		memoryID   string
		name       string
		jdID       sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&id, &memoryID, &name, &jdID, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	room := &Room{
		ID:       id,
		MemoryID: memoryID,
		Name:     name,
		JDID:     jdID.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		room.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		room.UpdatedAt = updated
	}
	return room, nil
}
