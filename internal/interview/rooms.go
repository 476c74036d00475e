package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"interviewer/internal/logging"
	"interviewer/internal/objectstore"
	"interviewer/internal/store"
)

// RoomView is a room plus its aggregate counts and résumé state.
type RoomView struct {
	Room      *store.Room
	Counts    store.RoomCounts
	HasResume bool
}

// CreateRoom creates a new interview room.
func (s *Service) CreateRoom(ctx context.Context, name string) (*store.Room, error) {
	room, err := s.store.CreateRoom(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	s.logger.Info("room created",
		logging.String("room_id", room.ID),
		logging.String("name", room.Name))
	return room, nil
}

// GetRoom returns a room with counts and résumé state.
func (s *Service) GetRoom(ctx context.Context, roomID string) (*RoomView, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	counts, err := s.store.RoomCountsFor(ctx, roomID)
	if err != nil {
		return nil, err
	}
	hasResume, err := s.resumeExists(ctx, roomID)
	if err != nil {
		s.logger.Warn("resume existence check failed",
			logging.String("room_id", roomID), logging.Error(err))
	}
	return &RoomView{Room: room, Counts: counts, HasResume: hasResume}, nil
}

// ListRooms returns all rooms with their counts, newest first.
func (s *Service) ListRooms(ctx context.Context) ([]*RoomView, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*RoomView, 0, len(rooms))
	for _, room := range rooms {
		counts, err := s.store.RoomCountsFor(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, &RoomView{Room: room, Counts: counts})
	}
	return views, nil
}

// DeleteRoom removes a room, its database subtree, and its object prefix.
// Object cleanup failure is logged, not surfaced; the metadata is already
// gone and orphaned objects are harmless.
func (s *Service) DeleteRoom(ctx context.Context, roomID string) error {
	deleted, err := s.store.DeleteRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRoomNotFound
	}
	if err := s.objects.DeletePrefix(ctx, objectstore.RoomPrefix(roomID)); err != nil {
		s.logger.Warn("room object cleanup failed",
			logging.String("room_id", roomID), logging.Error(err))
	}
	s.logger.Info("room deleted", logging.String("room_id", roomID))
	return nil
}

// JobDescription is the document stored when a JD is attached to a room.
type JobDescription struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// AttachJD stores job-description text for a room and records its id.
func (s *Service) AttachJD(ctx context.Context, roomID, text string) (*JobDescription, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: jd text required", ErrInvalidInput)
	}
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	jd := JobDescription{
		ID:         "jd_" + roomID[:8],
		Text:       text,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.objects.PutJSON(ctx, objectstore.JDKey(roomID), jd); err != nil {
		return nil, fmt.Errorf("store jd: %w", err)
	}
	if err := s.store.SetRoomJD(ctx, roomID, jd.ID); err != nil {
		return nil, fmt.Errorf("record jd id: %w", err)
	}
	s.logger.Info("jd attached",
		logging.String("room_id", roomID),
		logging.String("jd_id", jd.ID))
	return &jd, nil
}
