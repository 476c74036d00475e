package interview

import (
	"context"
	"strings"

	"interviewer/internal/logging"
	"interviewer/internal/objectstore"
	"interviewer/internal/store"
)

// SessionView is a session plus its aggregate counts.
type SessionView struct {
	Session *store.Session
	Counts  store.SessionCounts
}

// SessionDetail is a session with its rounds and their questions expanded.
type SessionDetail struct {
	Session *store.Session
	Rounds  []*RoundDetail
}

// RoundDetail is a round with its question/answer rows.
type RoundDetail struct {
	Round     *store.Round
	Questions []*store.QuestionAnswer
}

// CreateSession starts a session in a room. The room must have a résumé; a
// session without one could never generate a round.
func (s *Service) CreateSession(ctx context.Context, roomID, name string) (*store.Session, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	hasResume, err := s.resumeExists(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !hasResume {
		return nil, ErrResumeRequired
	}

	session, err := s.store.CreateSession(ctx, roomID, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	s.logger.Info("session created",
		logging.String("session_id", session.ID),
		logging.String("room_id", roomID),
		logging.String("name", session.Name))
	return session, nil
}

// ListSessions returns a room's sessions with counts, newest first.
func (s *Service) ListSessions(ctx context.Context, roomID string) ([]*SessionView, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	sessions, err := s.store.SessionsByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	views := make([]*SessionView, 0, len(sessions))
	for _, session := range sessions {
		counts, err := s.store.SessionCountsFor(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, &SessionView{Session: session, Counts: counts})
	}
	return views, nil
}

// GetSession returns a session with its rounds and questions.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*SessionDetail, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	rounds, err := s.store.RoundsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	detail := &SessionDetail{Session: session}
	for _, round := range rounds {
		questions, err := s.store.QuestionAnswersByRound(ctx, round.ID)
		if err != nil {
			return nil, err
		}
		detail.Rounds = append(detail.Rounds, &RoundDetail{Round: round, Questions: questions})
	}
	return detail, nil
}

// DeleteSession removes a session, its rounds, and its object prefix.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	deleted, err := s.store.DeleteSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSessionNotFound
	}
	if err := s.objects.DeletePrefix(ctx, objectstore.SessionPrefix(session.RoomID, sessionID)); err != nil {
		s.logger.Warn("session object cleanup failed",
			logging.String("session_id", sessionID), logging.Error(err))
	}
	s.logger.Info("session deleted",
		logging.String("session_id", sessionID),
		logging.String("room_id", session.RoomID))
	return nil
}
