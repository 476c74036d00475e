package interview

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"interviewer/internal/logging"
	"interviewer/internal/objectstore"
	"interviewer/internal/store"
)

// CurrentQuestion is the next unanswered question of a round.
type CurrentQuestion struct {
	Round    *store.Round
	Question *store.QuestionAnswer
	// Remaining counts the unanswered questions including this one.
	Remaining int
}

// AnalysisDoc is the completed question/answer record uploaded per round.
type AnalysisDoc struct {
	RoomID      string         `json:"room_id"`
	SessionID   string         `json:"session_id"`
	RoundID     string         `json:"round_id"`
	RoundIndex  int            `json:"round_index"`
	Items       []AnalysisItem `json:"items"`
	CompletedAt time.Time      `json:"completed_at"`
}

// AnalysisItem is one answered question in an analysis document.
type AnalysisItem struct {
	QuestionIndex int    `json:"question_index"`
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	Category      string `json:"category,omitempty"`
}

// NextQuestion returns the round's current unanswered question.
func (s *Service) NextQuestion(ctx context.Context, roundID string) (*CurrentQuestion, error) {
	round, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, ErrRoundNotFound
	}
	question, err := s.store.NextUnanswered(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	return &CurrentQuestion{
		Round:     round,
		Question:  question,
		Remaining: round.QuestionsCount - question.QuestionIndex,
	}, nil
}

// SaveAnswer records an answer and advances the round cursor. When the last
// question of the round is answered, the completed Q&A document is uploaded;
// its presence is what allows the round to be confirmed complete.
func (s *Service) SaveAnswer(ctx context.Context, roundID string, questionIndex int, answer string) (*store.QuestionAnswer, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, fmt.Errorf("%w: answer text required", ErrInvalidInput)
	}
	round, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, ErrRoundNotFound
	}

	saved, err := s.store.SaveAnswer(ctx, roundID, questionIndex, answer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	remaining, err := s.store.NextUnanswered(ctx, roundID)
	if err != nil {
		// The answer is already committed; re-saving any answer
		// re-evaluates the upload gate.
		s.logger.Warn("remaining question lookup failed",
			logging.String("round_id", roundID), logging.Error(err))
		return saved, nil
	}
	if remaining == nil {
		if uploadErr := s.uploadAnalysis(ctx, round); uploadErr != nil {
			s.logger.Warn("analysis upload failed",
				logging.String("round_id", roundID), logging.Error(uploadErr))
		}
	}
	return saved, nil
}

func (s *Service) uploadAnalysis(ctx context.Context, round *store.Round) error {
	session, err := s.store.GetSession(ctx, round.SessionID)
	if err != nil || session == nil {
		return fmt.Errorf("lookup session: %w", err)
	}
	items, err := s.store.QuestionAnswersByRound(ctx, round.ID)
	if err != nil {
		return err
	}
	doc := AnalysisDoc{
		RoomID:      session.RoomID,
		SessionID:   session.ID,
		RoundID:     round.ID,
		RoundIndex:  round.RoundIndex,
		CompletedAt: time.Now().UTC(),
	}
	for _, item := range items {
		doc.Items = append(doc.Items, AnalysisItem{
			QuestionIndex: item.QuestionIndex,
			Question:      item.QuestionText,
			Answer:        item.AnswerText,
			Category:      item.Category,
		})
	}
	key := objectstore.AnalysisKey(session.RoomID, session.ID, round.RoundIndex)
	if err := s.objects.PutJSON(ctx, key, doc); err != nil {
		return err
	}
	s.logger.Info("analysis stored",
		logging.String("round_id", round.ID),
		logging.String("key", key))
	return nil
}

// CompleteRound confirms a round at the given session index. The completed
// Q&A document must exist; confirming an already-completed round is a no-op.
func (s *Service) CompleteRound(ctx context.Context, sessionID string, roundIndex int) (*store.Round, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	round, err := s.store.RoundBySessionIndex(ctx, sessionID, roundIndex)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, ErrRoundNotFound
	}

	key := objectstore.AnalysisKey(session.RoomID, sessionID, roundIndex)
	exists, err := s.objects.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check analysis object: %w", err)
	}
	if !exists {
		return nil, ErrAnalysisMissing
	}

	alreadyComplete := round.Status == store.StatusCompleted
	sessionCompleted, err := s.store.CompleteRound(ctx, round.ID)
	if err != nil {
		return nil, err
	}

	round, err = s.store.GetRound(ctx, round.ID)
	if err != nil {
		return nil, err
	}

	if !alreadyComplete {
		s.logger.Info("round completed",
			logging.String("session_id", sessionID),
			logging.Int("round_index", roundIndex))
		room, roomErr := s.store.GetRoom(ctx, session.RoomID)
		if roomErr == nil && room != nil {
			s.notifyErr("round completed",
				s.notifier.NotifyRoundCompleted(ctx, room.Name, session.Name, roundIndex))
			if sessionCompleted {
				s.notifyErr("session completed",
					s.notifier.NotifySessionCompleted(ctx, room.Name, session.Name))
			}
		}
	}
	return round, nil
}

// Analysis returns the completed Q&A document for a round.
func (s *Service) Analysis(ctx context.Context, sessionID string, roundIndex int) (*AnalysisDoc, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	var doc AnalysisDoc
	key := objectstore.AnalysisKey(session.RoomID, sessionID, roundIndex)
	if err := s.objects.GetJSON(ctx, key, &doc); err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			return nil, ErrAnalysisMissing
		}
		return nil, fmt.Errorf("load analysis: %w", err)
	}
	return &doc, nil
}
