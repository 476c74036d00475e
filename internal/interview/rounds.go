package interview

import (
	"context"
	"fmt"
	"time"

	"interviewer/internal/logging"
	"interviewer/internal/objectstore"
	"interviewer/internal/store"
)

// RoundPayload is the generated question document uploaded per round.
type RoundPayload struct {
	RoomID      string              `json:"room_id"`
	SessionID   string              `json:"session_id"`
	RoundID     string              `json:"round_id"`
	RoundIndex  int                 `json:"round_index"`
	Questions   []string            `json:"questions"`
	Categorized map[string][]string `json:"categorized"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// GenerateRound produces the next question round for a session: the résumé
// is rendered into prompt text, the LLM generates per-category questions,
// and the results land as QA rows plus an uploaded round payload. The upload
// is best-effort; losing it does not lose the round.
func (s *Service) GenerateRound(ctx context.Context, sessionID string) (*RoundDetail, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	var resume Resume
	if err := s.objects.GetJSON(ctx, objectstore.ResumeKey(session.RoomID), &resume); err != nil {
		return nil, ErrResumeRequired
	}
	summary := resume.PromptText()
	if summary == "" {
		return nil, ErrResumeRequired
	}

	generated, err := s.generator.GenerateQuestions(ctx, summary, s.categories, s.perCategory)
	if len(generated) == 0 {
		if err == nil {
			err = fmt.Errorf("no questions generated")
		}
		s.notifyErr("generation", s.notifier.NotifyError(ctx, err, "question generation"))
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	if err != nil {
		// Some categories failed but we still have questions to work with.
		s.logger.Warn("question generation incomplete", logging.Error(err))
	}

	inputs := make([]store.QuestionInput, 0, len(generated))
	merged := make([]string, 0, len(generated))
	categorized := make(map[string][]string, len(s.categories))
	for _, q := range generated {
		text := fmt.Sprintf("[%s] %s", q.Category, q.Text)
		inputs = append(inputs, store.QuestionInput{Text: text, Category: q.Category})
		merged = append(merged, text)
		categorized[q.Category] = append(categorized[q.Category], q.Text)
	}

	// The object key carries the round index, which is assigned inside the
	// insert transaction, so it is recorded in a second step.
	round, err := s.store.CreateRound(ctx, sessionID, "", len(inputs), store.RoundTypeGenerated)
	if err != nil {
		return nil, err
	}
	round.QuestionsObject = objectstore.QuestionsKey(session.RoomID, sessionID, round.RoundIndex)
	if err := s.store.SetRoundQuestionsObject(ctx, round.ID, round.QuestionsObject); err != nil {
		return nil, err
	}
	questions, err := s.store.CreateQuestionAnswers(ctx, round.ID, inputs)
	if err != nil {
		return nil, err
	}

	payload := RoundPayload{
		RoomID:      session.RoomID,
		SessionID:   sessionID,
		RoundID:     round.ID,
		RoundIndex:  round.RoundIndex,
		Questions:   merged,
		Categorized: categorized,
		GeneratedAt: time.Now().UTC(),
	}
	if err := s.objects.PutJSON(ctx, round.QuestionsObject, payload); err != nil {
		s.logger.Warn("round payload upload failed",
			logging.String("round_id", round.ID),
			logging.String("key", round.QuestionsObject),
			logging.Error(err))
	}

	s.logger.Info("round generated",
		logging.String("session_id", sessionID),
		logging.String("round_id", round.ID),
		logging.Int("round_index", round.RoundIndex),
		logging.Int("questions", len(questions)))

	room, roomErr := s.store.GetRoom(ctx, session.RoomID)
	if roomErr == nil && room != nil {
		s.notifyErr("round generated",
			s.notifier.NotifyRoundGenerated(ctx, room.Name, session.Name, round.RoundIndex, len(questions)))
	}

	return &RoundDetail{Round: round, Questions: questions}, nil
}
