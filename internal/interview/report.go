package interview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"interviewer/internal/logging"
	"interviewer/internal/objectstore"
	"interviewer/internal/services/llm"
)

// ReportDoc is the stored evaluation report for a completed round.
type ReportDoc struct {
	ReportID       string          `json:"report_id"`
	RoomID         string          `json:"room_id"`
	SessionID      string          `json:"session_id"`
	SessionName    string          `json:"session_name"`
	RoundID        string          `json:"round_id"`
	RoundIndex     int             `json:"round_index"`
	TotalQuestions int             `json:"total_questions"`
	TotalScore     float64         `json:"total_score"`
	OverallGrade   string          `json:"overall_grade"`
	Evaluation     *llm.Evaluation `json:"evaluation"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// GenerateReport runs the round's completed Q&A through the model and stores
// the resulting evaluation report. The Q&A document must exist, so reports
// can only be generated once every question in the round is answered.
func (s *Service) GenerateReport(ctx context.Context, sessionID string, roundIndex int) (*ReportDoc, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	doc, err := s.Analysis(ctx, sessionID, roundIndex)
	if err != nil {
		return nil, err
	}

	pairs := make([]llm.QA, 0, len(doc.Items))
	for _, item := range doc.Items {
		pairs = append(pairs, llm.QA{
			Question: item.Question,
			Answer:   item.Answer,
			Category: item.Category,
		})
	}

	evaluation, err := s.generator.EvaluateAnswers(ctx, session.Name, pairs)
	if err != nil {
		s.notifyErr("report generation", s.notifier.NotifyError(ctx, err, "report generation"))
		return nil, fmt.Errorf("evaluate round: %w", err)
	}

	report := &ReportDoc{
		ReportID:       uuid.NewString(),
		RoomID:         doc.RoomID,
		SessionID:      sessionID,
		SessionName:    session.Name,
		RoundID:        doc.RoundID,
		RoundIndex:     roundIndex,
		TotalQuestions: len(doc.Items),
		TotalScore:     evaluation.Scores.Average(),
		OverallGrade:   gradeFor(evaluation.Scores.Average()),
		Evaluation:     evaluation,
		GeneratedAt:    time.Now().UTC(),
	}

	key := objectstore.ReportKey(sessionID, roundIndex)
	if err := s.objects.PutJSON(ctx, key, report); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}
	s.logger.Info("evaluation report stored",
		logging.String("session_id", sessionID),
		logging.Int("round_index", roundIndex),
		logging.String("key", key))
	return report, nil
}

// Report returns a previously generated evaluation report.
func (s *Service) Report(ctx context.Context, sessionID string, roundIndex int) (*ReportDoc, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	var report ReportDoc
	key := objectstore.ReportKey(sessionID, roundIndex)
	if err := s.objects.GetJSON(ctx, key, &report); err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			return nil, ErrReportMissing
		}
		return nil, fmt.Errorf("load report: %w", err)
	}
	return &report, nil
}

func gradeFor(score float64) string {
	switch {
	case score >= 9:
		return "A+"
	case score >= 8:
		return "A"
	case score >= 7:
		return "B+"
	case score >= 6:
		return "B"
	default:
		return "C"
	}
}
