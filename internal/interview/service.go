package interview

import (
	"context"
	"log/slog"

	"interviewer/internal/config"
	"interviewer/internal/logging"
	"interviewer/internal/notifications"
	"interviewer/internal/objectstore"
	"interviewer/internal/services/llm"
	"interviewer/internal/store"
)

// Generator is the model-backed half of the service: it produces
// category-tagged interview questions from a candidate summary and reviews
// completed rounds. *llm.Client satisfies it.
type Generator interface {
	GenerateQuestions(ctx context.Context, candidateSummary string, categories []string, count int) ([]llm.Question, error)
	EvaluateAnswers(ctx context.Context, sessionName string, pairs []llm.QA) (*llm.Evaluation, error)
}

// Service coordinates the store, object storage, the LLM, and notifications.
type Service struct {
	store     *store.Store
	objects   objectstore.Client
	generator Generator
	notifier  notifications.Service
	logger    *slog.Logger

	categories  []string
	perCategory int
}

// New assembles the interview service from its dependencies.
func New(cfg *config.Config, st *store.Store, objects objectstore.Client, generator Generator, notifier notifications.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	categories, perCategory := cfg.QuestionPlan()
	return &Service{
		store:       st,
		objects:     objects,
		generator:   generator,
		notifier:    notifier,
		logger:      logging.WithComponent(logger, "interview"),
		categories:  categories,
		perCategory: perCategory,
	}
}

// notifyErr reports notification failures without failing the operation.
func (s *Service) notifyErr(op string, err error) {
	if err != nil {
		s.logger.Warn("notification failed", logging.String("op", op), logging.Error(err))
	}
}
