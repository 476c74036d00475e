package interview_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"interviewer/internal/config"
	"interviewer/internal/interview"
	"interviewer/internal/logging"
	"interviewer/internal/objectstore"
	"interviewer/internal/services/llm"
	"interviewer/internal/store"
	"interviewer/internal/testsupport"
)

type fakeGenerator struct {
	calls     int
	err       error
	evalCalls int
	evalErr   error
}

func (f *fakeGenerator) GenerateQuestions(_ context.Context, _ string, categories []string, count int) ([]llm.Question, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var questions []llm.Question
	for _, category := range categories {
		for i := 0; i < count; i++ {
			questions = append(questions, llm.Question{
				Text:     fmt.Sprintf("%s question %d?", category, i+1),
				Category: category,
			})
		}
	}
	return questions, nil
}

func (f *fakeGenerator) EvaluateAnswers(_ context.Context, sessionName string, pairs []llm.QA) (*llm.Evaluation, error) {
	f.evalCalls++
	if f.evalErr != nil {
		return nil, f.evalErr
	}
	reviews := make([]llm.QuestionReview, 0, len(pairs))
	for i := range pairs {
		reviews = append(reviews, llm.QuestionReview{QuestionIndex: i + 1, KeyPoints: "depth of understanding"})
	}
	return &llm.Evaluation{
		Summary:     "strong round for " + sessionName,
		Suggestions: "give concrete numbers",
		Scores: llm.EvaluationScores{
			ContentCompleteness: 8,
			HighlightProminence: 8,
			LogicalClarity:      8,
			ExpressionAbility:   8,
			PositionMatching:    8,
		},
		Questions: reviews,
	}, nil
}

type fixture struct {
	svc     *interview.Service
	store   *store.Store
	objects objectstore.Client
	cfg     *config.Config
	gen     *fakeGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithQuestionPlan([]string{"fundamentals", "project"}, 2))
	st := testsupport.MustOpenStore(t, cfg)
	objects, err := objectstore.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("objectstore.New failed: %v", err)
	}
	gen := &fakeGenerator{}
	svc := interview.New(cfg, st, objects, gen, nil, logging.NewNop())
	return &fixture{svc: svc, store: st, objects: objects, cfg: cfg, gen: gen}
}

func (f *fixture) roomWithResume(t *testing.T) *store.Room {
	t.Helper()
	ctx := context.Background()
	room, err := f.svc.CreateRoom(ctx, "Backend Hire")
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	resume := interview.Resume{
		Name:     "Ada",
		Position: "Backend Engineer",
		Skills:   []string{"Go", "SQL"},
		Projects: []interview.ResumeProject{
			{Name: "Billing", Description: "usage-based billing system", Technologies: []string{"Go", "SQLite"}},
		},
	}
	if err := f.svc.SaveResume(ctx, room.ID, resume); err != nil {
		t.Fatalf("SaveResume failed: %v", err)
	}
	return room
}

func TestCreateSessionRequiresResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.svc.CreateRoom(ctx, "No Resume Yet")
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if _, err := f.svc.CreateSession(ctx, room.ID, ""); !errors.Is(err, interview.ErrResumeRequired) {
		t.Fatalf("expected ErrResumeRequired, got %v", err)
	}

	if err := f.svc.SaveResume(ctx, room.ID, interview.Resume{Name: "Ada", Skills: []string{"Go"}}); err != nil {
		t.Fatalf("SaveResume failed: %v", err)
	}
	session, err := f.svc.CreateSession(ctx, room.ID, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.Name != "Session 1" {
		t.Fatalf("session name = %q", session.Name)
	}
}

func TestGenerateRoundCreatesQuestionsAndPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room := f.roomWithResume(t)
	session, err := f.svc.CreateSession(ctx, room.ID, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	detail, err := f.svc.GenerateRound(ctx, session.ID)
	if err != nil {
		t.Fatalf("GenerateRound failed: %v", err)
	}
	if detail.Round.RoundIndex != 0 {
		t.Fatalf("round index = %d, want 0", detail.Round.RoundIndex)
	}
	if len(detail.Questions) != 4 {
		t.Fatalf("expected 4 questions (2 categories x 2), got %d", len(detail.Questions))
	}
	if detail.Questions[0].QuestionText != "[fundamentals] fundamentals question 1?" {
		t.Fatalf("unexpected merged question text: %q", detail.Questions[0].QuestionText)
	}

	wantKey := objectstore.QuestionsKey(room.ID, session.ID, 0)
	if detail.Round.QuestionsObject != wantKey {
		t.Fatalf("questions object = %q, want %q", detail.Round.QuestionsObject, wantKey)
	}
	var payload interview.RoundPayload
	if err := f.objects.GetJSON(ctx, wantKey, &payload); err != nil {
		t.Fatalf("round payload not uploaded: %v", err)
	}
	if payload.RoundID != detail.Round.ID || len(payload.Questions) != 4 {
		t.Fatalf("unexpected payload: %#v", payload)
	}
	if len(payload.Categorized["fundamentals"]) != 2 {
		t.Fatalf("categorized map incomplete: %#v", payload.Categorized)
	}
}

func TestGenerateRoundFailsWithoutQuestions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room := f.roomWithResume(t)
	session, err := f.svc.CreateSession(ctx, room.ID, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	f.gen.err = errors.New("model offline")
	if _, err := f.svc.GenerateRound(ctx, session.ID); err == nil {
		t.Fatal("expected generation failure to propagate")
	}
}

func TestAnswerFlowAndCompletionGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room := f.roomWithResume(t)
	session, err := f.svc.CreateSession(ctx, room.ID, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	detail, err := f.svc.GenerateRound(ctx, session.ID)
	if err != nil {
		t.Fatalf("GenerateRound failed: %v", err)
	}
	roundID := detail.Round.ID

	// Completion is gated until every question is answered and the Q&A
	// document exists.
	if _, err := f.svc.CompleteRound(ctx, session.ID, 0); !errors.Is(err, interview.ErrAnalysisMissing) {
		t.Fatalf("expected ErrAnalysisMissing, got %v", err)
	}

	for {
		current, err := f.svc.NextQuestion(ctx, roundID)
		if errors.Is(err, interview.ErrQuestionNotFound) {
			break
		}
		if err != nil {
			t.Fatalf("NextQuestion failed: %v", err)
		}
		answer := fmt.Sprintf("answer to %d", current.Question.QuestionIndex)
		if _, err := f.svc.SaveAnswer(ctx, roundID, current.Question.QuestionIndex, answer); err != nil {
			t.Fatalf("SaveAnswer failed: %v", err)
		}
	}

	var doc interview.AnalysisDoc
	analysisKey := objectstore.AnalysisKey(room.ID, session.ID, 0)
	if err := f.objects.GetJSON(ctx, analysisKey, &doc); err != nil {
		t.Fatalf("analysis document not uploaded: %v", err)
	}
	if len(doc.Items) != 4 || doc.Items[0].Answer == "" {
		t.Fatalf("unexpected analysis doc: %#v", doc)
	}

	completed, err := f.svc.CompleteRound(ctx, session.ID, 0)
	if err != nil {
		t.Fatalf("CompleteRound failed: %v", err)
	}
	if completed.Status != store.StatusCompleted {
		t.Fatalf("round status = %q", completed.Status)
	}

	sessionDetail, err := f.svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if sessionDetail.Session.Status != store.StatusCompleted {
		t.Fatalf("session should complete with its only round, got %q", sessionDetail.Session.Status)
	}

	// Idempotent confirmation.
	if _, err := f.svc.CompleteRound(ctx, session.ID, 0); err != nil {
		t.Fatalf("repeat CompleteRound failed: %v", err)
	}

	fetched, err := f.svc.Analysis(ctx, session.ID, 0)
	if err != nil {
		t.Fatalf("Analysis failed: %v", err)
	}
	if fetched.RoundID != roundID {
		t.Fatalf("analysis round id = %q, want %q", fetched.RoundID, roundID)
	}
}

func TestDeleteRoomRemovesObjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room := f.roomWithResume(t)
	session, err := f.svc.CreateSession(ctx, room.ID, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if _, err := f.svc.GenerateRound(ctx, session.ID); err != nil {
		t.Fatalf("GenerateRound failed: %v", err)
	}

	if err := f.svc.DeleteRoom(ctx, room.ID); err != nil {
		t.Fatalf("DeleteRoom failed: %v", err)
	}

	keys, err := f.objects.List(ctx, objectstore.RoomPrefix(room.ID))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("room objects should be gone, got %v", keys)
	}
	if _, err := f.svc.GetRoom(ctx, room.ID); !errors.Is(err, interview.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestAttachJDRecordsID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room := f.roomWithResume(t)
	jd, err := f.svc.AttachJD(ctx, room.ID, "Senior Go engineer, payments team.")
	if err != nil {
		t.Fatalf("AttachJD failed: %v", err)
	}
	if jd.ID == "" {
		t.Fatal("expected jd id")
	}

	view, err := f.svc.GetRoom(ctx, room.ID)
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if view.Room.JDID != jd.ID {
		t.Fatalf("room jd id = %q, want %q", view.Room.JDID, jd.ID)
	}
	if !view.HasResume {
		t.Fatal("expected résumé flag set")
	}

	var stored interview.JobDescription
	if err := f.objects.GetJSON(ctx, objectstore.JDKey(room.ID), &stored); err != nil {
		t.Fatalf("jd object missing: %v", err)
	}
	if stored.Text == "" {
		t.Fatalf("unexpected jd doc: %#v", stored)
	}
}

func TestGetResumeMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.svc.CreateRoom(ctx, "Empty")
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if _, err := f.svc.GetResume(ctx, room.ID); !errors.Is(err, interview.ErrResumeNotFound) {
		t.Fatalf("expected ErrResumeNotFound, got %v", err)
	}
}
