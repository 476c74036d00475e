package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"interviewer/internal/config"
	"interviewer/internal/interview"
	"interviewer/internal/logging"
	"interviewer/internal/objectstore"
	"interviewer/internal/server"
	"interviewer/internal/services/llm"
	"interviewer/internal/testsupport"
)

type fakeGenerator struct{}

func (fakeGenerator) GenerateQuestions(_ context.Context, _ string, categories []string, count int) ([]llm.Question, error) {
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

func (fakeGenerator) EvaluateAnswers(_ context.Context, sessionName string, pairs []llm.QA) (*llm.Evaluation, error) {
	reviews := make([]llm.QuestionReview, 0, len(pairs))
	for i := range pairs {
		reviews = append(reviews, llm.QuestionReview{QuestionIndex: i + 1, KeyPoints: "fundamentals"})
	}
	return &llm.Evaluation{
		Summary:     "good round in " + sessionName,
		Suggestions: "more detail",
		Scores: llm.EvaluationScores{
			ContentCompleteness: 9,
			HighlightProminence: 9,
			LogicalClarity:      9,
			ExpressionAbility:   9,
			PositionMatching:    9,
		},
		Questions: reviews,
	}, nil
}

type envelope struct {
	Success   bool            `json:"success"`
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWith(t, nil, nil)
}

func newTestServerWith(t *testing.T, mutate func(*config.Config), checker server.HealthChecker) *httptest.Server {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if mutate != nil {
		mutate(cfg)
	}
	st := testsupport.MustOpenStore(t, cfg)
	objects, err := objectstore.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("objectstore.New failed: %v", err)
	}
	svc := interview.New(cfg, st, objects, fakeGenerator{}, nil, logging.NewNop())
	srv := server.New(cfg, svc, st, objects, checker, logging.NewNop())
	if srv == nil {
		t.Fatal("server.New returned nil")
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, env
}

func unmarshalData(t *testing.T, env envelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func createRoom(t *testing.T, ts *httptest.Server, name string) string {
	t.Helper()
	resp, env := doJSON(t, http.MethodPost, ts.URL+"/api/rooms", map[string]string{"name": name})
	if resp.StatusCode != http.StatusCreated || !env.Success {
		t.Fatalf("create room: status=%d env=%+v", resp.StatusCode, env)
	}
	var room struct {
		ID       string `json:"id"`
		MemoryID string `json:"memory_id"`
	}
	unmarshalData(t, env, &room)
	if room.ID == "" || room.MemoryID == "" {
		t.Fatalf("room missing ids: %+v", room)
	}
	return room.ID
}

func putResume(t *testing.T, ts *httptest.Server, roomID string) {
	t.Helper()
	resume := map[string]any{
		"name":     "Ada",
		"position": "Backend Engineer",
		"skills":   []string{"Go", "SQL"},
	}
	resp, env := doJSON(t, http.MethodPut, ts.URL+"/api/rooms/"+roomID+"/resume", resume)
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("put resume: status=%d env=%+v", resp.StatusCode, env)
	}
}

func createSession(t *testing.T, ts *httptest.Server, roomID string) string {
	t.Helper()
	resp, env := doJSON(t, http.MethodPost, ts.URL+"/api/rooms/"+roomID+"/sessions", map[string]string{})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: status=%d env=%+v", resp.StatusCode, env)
	}
	var session struct {
		ID string `json:"id"`
	}
	unmarshalData(t, env, &session)
	return session.ID
}

func TestStatusEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, env := doJSON(t, http.MethodGet, ts.URL+"/api/status", nil)
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("status: %d %+v", resp.StatusCode, env)
	}
	var status struct {
		Running  bool `json:"running"`
		Database struct {
			Readable bool `json:"readable"`
		} `json:"database"`
	}
	unmarshalData(t, env, &status)
	if !status.Running || !status.Database.Readable {
		t.Fatalf("unexpected status payload: %s", env.Data)
	}
	if env.Timestamp == "" {
		t.Fatal("envelope missing timestamp")
	}
}

func TestRoomLifecycle(t *testing.T) {
	ts := newTestServer(t)

	roomID := createRoom(t, ts, "Backend Hire")

	resp, env := doJSON(t, http.MethodGet, ts.URL+"/api/rooms", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list rooms: %d", resp.StatusCode)
	}
	var list struct {
		Total int `json:"total"`
	}
	unmarshalData(t, env, &list)
	if list.Total != 1 {
		t.Fatalf("expected 1 room, got %d", list.Total)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/rooms/not-a-uuid", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid uuid should 400, got %d", resp.StatusCode)
	}

	resp, env = doJSON(t, http.MethodDelete, ts.URL+"/api/rooms/"+roomID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete room: %d %+v", resp.StatusCode, env)
	}

	resp, env = doJSON(t, http.MethodGet, ts.URL+"/api/rooms/"+roomID, nil)
	if resp.StatusCode != http.StatusNotFound || env.Success {
		t.Fatalf("deleted room should 404, got %d %+v", resp.StatusCode, env)
	}
}

func TestSessionRequiresResume(t *testing.T) {
	ts := newTestServer(t)

	roomID := createRoom(t, ts, "No Resume")
	resp, env := doJSON(t, http.MethodPost, ts.URL+"/api/rooms/"+roomID+"/sessions", map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without resume, got %d %+v", resp.StatusCode, env)
	}
	if env.Message != "resume required" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestInterviewFlow(t *testing.T) {
	ts := newTestServer(t)

	roomID := createRoom(t, ts, "Backend Hire")
	putResume(t, ts, roomID)
	sessionID := createSession(t, ts, roomID)

	// Generate a round.
	resp, env := doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+sessionID+"/rounds", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("generate round: %d %+v", resp.StatusCode, env)
	}
	var round struct {
		ID             string `json:"id"`
		RoundIndex     int    `json:"round_index"`
		QuestionsCount int    `json:"questions_count"`
	}
	unmarshalData(t, env, &round)
	if round.QuestionsCount != 9 {
		t.Fatalf("expected 9 questions (3 categories x 3), got %d", round.QuestionsCount)
	}

	// Completing before answering is rejected.
	resp, env = doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+sessionID+"/rounds/0/complete", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 before answers, got %d %+v", resp.StatusCode, env)
	}
	if env.Message != "qa object missing" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	// Walk the questions.
	for i := 0; i < round.QuestionsCount; i++ {
		resp, env = doJSON(t, http.MethodGet, ts.URL+"/api/rounds/"+round.ID+"/question", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("current question: %d %+v", resp.StatusCode, env)
		}
		var current struct {
			Question struct {
				QuestionIndex int    `json:"question_index"`
				Question      string `json:"question"`
			} `json:"question"`
		}
		unmarshalData(t, env, &current)
		if current.Question.QuestionIndex != i {
			t.Fatalf("expected question %d, got %d", i, current.Question.QuestionIndex)
		}

		resp, env = doJSON(t, http.MethodPost, ts.URL+"/api/rounds/"+round.ID+"/answers", map[string]any{
			"question_index": i,
			"answer":         fmt.Sprintf("answer %d", i),
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("save answer: %d %+v", resp.StatusCode, env)
		}
	}

	// Question cursor is exhausted.
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/rounds/"+round.ID+"/question", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("exhausted round should 404, got %d", resp.StatusCode)
	}

	// Completion now succeeds, and again idempotently.
	for i := 0; i < 2; i++ {
		resp, env = doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+sessionID+"/rounds/0/complete", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("complete round (attempt %d): %d %+v", i+1, resp.StatusCode, env)
		}
	}

	// Session completed with its only round.
	resp, env = doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+sessionID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get session: %d", resp.StatusCode)
	}
	var session struct {
		Status string `json:"status"`
		Rounds []struct {
			Status    string `json:"status"`
			Questions []struct {
				Answered bool `json:"answered"`
			} `json:"questions"`
		} `json:"rounds"`
	}
	unmarshalData(t, env, &session)
	if session.Status != "completed" {
		t.Fatalf("session status = %q", session.Status)
	}
	if len(session.Rounds) != 1 || session.Rounds[0].Status != "completed" {
		t.Fatalf("unexpected rounds: %+v", session.Rounds)
	}
	for _, q := range session.Rounds[0].Questions {
		if !q.Answered {
			t.Fatalf("all questions should be answered: %+v", session.Rounds[0].Questions)
		}
	}

	// Analysis document is served.
	resp, env = doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+sessionID+"/rounds/0/analysis", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get analysis: %d %+v", resp.StatusCode, env)
	}
	var analysis struct {
		Items []struct {
			Answer string `json:"answer"`
		} `json:"items"`
	}
	unmarshalData(t, env, &analysis)
	if len(analysis.Items) != 9 {
		t.Fatalf("expected 9 analysis items, got %d", len(analysis.Items))
	}
}

func TestStorageHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, env := doJSON(t, http.MethodGet, ts.URL+"/api/storage/health", nil)
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("storage health: %d %+v", resp.StatusCode, env)
	}
	var health struct {
		Backend string `json:"backend"`
		Healthy bool   `json:"healthy"`
	}
	unmarshalData(t, env, &health)
	if health.Backend != "local" || !health.Healthy {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestOversizedBodyRejected(t *testing.T) {
	ts := newTestServer(t)
	roomID := createRoom(t, ts, "Limits")

	big := bytes.Repeat([]byte("a"), (1<<20)+1)
	payload := map[string]string{"name": string(big)}
	resp, _ := doJSON(t, http.MethodPut, ts.URL+"/api/rooms/"+roomID+"/resume", payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("oversized body should be rejected, got %d", resp.StatusCode)
	}
}

func TestResumeAcceptsUnknownFields(t *testing.T) {
	ts := newTestServer(t)
	roomID := createRoom(t, ts, "Imported Resume")

	// Resumes exported by other tools carry fields we do not model.
	resume := map[string]any{
		"name":      "Ada",
		"position":  "Backend Engineer",
		"skills":    []string{"Go"},
		"education": []map[string]string{{"school": "ETH", "degree": "MSc"}},
		"contact":   map[string]string{"email": "ada@example.com"},
	}
	resp, env := doJSON(t, http.MethodPut, ts.URL+"/api/rooms/"+roomID+"/resume", resume)
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("resume with extra fields rejected: %d %+v", resp.StatusCode, env)
	}

	resp, env = doJSON(t, http.MethodGet, ts.URL+"/api/rooms/"+roomID+"/resume", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get resume: %d %+v", resp.StatusCode, env)
	}
	var stored struct {
		Name string `json:"name"`
	}
	unmarshalData(t, env, &stored)
	if stored.Name != "Ada" {
		t.Fatalf("stored resume name = %q", stored.Name)
	}

	// Unknown fields elsewhere are still rejected.
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/rooms", map[string]string{"name": "x", "bogus": "y"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown field on create room should 400, got %d", resp.StatusCode)
	}
}

// blockingChecker stalls until its context expires.
type blockingChecker struct{}

func (blockingChecker) HealthCheck(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestStatusLLMProbeBounded(t *testing.T) {
	ts := newTestServerWith(t, nil, blockingChecker{})

	start := time.Now()
	resp, env := doJSON(t, http.MethodGet, ts.URL+"/api/status", nil)
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("status took %v with a stalled model endpoint", elapsed)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d %+v", resp.StatusCode, env)
	}
	var status struct {
		LLM struct {
			Healthy bool   `json:"healthy"`
			Error   string `json:"error"`
		} `json:"llm"`
	}
	unmarshalData(t, env, &status)
	if status.LLM.Healthy || status.LLM.Error == "" {
		t.Fatalf("stalled endpoint should report unhealthy: %+v", status.LLM)
	}
}

// countingChecker records how often it is probed.
type countingChecker struct {
	calls atomic.Int64
}

func (c *countingChecker) HealthCheck(context.Context) error {
	c.calls.Add(1)
	return nil
}

func TestStatusLLMProbeCached(t *testing.T) {
	checker := &countingChecker{}
	ts := newTestServerWith(t, nil, checker)

	for i := 0; i < 3; i++ {
		resp, env := doJSON(t, http.MethodGet, ts.URL+"/api/status", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status: %d %+v", resp.StatusCode, env)
		}
	}
	if got := checker.calls.Load(); got != 1 {
		t.Fatalf("model probed %d times across cached window, want 1", got)
	}
}
