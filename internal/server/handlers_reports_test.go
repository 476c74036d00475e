package server_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func answerWholeRound(t *testing.T, ts *httptest.Server, roundID string, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		resp, env := doJSON(t, http.MethodPost, ts.URL+"/api/rounds/"+roundID+"/answers", map[string]any{
			"question_index": i,
			"answer":         fmt.Sprintf("answer %d", i),
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("save answer %d: %d %+v", i, resp.StatusCode, env)
		}
	}
}

func TestReportLifecycle(t *testing.T) {
	ts := newTestServer(t)

	roomID := createRoom(t, ts, "Report Hire")
	putResume(t, ts, roomID)
	sessionID := createSession(t, ts, roomID)

	reportURL := ts.URL + "/api/sessions/" + sessionID + "/rounds/0/report"

	resp, env := doJSON(t, http.MethodPost, ts.URL+"/api/sessions/"+sessionID+"/rounds", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("generate round: %d %+v", resp.StatusCode, env)
	}
	var round struct {
		ID             string `json:"id"`
		QuestionsCount int    `json:"questions_count"`
	}
	unmarshalData(t, env, &round)

	// The completed Q&A record gates report generation.
	resp, env = doJSON(t, http.MethodPost, reportURL, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("report before answers: %d %+v", resp.StatusCode, env)
	}

	// Fetching before generating is a 404.
	resp, _ = doJSON(t, http.MethodGet, reportURL, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get report before generation: %d", resp.StatusCode)
	}

	answerWholeRound(t, ts, round.ID, round.QuestionsCount)

	resp, env = doJSON(t, http.MethodPost, reportURL, nil)
	if resp.StatusCode != http.StatusCreated || !env.Success {
		t.Fatalf("generate report: %d %+v", resp.StatusCode, env)
	}
	var report struct {
		ReportID       string  `json:"report_id"`
		OverallGrade   string  `json:"overall_grade"`
		TotalScore     float64 `json:"total_score"`
		TotalQuestions int     `json:"total_questions"`
		Evaluation     struct {
			Summary string `json:"summary"`
		} `json:"evaluation"`
	}
	unmarshalData(t, env, &report)
	if report.ReportID == "" || report.OverallGrade != "A+" || report.TotalScore != 9 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.TotalQuestions != round.QuestionsCount {
		t.Fatalf("report covers %d questions, want %d", report.TotalQuestions, round.QuestionsCount)
	}
	if report.Evaluation.Summary == "" {
		t.Fatal("report missing evaluation summary")
	}

	resp, env = doJSON(t, http.MethodGet, reportURL, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get report: %d %+v", resp.StatusCode, env)
	}
	var fetched struct {
		ReportID string `json:"report_id"`
	}
	unmarshalData(t, env, &fetched)
	if fetched.ReportID != report.ReportID {
		t.Fatalf("fetched report id = %q, want %q", fetched.ReportID, report.ReportID)
	}

	// Unknown sessions are a 404 rather than a conflict.
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/sessions/00000000-0000-0000-0000-000000000000/rounds/0/report", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("report for unknown session: %d", resp.StatusCode)
	}
}
