package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"interviewer/internal/apiclient"
)

func envelopeHandler(t *testing.T, wantMethod, wantPath string, data any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != wantMethod || r.URL.Path != wantPath {
			t.Errorf("unexpected request %s %s, want %s %s", r.Method, r.URL.Path, wantMethod, wantPath)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"code":      http.StatusOK,
			"message":   "OK",
			"data":      data,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func TestNewRejectsEmptyAddress(t *testing.T) {
	if _, err := apiclient.New("  "); err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestNewAcceptsHostPort(t *testing.T) {
	client, err := apiclient.New("127.0.0.1:7483")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if client == nil {
		t.Fatal("expected client")
	}
}

func TestListRooms(t *testing.T) {
	server := httptest.NewServer(envelopeHandler(t, http.MethodGet, "/api/rooms", map[string]any{
		"rooms": []map[string]any{{"id": "room-1", "name": "Backend Hire"}},
		"total": 1,
	}))
	defer server.Close()

	client, err := apiclient.New(server.URL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rooms, err := client.ListRooms(context.Background())
	if err != nil {
		t.Fatalf("ListRooms failed: %v", err)
	}
	if len(rooms) != 1 || rooms[0].Name != "Backend Hire" {
		t.Fatalf("unexpected rooms: %+v", rooms)
	}
}

func TestCreateRoomSendsName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["name"] != "Platform Team" {
			t.Errorf("name = %q", body["name"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"code":    http.StatusCreated,
			"data":    map[string]string{"id": "room-1", "name": "Platform Team"},
		})
	}))
	defer server.Close()

	client, err := apiclient.New(server.URL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	room, err := client.CreateRoom(context.Background(), "Platform Team")
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if room.ID != "room-1" {
		t.Fatalf("unexpected room: %+v", room)
	}
}

func TestErrorEnvelopeBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"code":    http.StatusNotFound,
			"message": "room not found",
		})
	}))
	defer server.Close()

	client, err := apiclient.New(server.URL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = client.GetRoom(context.Background(), "room-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !apiclient.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if err.Error() != "room not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestCompleteRoundPath(t *testing.T) {
	server := httptest.NewServer(envelopeHandler(t, http.MethodPost, "/api/sessions/sess-1/rounds/2/complete", map[string]any{
		"id": "round-1", "status": "completed",
	}))
	defer server.Close()

	client, err := apiclient.New(server.URL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	round, err := client.CompleteRound(context.Background(), "sess-1", 2)
	if err != nil {
		t.Fatalf("CompleteRound failed: %v", err)
	}
	if round.Status != "completed" {
		t.Fatalf("unexpected round: %+v", round)
	}
}

func TestWithTokenSendsBearerHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sesame" {
			t.Errorf("authorization header = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"code":    http.StatusOK,
			"data":    map[string]any{"running": true},
		})
	}))
	defer server.Close()

	client, err := apiclient.New(server.URL, apiclient.WithToken("sesame"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := client.Status(context.Background()); err != nil {
		t.Fatalf("Status failed: %v", err)
	}
}

func TestGenerateReportPath(t *testing.T) {
	server := httptest.NewServer(envelopeHandler(t, http.MethodPost, "/api/sessions/s1/rounds/2/report", map[string]any{
		"report_id":     "r-1",
		"overall_grade": "B+",
		"total_score":   7.2,
	}))
	defer server.Close()

	client, err := apiclient.New(server.URL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	report, err := client.GenerateReport(context.Background(), "s1", 2)
	if err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}
	if report.ReportID != "r-1" || report.OverallGrade != "B+" {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestGetReportPath(t *testing.T) {
	server := httptest.NewServer(envelopeHandler(t, http.MethodGet, "/api/sessions/s1/rounds/0/report", map[string]any{
		"report_id": "r-2",
	}))
	defer server.Close()

	client, err := apiclient.New(server.URL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	report, err := client.GetReport(context.Background(), "s1", 0)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if report.ReportID != "r-2" {
		t.Fatalf("unexpected report: %+v", report)
	}
}
