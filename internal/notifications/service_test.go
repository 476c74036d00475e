package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"interviewer/internal/config"
	"interviewer/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyRoundGenerated(context.Background(), "Room", "Session 1", 0, 9); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "round generated",
			notify: func(svc notifications.Service) error {
				return svc.NotifyRoundGenerated(context.Background(), "Backend Hire", "Session 1", 0, 9)
			},
			expectTitle:   "Interviewer - Round Ready",
			expectMessage: "Round 1 generated for Backend Hire / Session 1 (9 questions)",
			expectTags:    "interviewer,round,generated",
		},
		{
			name: "round completed",
			notify: func(svc notifications.Service) error {
				return svc.NotifyRoundCompleted(context.Background(), "Backend Hire", "Session 2", 1)
			},
			expectTitle:   "Interviewer - Round Complete",
			expectMessage: "Round 2 completed for Backend Hire / Session 2",
			expectTags:    "interviewer,round,completed",
		},
		{
			name: "session completed",
			notify: func(svc notifications.Service) error {
				return svc.NotifySessionCompleted(context.Background(), "Backend Hire", "Session 1")
			},
			expectTitle:    "Interviewer - Session Complete",
			expectMessage:  "Session finished: Backend Hire / Session 1",
			expectTags:     "interviewer,session,completed",
			expectPriority: "high",
		},
		{
			name: "error",
			notify: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), io.ErrUnexpectedEOF, "generation")
			},
			expectTitle:    "Interviewer - Error",
			expectMessage:  "Error with generation: unexpected EOF",
			expectTags:     "interviewer,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsEventToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for disabled event: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Rounds = false
	cfg.Notifications.Sessions = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	ctx := context.Background()
	if err := svc.NotifyRoundGenerated(ctx, "Room", "Session 1", 0, 9); err != nil {
		t.Fatalf("disabled round event should be silent, got %v", err)
	}
	if err := svc.NotifySessionCompleted(ctx, "Room", "Session 1"); err != nil {
		t.Fatalf("disabled session event should be silent, got %v", err)
	}
	if err := svc.NotifyError(ctx, io.ErrUnexpectedEOF, "test"); err != nil {
		t.Fatalf("disabled error event should be silent, got %v", err)
	}
}
