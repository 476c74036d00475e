package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"interviewer/internal/config"
)

const userAgent = "Interviewer-Go/0.1.0"

// Service defines the notification surface exposed to domain components.
type Service interface {
	NotifyRoundGenerated(ctx context.Context, roomName, sessionName string, roundIndex, questionCount int) error
	NotifyRoundCompleted(ctx context.Context, roomName, sessionName string, roundIndex int) error
	NotifySessionCompleted(ctx context.Context, roomName, sessionName string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
		rounds:   cfg.Notifications.Rounds,
		sessions: cfg.Notifications.Sessions,
		errors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	rounds   bool
	sessions bool
	errors   bool
}

func (n *ntfyService) NotifyRoundGenerated(ctx context.Context, roomName, sessionName string, roundIndex, questionCount int) error {
	if !n.rounds {
		return nil
	}
	roomName = strings.TrimSpace(roomName)
	sessionName = strings.TrimSpace(sessionName)
	data := payload{
		title:   "Interviewer - Round Ready",
		message: fmt.Sprintf("Round %d generated for %s / %s (%d questions)", roundIndex+1, roomName, sessionName, questionCount),
		tags:    []string{"interviewer", "round", "generated"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRoundCompleted(ctx context.Context, roomName, sessionName string, roundIndex int) error {
	if !n.rounds {
		return nil
	}
	roomName = strings.TrimSpace(roomName)
	sessionName = strings.TrimSpace(sessionName)
	data := payload{
		title:   "Interviewer - Round Complete",
		message: fmt.Sprintf("Round %d completed for %s / %s", roundIndex+1, roomName, sessionName),
		tags:    []string{"interviewer", "round", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySessionCompleted(ctx context.Context, roomName, sessionName string) error {
	if !n.sessions {
		return nil
	}
	roomName = strings.TrimSpace(roomName)
	sessionName = strings.TrimSpace(sessionName)
	data := payload{
		title:    "Interviewer - Session Complete",
		message:  fmt.Sprintf("Session finished: %s / %s", roomName, sessionName),
		tags:     []string{"interviewer", "session", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Interviewer - Error",
		message:  builder.String(),
		tags:     []string{"interviewer", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Interviewer - Test",
		message:  "Notification system test",
		tags:     []string{"interviewer", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRoundGenerated(context.Context, string, string, int, int) error { return nil }
func (noopService) NotifyRoundCompleted(context.Context, string, string, int) error      { return nil }
func (noopService) NotifySessionCompleted(context.Context, string, string) error         { return nil }
func (noopService) NotifyError(context.Context, error, string) error                     { return nil }
func (noopService) TestNotification(context.Context) error                               { return nil }
