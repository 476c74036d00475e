package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-success envelope returned by the daemon.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("daemon returned HTTP %d", e.StatusCode)
	}
	return e.Message
}

// IsNotFound reports whether err is a 404 from the daemon.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to a running interviewer daemon.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithToken sends the given bearer token with every request. Required when
// the daemon is configured with an api_token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// New builds a client for the given daemon address. The address may be a
// host:port pair or a full http URL.
func New(address string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, errors.New("daemon address is required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse daemon address: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("daemon address %q has no host", address)
	}
	client := &Client{
		base: strings.TrimRight(parsed.String(), "/"),
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapDialError(err, c.base)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode daemon response: %w", err)
	}
	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode daemon payload: %w", err)
		}
	}
	return nil
}

func wrapDialError(err error, base string) error {
	var netErr *net.OpError
	if errors.As(err, &netErr) && errors.Is(netErr.Err, syscall.ECONNREFUSED) {
		return fmt.Errorf("connect to daemon at %s: connection refused; start it with `interviewerd`", base)
	}
	return fmt.Errorf("connect to daemon: %w", err)
}

// Status fetches the daemon status snapshot.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var status Status
	err := c.do(ctx, http.MethodGet, "/api/status", nil, &status)
	return status, err
}

// StorageHealth probes the object storage backend.
func (c *Client) StorageHealth(ctx context.Context) (StorageHealth, error) {
	var health StorageHealth
	err := c.do(ctx, http.MethodGet, "/api/storage/health", nil, &health)
	return health, err
}

// ListRooms returns all rooms, newest first.
func (c *Client) ListRooms(ctx context.Context) ([]Room, error) {
	var payload struct {
		Rooms []Room `json:"rooms"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/rooms", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Rooms, nil
}

// CreateRoom creates a room with an optional display name.
func (c *Client) CreateRoom(ctx context.Context, name string) (Room, error) {
	var room Room
	err := c.do(ctx, http.MethodPost, "/api/rooms", map[string]string{"name": name}, &room)
	return room, err
}

// GetRoom fetches one room by id.
func (c *Client) GetRoom(ctx context.Context, roomID string) (Room, error) {
	var room Room
	err := c.do(ctx, http.MethodGet, "/api/rooms/"+url.PathEscape(roomID), nil, &room)
	return room, err
}

// DeleteRoom removes a room and everything beneath it.
func (c *Client) DeleteRoom(ctx context.Context, roomID string) error {
	return c.do(ctx, http.MethodDelete, "/api/rooms/"+url.PathEscape(roomID), nil, nil)
}

// PutResume attaches a candidate resume to a room.
func (c *Client) PutResume(ctx context.Context, roomID string, resume Resume) error {
	return c.do(ctx, http.MethodPut, "/api/rooms/"+url.PathEscape(roomID)+"/resume", resume, nil)
}

// GetResume fetches the resume attached to a room.
func (c *Client) GetResume(ctx context.Context, roomID string) (Resume, error) {
	var resume Resume
	err := c.do(ctx, http.MethodGet, "/api/rooms/"+url.PathEscape(roomID)+"/resume", nil, &resume)
	return resume, err
}

// PutJD attaches a job description to a room.
func (c *Client) PutJD(ctx context.Context, roomID, text string) (JobDescription, error) {
	var jd JobDescription
	err := c.do(ctx, http.MethodPut, "/api/rooms/"+url.PathEscape(roomID)+"/jd", map[string]string{"text": text}, &jd)
	return jd, err
}

// ListSessions returns a room's sessions, newest first.
func (c *Client) ListSessions(ctx context.Context, roomID string) ([]Session, error) {
	var payload struct {
		Sessions []Session `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/rooms/"+url.PathEscape(roomID)+"/sessions", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Sessions, nil
}

// CreateSession starts a session in a room. The room must have a resume.
func (c *Client) CreateSession(ctx context.Context, roomID, name string) (Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/api/rooms/"+url.PathEscape(roomID)+"/sessions", map[string]string{"name": name}, &session)
	return session, err
}

// GetSession fetches a session with its rounds and questions.
func (c *Client) GetSession(ctx context.Context, sessionID string) (SessionDetail, error) {
	var detail SessionDetail
	err := c.do(ctx, http.MethodGet, "/api/sessions/"+url.PathEscape(sessionID), nil, &detail)
	return detail, err
}

// DeleteSession removes a session and its rounds.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/sessions/"+url.PathEscape(sessionID), nil, nil)
}

// GenerateRound asks the daemon to generate a new question round.
func (c *Client) GenerateRound(ctx context.Context, sessionID string) (Round, error) {
	var round Round
	err := c.do(ctx, http.MethodPost, "/api/sessions/"+url.PathEscape(sessionID)+"/rounds", nil, &round)
	return round, err
}

// CurrentQuestion returns the next unanswered question in a round.
func (c *Client) CurrentQuestion(ctx context.Context, roundID string) (CurrentQuestion, error) {
	var current CurrentQuestion
	err := c.do(ctx, http.MethodGet, "/api/rounds/"+url.PathEscape(roundID)+"/question", nil, &current)
	return current, err
}

// SaveAnswer records the answer for one question and advances the cursor.
func (c *Client) SaveAnswer(ctx context.Context, roundID string, questionIndex int, answer string) (Question, error) {
	var question Question
	body := map[string]any{"question_index": questionIndex, "answer": answer}
	err := c.do(ctx, http.MethodPost, "/api/rounds/"+url.PathEscape(roundID)+"/answers", body, &question)
	return question, err
}

// CompleteRound marks a round complete once its analysis record exists.
func (c *Client) CompleteRound(ctx context.Context, sessionID string, roundIndex int) (Round, error) {
	var round Round
	path := fmt.Sprintf("/api/sessions/%s/rounds/%d/complete", url.PathEscape(sessionID), roundIndex)
	err := c.do(ctx, http.MethodPost, path, nil, &round)
	return round, err
}

// Analysis fetches the completed question/answer record for a round.
func (c *Client) Analysis(ctx context.Context, sessionID string, roundIndex int) (Analysis, error) {
	var analysis Analysis
	path := fmt.Sprintf("/api/sessions/%s/rounds/%d/analysis", url.PathEscape(sessionID), roundIndex)
	err := c.do(ctx, http.MethodGet, path, nil, &analysis)
	return analysis, err
}

// GenerateReport asks the daemon to evaluate a completed round and store the
// resulting report. The round's Q&A record must exist.
func (c *Client) GenerateReport(ctx context.Context, sessionID string, roundIndex int) (Report, error) {
	var report Report
	path := fmt.Sprintf("/api/sessions/%s/rounds/%d/report", url.PathEscape(sessionID), roundIndex)
	err := c.do(ctx, http.MethodPost, path, nil, &report)
	return report, err
}

// GetReport fetches a previously generated evaluation report.
func (c *Client) GetReport(ctx context.Context, sessionID string, roundIndex int) (Report, error) {
	var report Report
	path := fmt.Sprintf("/api/sessions/%s/rounds/%d/report", url.PathEscape(sessionID), roundIndex)
	err := c.do(ctx, http.MethodGet, path, nil, &report)
	return report, err
}
