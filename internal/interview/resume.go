package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"interviewer/internal/logging"
	"interviewer/internal/objectstore"
)

// Resume is the structured résumé document stored per room. Document parsing
// happens upstream; the API accepts the parsed form.
type Resume struct {
	Name       string          `json:"name"`
	Position   string          `json:"position,omitempty"`
	Summary    string          `json:"summary,omitempty"`
	Skills     []string        `json:"skills,omitempty"`
	Projects   []ResumeProject `json:"projects,omitempty"`
	RawText    string          `json:"raw_text,omitempty"`
	UploadedAt time.Time       `json:"uploaded_at,omitempty"`
}

// ResumeProject describes one project entry on a résumé.
type ResumeProject struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// PromptText renders the résumé as plain text for the question prompts.
func (r Resume) PromptText() string {
	var b strings.Builder
	if r.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", r.Name)
	}
	if r.Position != "" {
		fmt.Fprintf(&b, "Target position: %s\n", r.Position)
	}
	if r.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", r.Summary)
	}
	if len(r.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(r.Skills, ", "))
	}
	for _, project := range r.Projects {
		fmt.Fprintf(&b, "Project: %s", project.Name)
		if project.Description != "" {
			fmt.Fprintf(&b, " - %s", project.Description)
		}
		if len(project.Technologies) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(project.Technologies, ", "))
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 && r.RawText != "" {
		return strings.TrimSpace(r.RawText)
	}
	return strings.TrimSpace(b.String())
}

// SaveResume stores the room's résumé document, replacing any previous one.
func (s *Service) SaveResume(ctx context.Context, roomID string, resume Resume) error {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}
	if resume.PromptText() == "" {
		return fmt.Errorf("%w: resume has no usable content", ErrInvalidInput)
	}
	resume.UploadedAt = time.Now().UTC()

	key := objectstore.ResumeKey(roomID)
	if err := s.objects.PutJSON(ctx, key, resume); err != nil {
		return fmt.Errorf("store resume: %w", err)
	}
	s.logger.Info("resume stored",
		logging.String("room_id", roomID),
		logging.String("key", key))
	return nil
}

// GetResume fetches the room's résumé document.
func (s *Service) GetResume(ctx context.Context, roomID string) (*Resume, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	var resume Resume
	if err := s.objects.GetJSON(ctx, objectstore.ResumeKey(roomID), &resume); err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("load resume: %w", err)
	}
	return &resume, nil
}

func (s *Service) resumeExists(ctx context.Context, roomID string) (bool, error) {
	return s.objects.Exists(ctx, objectstore.ResumeKey(roomID))
}
