package store

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a session or round.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
)

var statusSet = map[Status]struct{}{
	StatusActive:    {},
	StatusCompleted: {},
	StatusPaused:    {},
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	_, ok := statusSet[normalized]
	return normalized, ok
}

// RoundType distinguishes generated rounds from manually entered ones.
type RoundType string

const (
	RoundTypeGenerated RoundType = "ai_generated"
	RoundTypeManual    RoundType = "manual"
)

// Room is an interview room binding a candidate résumé to its sessions.
type Room struct {
	ID        string
	MemoryID  string
	Name      string
	JDID      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session is a single interview run inside a room.
type Session struct {
	ID        string
	RoomID    string
	Name      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Round is one generated batch of questions inside a session. The question
// payload itself lives in object storage under QuestionsObject.
type Round struct {
	ID                   string
	SessionID            string
	RoundIndex           int
	QuestionsCount       int
	QuestionsObject      string
	RoundType            RoundType
	CurrentQuestionIndex int
	Status               Status
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// QuestionAnswer is a single question in a round plus the candidate's answer.
type QuestionAnswer struct {
	ID            string
	RoundID       string
	QuestionIndex int
	QuestionText  string
	AnswerText    string
	Category      string
	Answered      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RoomCounts aggregates per-room child counts for presentation.
type RoomCounts struct {
	Sessions int
	Rounds   int
}

// SessionCounts aggregates per-session child counts for presentation.
type SessionCounts struct {
	Rounds    int
	Questions int
}

// Stats aggregates system-wide totals for the status endpoint.
type Stats struct {
	Rooms     int
	Sessions  int
	Rounds    int
	Questions int
}

// DatabaseHealth captures diagnostic information about the database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	IntegrityCheck   bool
	Error            string
}
