package server

import (
	"time"

	"interviewer/internal/interview"
	"interviewer/internal/store"
)

type roomView struct {
	ID        string `json:"id"`
	MemoryID  string `json:"memory_id"`
	Name      string `json:"name"`
	JDID      string `json:"jd_id,omitempty"`
	HasResume bool   `json:"has_resume"`
	Sessions  int    `json:"session_count"`
	Rounds    int    `json:"round_count"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type sessionView struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Rounds    int    `json:"round_count"`
	Questions int    `json:"question_count"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type sessionDetailView struct {
	sessionView
	RoundDetails []roundView `json:"rounds"`
}

type roundView struct {
	ID              string         `json:"id"`
	SessionID       string         `json:"session_id"`
	RoundIndex      int            `json:"round_index"`
	QuestionsCount  int            `json:"questions_count"`
	QuestionsObject string         `json:"questions_object,omitempty"`
	RoundType       string         `json:"round_type"`
	CurrentQuestion int            `json:"current_question_index"`
	Status          string         `json:"status"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at"`
	Questions       []questionView `json:"questions,omitempty"`
}

type questionView struct {
	ID            string `json:"id"`
	RoundID       string `json:"round_id"`
	QuestionIndex int    `json:"question_index"`
	Question      string `json:"question"`
	Answer        string `json:"answer,omitempty"`
	Category      string `json:"category,omitempty"`
	Answered      bool   `json:"answered"`
	UpdatedAt     string `json:"updated_at"`
}

type currentQuestionView struct {
	Round     roundView    `json:"round"`
	Question  questionView `json:"question"`
	Remaining int          `json:"remaining"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func roomToView(view *interview.RoomView) roomView {
	room := view.Room
	return roomView{
		ID:        room.ID,
		MemoryID:  room.MemoryID,
		Name:      room.Name,
		JDID:      room.JDID,
		HasResume: view.HasResume,
		Sessions:  view.Counts.Sessions,
		Rounds:    view.Counts.Rounds,
		CreatedAt: formatTime(room.CreatedAt),
		UpdatedAt: formatTime(room.UpdatedAt),
	}
}

func sessionToView(session *store.Session, counts store.SessionCounts) sessionView {
	return sessionView{
		ID:        session.ID,
		RoomID:    session.RoomID,
		Name:      session.Name,
		Status:    string(session.Status),
		Rounds:    counts.Rounds,
		Questions: counts.Questions,
		CreatedAt: formatTime(session.CreatedAt),
		UpdatedAt: formatTime(session.UpdatedAt),
	}
}

func roundToView(round *store.Round, questions []*store.QuestionAnswer) roundView {
	view := roundView{
		ID:              round.ID,
		SessionID:       round.SessionID,
		RoundIndex:      round.RoundIndex,
		QuestionsCount:  round.QuestionsCount,
		QuestionsObject: round.QuestionsObject,
		RoundType:       string(round.RoundType),
		CurrentQuestion: round.CurrentQuestionIndex,
		Status:          string(round.Status),
		CreatedAt:       formatTime(round.CreatedAt),
		UpdatedAt:       formatTime(round.UpdatedAt),
	}
	for _, question := range questions {
		view.Questions = append(view.Questions, questionToView(question))
	}
	return view
}

func questionToView(question *store.QuestionAnswer) questionView {
	return questionView{
		ID:            question.ID,
		RoundID:       question.RoundID,
		QuestionIndex: question.QuestionIndex,
		Question:      question.QuestionText,
		Answer:        question.AnswerText,
		Category:      question.Category,
		Answered:      question.Answered,
		UpdatedAt:     formatTime(question.UpdatedAt),
	}
}
