package server

import (
	"net/http"
	"strings"

	"interviewer/internal/logging"
)

func (s *Server) handleListRounds(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	detail, err := s.svc.GetSession(r.Context(), sessionID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	views := make([]roundView, 0, len(detail.Rounds))
	for _, round := range detail.Rounds {
		views = append(views, roundToView(round.Round, nil))
	}
	s.writeData(w, http.StatusOK, map[string]any{"rounds": views, "total": len(views)})
}

func (s *Server) handleGenerateRound(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	detail, err := s.svc.GenerateRound(r.Context(), sessionID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeData(w, http.StatusCreated, roundToView(detail.Round, detail.Questions))
}

func (s *Server) handleCompleteRound(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	index, ok := s.pathIndex(w, r, "index")
	if !ok {
		return
	}
	if key := strings.TrimSpace(r.Header.Get("Idempotency-Key")); key != "" {
		s.logger.Info("round completion requested",
			logging.String("session_id", sessionID),
			logging.Int("round_index", index),
			logging.String("idempotency_key", key))
	}
	round, err := s.svc.CompleteRound(r.Context(), sessionID, index)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, roundToView(round, nil))
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	index, ok := s.pathIndex(w, r, "index")
	if !ok {
		return
	}
	doc, err := s.svc.Analysis(r.Context(), sessionID, index)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, doc)
}

func (s *Server) handleCurrentQuestion(w http.ResponseWriter, r *http.Request) {
	roundID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	current, err := s.svc.NextQuestion(r.Context(), roundID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, currentQuestionView{
		Round:     roundToView(current.Round, nil),
		Question:  questionToView(current.Question),
		Remaining: current.Remaining,
	})
}

func (s *Server) handleSaveAnswer(w http.ResponseWriter, r *http.Request) {
	roundID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		QuestionIndex int    `json:"question_index"`
		Answer        string `json:"answer"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	saved, err := s.svc.SaveAnswer(r.Context(), roundID, req.QuestionIndex, req.Answer)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, questionToView(saved))
}
