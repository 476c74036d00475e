package server

import (
	"net/http"

	"interviewer/internal/store"
)

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	roomID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	sessions, err := s.svc.ListSessions(r.Context(), roomID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	views := make([]sessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, sessionToView(session.Session, session.Counts))
	}
	s.writeData(w, http.StatusOK, map[string]any{"sessions": views, "total": len(views)})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	roomID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	session, err := s.svc.CreateSession(r.Context(), roomID, req.Name)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeData(w, http.StatusCreated, sessionToView(session, store.SessionCounts{}))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	detail, err := s.svc.GetSession(r.Context(), sessionID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	counts := store.SessionCounts{Rounds: len(detail.Rounds)}
	for _, round := range detail.Rounds {
		counts.Questions += round.Round.QuestionsCount
	}
	view := sessionDetailView{
		sessionView:  sessionToView(detail.Session, counts),
		RoundDetails: []roundView{},
	}
	for _, round := range detail.Rounds {
		view.RoundDetails = append(view.RoundDetails, roundToView(round.Round, round.Questions))
	}
	s.writeData(w, http.StatusOK, view)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.DeleteSession(r.Context(), sessionID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, map[string]string{"deleted": sessionID})
}
