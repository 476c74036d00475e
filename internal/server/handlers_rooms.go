package server

import (
	"net/http"

	"interviewer/internal/interview"
)

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.svc.ListRooms(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	views := make([]roomView, 0, len(rooms))
	for _, room := range rooms {
		views = append(views, roomToView(room))
	}
	s.writeData(w, http.StatusOK, map[string]any{"rooms": views, "total": len(views)})
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	room, err := s.svc.CreateRoom(r.Context(), req.Name)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	view, err := s.svc.GetRoom(r.Context(), room.ID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeData(w, http.StatusCreated, roomToView(view))
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	view, err := s.svc.GetRoom(r.Context(), roomID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, roomToView(view))
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.DeleteRoom(r.Context(), roomID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, map[string]string{"deleted": roomID})
}

func (s *Server) handlePutResume(w http.ResponseWriter, r *http.Request) {
	roomID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	// Resumes arrive from arbitrary exporters, so extra fields are allowed.
	var resume interview.Resume
	if !s.decodeBodyLenient(w, r, &resume) {
		return
	}
	if err := s.svc.SaveResume(r.Context(), roomID, resume); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, map[string]string{"room_id": roomID})
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	roomID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	resume, err := s.svc.GetResume(r.Context(), roomID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, resume)
}

func (s *Server) handlePutJD(w http.ResponseWriter, r *http.Request) {
	roomID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	jd, err := s.svc.AttachJD(r.Context(), roomID, req.Text)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, jd)
}
