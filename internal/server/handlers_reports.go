package server

import "net/http"

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	index, ok := s.pathIndex(w, r, "index")
	if !ok {
		return
	}
	report, err := s.svc.GenerateReport(r.Context(), sessionID, index)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeData(w, http.StatusCreated, report)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	index, ok := s.pathIndex(w, r, "index")
	if !ok {
		return
	}
	report, err := s.svc.Report(r.Context(), sessionID, index)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, report)
}
