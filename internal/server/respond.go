package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"interviewer/internal/interview"
	"interviewer/internal/logging"
)

// envelope is the uniform response body for every API endpoint.
type envelope struct {
	Success   bool   `json:"success"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) writeData(w http.ResponseWriter, status int, data any) {
	s.writeEnvelope(w, status, envelope{
		Success: status < http.StatusBadRequest,
		Code:    status,
		Message: http.StatusText(status),
		Data:    data,
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeEnvelope(w, status, envelope{
		Success: false,
		Code:    status,
		Message: message,
	})
}

func (s *Server) writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	env.Timestamp = time.Now().UTC().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

// writeDomainError maps interview sentinel errors onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrRoomNotFound),
		errors.Is(err, interview.ErrSessionNotFound),
		errors.Is(err, interview.ErrRoundNotFound),
		errors.Is(err, interview.ErrQuestionNotFound),
		errors.Is(err, interview.ErrResumeNotFound),
		errors.Is(err, interview.ErrReportMissing):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, interview.ErrResumeRequired),
		errors.Is(err, interview.ErrInvalidInput):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, interview.ErrAnalysisMissing):
		s.writeError(w, http.StatusConflict, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// pathUUID extracts and validates a UUID path value. A false return means
// the response has been written.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := r.PathValue(name)
	if _, err := uuid.Parse(value); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid "+name)
		return "", false
	}
	return value, true
}

// pathIndex extracts a non-negative integer path value.
func (s *Server) pathIndex(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	value, err := strconv.Atoi(r.PathValue(name))
	if err != nil || value < 0 {
		s.writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return value, true
}

// decodeBody decodes a JSON request body into out, rejecting fields the
// target does not declare. A false return means the response has been
// written.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return s.finishDecode(w, decoder.Decode(out))
}

// decodeBodyLenient decodes a JSON request body into out, ignoring unknown
// fields. Used for documents whose shape the caller controls, such as
// uploaded resumes.
func (s *Server) decodeBodyLenient(w http.ResponseWriter, r *http.Request, out any) bool {
	return s.finishDecode(w, json.NewDecoder(r.Body).Decode(out))
}

func (s *Server) finishDecode(w http.ResponseWriter, err error) bool {
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
