package server

import (
	"context"
	"net/http"
	"os"
	"time"
)

// The model ping is billable and slow relative to everything else status
// reports, so it runs on a short leash and its result is cached.
const (
	llmHealthTimeout  = 2 * time.Second
	llmHealthCacheTTL = 30 * time.Second
)

type statusResponse struct {
	Running       bool           `json:"running"`
	PID           int            `json:"pid"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Database      databaseStatus `json:"database"`
	Storage       any            `json:"storage"`
	LLM           llmStatus      `json:"llm"`
	Stats         statsView      `json:"stats"`
}

type databaseStatus struct {
	Path           string `json:"path"`
	Exists         bool   `json:"exists"`
	Readable       bool   `json:"readable"`
	IntegrityCheck bool   `json:"integrity_check"`
	Error          string `json:"error,omitempty"`
}

type llmStatus struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

type statsView struct {
	Rooms     int `json:"rooms"`
	Sessions  int `json:"sessions"`
	Rounds    int `json:"rounds"`
	Questions int `json:"questions"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := statusResponse{
		Running:       true,
		PID:           os.Getpid(),
		UptimeSeconds: int64(time.Since(s.startedAt) / time.Second),
	}

	health, err := s.store.CheckHealth(ctx)
	resp.Database = databaseStatus{
		Path:           health.DBPath,
		Exists:         health.DatabaseExists,
		Readable:       health.DatabaseReadable,
		IntegrityCheck: health.IntegrityCheck,
		Error:          health.Error,
	}
	if err != nil && resp.Database.Error == "" {
		resp.Database.Error = err.Error()
	}

	if s.objects != nil {
		resp.Storage = s.objects.Health(ctx)
	}

	resp.LLM = s.llmHealth(ctx)

	if stats, err := s.store.Stats(ctx); err == nil {
		resp.Stats = statsView{
			Rooms:     stats.Rooms,
			Sessions:  stats.Sessions,
			Rounds:    stats.Rounds,
			Questions: stats.Questions,
		}
	}

	s.writeData(w, http.StatusOK, resp)
}

// llmHealth probes the model endpoint, serving a cached result while it is
// fresh. The probe context is bounded so a stalled endpoint cannot hold the
// status response past the server's write timeout.
func (s *Server) llmHealth(ctx context.Context) llmStatus {
	if s.llm == nil {
		return llmStatus{}
	}
	s.llmMu.Lock()
	defer s.llmMu.Unlock()
	if !s.llmCheckedAt.IsZero() && time.Since(s.llmCheckedAt) < llmHealthCacheTTL {
		return s.llmCached
	}

	checkCtx, cancel := context.WithTimeout(ctx, llmHealthTimeout)
	defer cancel()
	var status llmStatus
	if err := s.llm.HealthCheck(checkCtx); err != nil {
		status.Error = err.Error()
	} else {
		status.Healthy = true
	}
	s.llmCheckedAt = time.Now()
	s.llmCached = status
	return status
}

func (s *Server) handleStorageHealth(w http.ResponseWriter, r *http.Request) {
	if s.objects == nil {
		s.writeError(w, http.StatusServiceUnavailable, "object storage not configured")
		return
	}
	health := s.objects.Health(r.Context())
	status := http.StatusOK
	if !health.Healthy {
		status = http.StatusServiceUnavailable
	}
	s.writeData(w, status, health)
}
