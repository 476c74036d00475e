package apiclient

// Room is a room row as rendered by the daemon API.
type Room struct {
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

// Session is a session row as rendered by the daemon API.
type Session struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Rounds    int    `json:"round_count"`
	Questions int    `json:"question_count"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// SessionDetail is a session with its expanded rounds.
type SessionDetail struct {
	Session
	RoundDetails []Round `json:"rounds"`
}

// Round is a question round, optionally with its questions expanded.
type Round struct {
	ID              string     `json:"id"`
	SessionID       string     `json:"session_id"`
	RoundIndex      int        `json:"round_index"`
	QuestionsCount  int        `json:"questions_count"`
	RoundType       string     `json:"round_type"`
	CurrentQuestion int        `json:"current_question_index"`
	Status          string     `json:"status"`
	CreatedAt       string     `json:"created_at"`
	UpdatedAt       string     `json:"updated_at"`
	Questions       []Question `json:"questions,omitempty"`
}

// Question is a single question row within a round.
type Question struct {
	ID            string `json:"id"`
	RoundID       string `json:"round_id"`
	QuestionIndex int    `json:"question_index"`
	Question      string `json:"question"`
	Answer        string `json:"answer,omitempty"`
	Category      string `json:"category,omitempty"`
	Answered      bool   `json:"answered"`
}

// CurrentQuestion is the interviewer-facing cursor view for a round.
type CurrentQuestion struct {
	Round     Round    `json:"round"`
	Question  Question `json:"question"`
	Remaining int      `json:"remaining"`
}

// Resume is the candidate document attached to a room.
type Resume struct {
	Name     string          `json:"name,omitempty"`
	Position string          `json:"position,omitempty"`
	Summary  string          `json:"summary,omitempty"`
	Skills   []string        `json:"skills,omitempty"`
	Projects []ResumeProject `json:"projects,omitempty"`
	RawText  string          `json:"raw_text,omitempty"`
}

// ResumeProject is one project entry inside a resume.
type ResumeProject struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Role        string `json:"role,omitempty"`
}

// JobDescription describes the JD document attached to a room.
type JobDescription struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Analysis is the completed question/answer record for a round.
type Analysis struct {
	RoomID      string         `json:"room_id"`
	SessionID   string         `json:"session_id"`
	RoundID     string         `json:"round_id"`
	RoundIndex  int            `json:"round_index"`
	Items       []AnalysisItem `json:"items"`
	CompletedAt string         `json:"completed_at"`
}

// AnalysisItem is one answered question inside an analysis record.
type AnalysisItem struct {
	QuestionIndex int    `json:"question_index"`
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	Category      string `json:"category,omitempty"`
}

// Report is the stored evaluation report for a completed round.
type Report struct {
	ReportID       string      `json:"report_id"`
	RoomID         string      `json:"room_id"`
	SessionID      string      `json:"session_id"`
	SessionName    string      `json:"session_name"`
	RoundID        string      `json:"round_id"`
	RoundIndex     int         `json:"round_index"`
	TotalQuestions int         `json:"total_questions"`
	TotalScore     float64     `json:"total_score"`
	OverallGrade   string      `json:"overall_grade"`
	Evaluation     *Evaluation `json:"evaluation"`
	GeneratedAt    string      `json:"generated_at"`
}

// Evaluation is the model's structured assessment inside a report.
type Evaluation struct {
	Summary     string           `json:"summary"`
	Suggestions string           `json:"suggestions"`
	Scores      EvaluationScores `json:"scores"`
	Questions   []QuestionReview `json:"questions"`
}

// EvaluationScores holds the report's five scored dimensions.
type EvaluationScores struct {
	ContentCompleteness int `json:"content_completeness"`
	HighlightProminence int `json:"highlight_prominence"`
	LogicalClarity      int `json:"logical_clarity"`
	ExpressionAbility   int `json:"expression_ability"`
	PositionMatching    int `json:"position_matching"`
}

// QuestionReview is per-question feedback inside a report.
type QuestionReview struct {
	QuestionIndex   int    `json:"question_index"`
	KeyPoints       string `json:"key_points"`
	Suggestions     string `json:"suggestions"`
	ReferenceAnswer string `json:"reference_answer"`
}

// Status is the daemon status snapshot.
type Status struct {
	Running       bool           `json:"running"`
	PID           int            `json:"pid"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Database      DatabaseStatus `json:"database"`
	Storage       StorageHealth  `json:"storage"`
	LLM           LLMStatus      `json:"llm"`
	Stats         Stats          `json:"stats"`
}

// DatabaseStatus reports SQLite health.
type DatabaseStatus struct {
	Path           string `json:"path"`
	Exists         bool   `json:"exists"`
	Readable       bool   `json:"readable"`
	IntegrityCheck bool   `json:"integrity_check"`
	Error          string `json:"error,omitempty"`
}

// StorageHealth reports object storage health.
type StorageHealth struct {
	Backend   string `json:"backend"`
	Healthy   bool   `json:"healthy"`
	Detail    string `json:"detail,omitempty"`
	Fallback  bool   `json:"fallback,omitempty"`
	LocalPath string `json:"local_path,omitempty"`
}

// LLMStatus reports question generator reachability.
type LLMStatus struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// Stats aggregates row counts across the metadata store.
type Stats struct {
	Rooms     int `json:"rooms"`
	Sessions  int `json:"sessions"`
	Rounds    int `json:"rounds"`
	Questions int `json:"questions"`
}
