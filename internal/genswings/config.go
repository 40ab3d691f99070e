package genswings

import "time"

// Config holds configuration for the swing import test.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumSessions int           // Number of sessions to generate
	SwingCount  int           // Number of swings per session
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputDir   string        // Output directory for generated CSVs
	LogFile     string        // Log file for test output
	Seed        int64         // Seed for deterministic generation
	Verbose     bool          // Enable verbose logging
}

// Session is one generated hitting session: a synthetic vendor CSV plus the
// identifiers used to submit and later verify it.
type Session struct {
	SessionID string
	ImportID  string
	FileName  string
	CSV       string
	Profile   string // generation profile used, for verification output
}

// importRequest mirrors the POST /v1/imports schema.
type importRequest struct {
	ImportID  string       `json:"import_id"`
	SessionID string       `json:"session_id"`
	Files     []importFile `json:"files"`
}

type importFile struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// AckResponse represents the response from import submission.
type AckResponse struct {
	Status    string `json:"status"`
	ImportID  string `json:"import_id"`
	Duplicate bool   `json:"duplicate"`
}

// Report is the subset of the session report the verifier inspects.
type Report struct {
	SessionID string `json:"session_id"`
	Ball      *struct {
		TotalSwings int     `json:"total_swings"`
		BallsInPlay int     `json:"balls_in_play"`
		ContactRate float64 `json:"contact_rate"`
		TotalPoints int     `json:"total_points"`
		BallScore   int     `json:"ball_score"`
	} `json:"ball"`
	SkippedRows int `json:"skipped_rows"`
}

// Stats holds test statistics.
type Stats struct {
	SessionsGenerated  int
	ImportsSubmitted   int
	ImportsSuccessful  int
	ImportsDuplicate   int
	ImportsFailed      int
	ReportsRetrieved   int
	ReportsWithBall    int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
