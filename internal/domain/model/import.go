package model

// ImportFile is one named vendor CSV payload inside an import.
type ImportFile struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// ImportJob is one queued CSV import: a session's vendor files awaiting
// parse and aggregation. Files parse independently; the merged sequence is
// sorted by swing number before statistics are computed.
type ImportJob struct {
	ImportID  string       `json:"import_id"`
	SessionID string       `json:"session_id"`
	Files     []ImportFile `json:"files"`
}
