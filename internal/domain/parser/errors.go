package parser

import "errors"

// Sentinel kinds for parse errors. These allow errors.Is/As from callers.
var (
	// ErrNoValidRecords means a file produced zero usable swing rows. The
	// message carries a self-diagnosis hint because the usual cause is a
	// vendor export with unexpected column headers.
	ErrNoValidRecords = errors.New("no valid swing data — check column headers")

	// ErrMissingHeader means the file had no header row at all.
	ErrMissingHeader = errors.New("missing header row")
)
