package history

import "time"

// Record is one completed download in the ledger. A record exists only after
// the mux step succeeded and the integrity verifier accepted the file; it is
// never created speculatively.
type Record struct {
	ID          int64
	ContentID   string
	Slug        string
	Title       string
	Filename    string
	ContentHash string
	SizeBytes   int64
	Resolution  string
	Container   string
	SourceTag   string
	CompletedAt time.Time
	VerifiedAt  *time.Time
}
