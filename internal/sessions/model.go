package sessions

import "time"

// Document is one uploaded file within a session. Text holds the full
// extracted text used for comparison; TextOK records whether extraction
// produced anything usable.
type Document struct {
	Name       string
	StorageKey string
	MimeType   string
	SizeBytes  int64
	Text       string
	TextOK     bool
	UploadedAt time.Time
}

// Session is the unit of work: one original document, optionally one
// updated revision, the chunking parameters the index was built with, and
// the index state. Sessions expire; nothing outlives ExpiresAt.
type Session struct {
	ID         string
	UserID     string
	ChunkSize  int
	Overlap    int
	IndexReady bool
	ChunkCount int
	Original   *Document
	Updated    *Document
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ExpiresAt  time.Time
}

// clone returns a deep copy so callers never share Document pointers with
// the repo's stored state.
func (s Session) clone() Session {
	out := s
	if s.Original != nil {
		doc := *s.Original
		out.Original = &doc
	}
	if s.Updated != nil {
		doc := *s.Updated
		out.Updated = &doc
	}
	return out
}
