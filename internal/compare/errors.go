package compare

import "errors"

var (
	// ErrDocumentsRequired means the session lacks an original or an
	// updated document.
	ErrDocumentsRequired = errors.New("comparison requires an original and an updated document")
	// ErrTextUnavailable means text extraction failed for at least one of
	// the two documents.
	ErrTextUnavailable = errors.New("document text unavailable for comparison")
)
