package sessions

import "errors"

var (
	// ErrNotFound covers missing, expired, and foreign sessions alike.
	ErrNotFound = errors.New("session not found")
	// ErrInvalidInput marks caller mistakes (bad chunk params, missing file).
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoOriginal rejects operations that need an original document first.
	ErrNoOriginal = errors.New("original document not loaded")
	// ErrOriginalTextMissing rejects comparison setup when the original was
	// indexed but its full text could not be extracted.
	ErrOriginalTextMissing = errors.New("original document text unavailable")
)
