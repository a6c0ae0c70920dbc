package analyses

import "errors"

var (
	// ErrInvalidType rejects analysis types outside the fixed set.
	ErrInvalidType = errors.New("invalid analysis type")
	// ErrQueryRequired rejects a custom analysis with no query text.
	ErrQueryRequired = errors.New("query required")
	// ErrIndexNotReady rejects analysis before a document is indexed.
	ErrIndexNotReady = errors.New("index not ready")
	// ErrEmptyReport means the team lead produced no usable report.
	ErrEmptyReport = errors.New("empty report")
)
