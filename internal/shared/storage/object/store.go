package object

import (
	"context"
	"io"
)

// ObjectStore persists uploaded document bytes. Keys are scoped per user
// so one principal can never address another's files.
type ObjectStore interface {
	Save(ctx context.Context, userId string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
