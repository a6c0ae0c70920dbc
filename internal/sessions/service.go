package sessions

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"legalteam-backend/internal/extract"
	"legalteam-backend/internal/index"
	"legalteam-backend/internal/shared/storage/object"
	"legalteam-backend/internal/shared/telemetry"
)

const defaultTTL = 12 * time.Hour

// Indexer rebuilds a session's retrieval index from a file on disk.
type Indexer interface {
	Rebuild(ctx context.Context, sessionID, path string, chunkSize, overlap int) (int, error)
}

// Service contains business logic for sessions and their documents.
type Service struct {
	Repo    Repo
	Store   object.ObjectStore
	Indexer Indexer
	Chunks  ChunkPurger
	TTL     time.Duration
}

// UploadResult pairs the post-upload session state with the user-facing
// outcome message.
type UploadResult struct {
	Session Session
	Message string
}

func (s *Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return defaultTTL
}

// Create starts an empty session for the caller.
func (s *Service) Create(ctx context.Context, userID string) (Session, error) {
	if strings.TrimSpace(userID) == "" {
		return Session{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	now := time.Now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ChunkSize: index.DefaultChunkSize,
		Overlap:   index.DefaultOverlap,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl()),
	}
	if err := s.Repo.Create(ctx, sess); err != nil {
		return Session{}, err
	}
	telemetry.Info("session.created", map[string]any{
		"session_id": sess.ID,
		"expires_at": sess.ExpiresAt.Format(time.RFC3339),
	})
	return sess, nil
}

// Get returns the caller's session.
func (s *Service) Get(ctx context.Context, userID, id string) (Session, error) {
	return s.Repo.GetByID(ctx, userID, id)
}

// Delete removes the caller's session and its indexed chunks. Stored
// uploads are left to the object store's own retention.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	if s.Chunks != nil {
		if err := s.Chunks.DeleteSession(ctx, id); err != nil {
			telemetry.Warn("session.delete_chunks_failed", map[string]any{
				"session_id": id,
				"error":      err.Error(),
			})
		}
	}
	telemetry.Info("session.deleted", map[string]any{"session_id": id})
	return nil
}

// UploadOriginal stores the original document, extracts its full text, and
// rebuilds the session's retrieval index with the given chunk parameters.
// Text extraction failure degrades the comparison feature but not the
// upload; an index build failure rolls the session back and fails it.
func (s *Service) UploadOriginal(ctx context.Context, userID, sessionID, fileName string, r io.Reader, chunkSize, overlap int) (UploadResult, error) {
	if strings.TrimSpace(fileName) == "" {
		return UploadResult{}, fmt.Errorf("%w: file name required", ErrInvalidInput)
	}
	if err := index.ValidateChunking(chunkSize, overlap); err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := s.Repo.GetByID(ctx, userID, sessionID); err != nil {
		return UploadResult{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return UploadResult{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		return UploadResult{}, fmt.Errorf("store upload: %w", err)
	}

	text, textErr := extract.ExtractTextFromBytes(ctx, data, mimeType, fileName)
	textOK := textErr == nil && strings.TrimSpace(text) != ""
	if !textOK {
		text = ""
		telemetry.Warn("session.original_text_failed", map[string]any{
			"session_id": sessionID,
			"file_name":  fileName,
			"error":      errString(textErr),
		})
	}
	s.saveExtractedCopy(ctx, sessionID, storageKey, text, textOK)

	doc := Document{
		Name:       fileName,
		StorageKey: storageKey,
		MimeType:   mimeType,
		SizeBytes:  size,
		Text:       text,
		TextOK:     textOK,
		UploadedAt: time.Now().UTC(),
	}
	if _, err := s.Repo.SetOriginal(ctx, userID, sessionID, doc, chunkSize, overlap); err != nil {
		return UploadResult{}, err
	}

	chunkCount, err := s.rebuildIndex(ctx, sessionID, fileName, data, chunkSize, overlap)
	if err != nil {
		if clearErr := s.Repo.ClearOriginal(ctx, userID, sessionID); clearErr != nil {
			telemetry.Error("session.rollback_failed", map[string]any{
				"session_id": sessionID,
				"error":      clearErr.Error(),
			})
		}
		return UploadResult{}, err
	}

	sess, err := s.Repo.SetIndexed(ctx, userID, sessionID, chunkCount)
	if err != nil {
		return UploadResult{}, err
	}

	message := fmt.Sprintf("Processed '%s' for Analysis & Comparison.", fileName)
	if !textOK {
		message = fmt.Sprintf("Processed '%s' for Analysis, but failed to extract full text for comparison feature.", fileName)
	}
	telemetry.Info("session.original_loaded", map[string]any{
		"session_id": sessionID,
		"file_name":  fileName,
		"chunks":     chunkCount,
		"text_ok":    textOK,
	})
	return UploadResult{Session: sess, Message: message}, nil
}

// UploadUpdated stores the revised document for comparison. It requires an
// original whose text extraction succeeded; its own extraction failure is
// tolerated and reported in the message.
func (s *Service) UploadUpdated(ctx context.Context, userID, sessionID, fileName string, r io.Reader) (UploadResult, error) {
	if strings.TrimSpace(fileName) == "" {
		return UploadResult{}, fmt.Errorf("%w: file name required", ErrInvalidInput)
	}
	sess, err := s.Repo.GetByID(ctx, userID, sessionID)
	if err != nil {
		return UploadResult{}, err
	}
	if sess.Original == nil {
		return UploadResult{}, ErrNoOriginal
	}
	if !sess.Original.TextOK {
		return UploadResult{}, ErrOriginalTextMissing
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return UploadResult{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		return UploadResult{}, fmt.Errorf("store upload: %w", err)
	}

	text, textErr := extract.ExtractTextFromBytes(ctx, data, mimeType, fileName)
	textOK := textErr == nil && strings.TrimSpace(text) != ""
	if !textOK {
		text = ""
		telemetry.Warn("session.updated_text_failed", map[string]any{
			"session_id": sessionID,
			"file_name":  fileName,
			"error":      errString(textErr),
		})
	}
	s.saveExtractedCopy(ctx, sessionID, storageKey, text, textOK)

	doc := Document{
		Name:       fileName,
		StorageKey: storageKey,
		MimeType:   mimeType,
		SizeBytes:  size,
		Text:       text,
		TextOK:     textOK,
		UploadedAt: time.Now().UTC(),
	}
	updated, err := s.Repo.SetUpdated(ctx, userID, sessionID, doc)
	if err != nil {
		return UploadResult{}, err
	}

	message := fmt.Sprintf("Loaded '%s' for comparison.", fileName)
	if !textOK {
		message = fmt.Sprintf("Failed to extract text from '%s'. Comparison may not work.", fileName)
	}
	telemetry.Info("session.updated_loaded", map[string]any{
		"session_id": sessionID,
		"file_name":  fileName,
		"text_ok":    textOK,
	})
	return UploadResult{Session: updated, Message: message}, nil
}

// OpenRaw streams back a stored upload. kind is "original" or "updated".
func (s *Service) OpenRaw(ctx context.Context, userID, sessionID, kind string) (Document, io.ReadCloser, error) {
	sess, err := s.Repo.GetByID(ctx, userID, sessionID)
	if err != nil {
		return Document{}, nil, err
	}

	var doc *Document
	switch kind {
	case "original":
		doc = sess.Original
	case "updated":
		doc = sess.Updated
	default:
		return Document{}, nil, fmt.Errorf("%w: unknown document kind %q", ErrInvalidInput, kind)
	}
	if doc == nil {
		return Document{}, nil, ErrNotFound
	}

	body, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return Document{}, nil, fmt.Errorf("open %s document: %w", kind, err)
	}
	return *doc, body, nil
}

// rebuildIndex spools the upload to a temp file for the indexer and always
// cleans it up.
func (s *Service) rebuildIndex(ctx context.Context, sessionID, fileName string, data []byte, chunkSize, overlap int) (int, error) {
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(fileName))
	if err != nil {
		return 0, fmt.Errorf("spool upload: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("spool upload: %w", err)
	}
	return s.Indexer.Rebuild(ctx, sessionID, path, chunkSize, overlap)
}

// saveExtractedCopy persists the extracted text next to the upload.
// Failures only cost the derived artifact, so they log and move on.
func (s *Service) saveExtractedCopy(ctx context.Context, sessionID, storageKey, text string, textOK bool) {
	if !textOK {
		return
	}
	if err := extract.SaveExtracted(ctx, s.Store, storageKey, text); err != nil {
		telemetry.Warn("session.extracted_copy_failed", map[string]any{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

func errString(err error) string {
	if err == nil {
		return "empty text"
	}
	return err.Error()
}
