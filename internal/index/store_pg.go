package index

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// PGStore persists chunk embeddings in Postgres using a pgvector column.
// Similarity search runs on the `<=>` cosine distance operator so ordering
// happens in the database.
type PGStore struct {
	DB *sql.DB
}

// Replace deletes the session's chunks and inserts the new set in one
// transaction.
func (s *PGStore) Replace(ctx context.Context, sessionID string, chunks []Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("replace session=%s: %d chunks with %d embeddings", sessionID, len(chunks), len(embeddings))
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_chunks WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("replace session=%s: delete: %w", sessionID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO document_chunks (session_id, ordinal, content, embedding)
VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("replace session=%s: prepare: %w", sessionID, err)
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, sessionID, chunk.Ordinal, chunk.Text, pgvector.NewVector(embeddings[i])); err != nil {
			return fmt.Errorf("replace session=%s: insert ordinal=%d: %w", sessionID, chunk.Ordinal, err)
		}
	}

	return tx.Commit()
}

// Search returns the topK most similar chunks for the session.
func (s *PGStore) Search(ctx context.Context, sessionID string, embedding []float32, topK int) ([]ScoredChunk, error) {
	if topK <= 0 {
		topK = 5
	}

	rows, err := s.DB.QueryContext(ctx, `
SELECT ordinal, content, 1 - (embedding <=> $2) AS score
FROM document_chunks
WHERE session_id = $1
ORDER BY embedding <=> $2
LIMIT $3`, sessionID, pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("search session=%s: %w", sessionID, err)
	}
	defer rows.Close()

	var out []ScoredChunk
	for rows.Next() {
		var sc ScoredChunk
		if err := rows.Scan(&sc.Ordinal, &sc.Text, &sc.Score); err != nil {
			return nil, fmt.Errorf("search session=%s: scan: %w", sessionID, err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search session=%s: %w", sessionID, err)
	}
	if len(out) == 0 {
		return nil, ErrEmptyIndex
	}
	return out, nil
}

// DeleteSession drops all chunks for the session.
func (s *PGStore) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM document_chunks WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete session=%s: %w", sessionID, err)
	}
	return nil
}

// Count reports how many chunks the session holds.
func (s *PGStore) Count(ctx context.Context, sessionID string) (int, error) {
	var n int
	row := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_chunks WHERE session_id = $1`, sessionID)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count session=%s: %w", sessionID, err)
	}
	return n, nil
}
