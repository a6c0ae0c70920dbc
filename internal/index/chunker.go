// Package index builds and queries the per-session retrieval index:
// extracted document text is chunked, embedded, and stored in a vector
// store searchable by cosine similarity.
package index

import "fmt"

// Chunking bounds exposed to upload requests.
const (
	MinChunkSize = 100
	MaxChunkSize = 5000
	MinOverlap   = 0
	MaxOverlap   = 1000

	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// ValidateChunking checks chunk parameters against the allowed bounds.
func ValidateChunking(chunkSize, overlap int) error {
	if chunkSize < MinChunkSize || chunkSize > MaxChunkSize {
		return fmt.Errorf("chunkSize must be between %d and %d", MinChunkSize, MaxChunkSize)
	}
	if overlap < MinOverlap || overlap > MaxOverlap {
		return fmt.Errorf("overlap must be between %d and %d", MinOverlap, MaxOverlap)
	}
	return nil
}

// SplitText cuts text into rune windows of chunkSize characters advancing
// by chunkSize-overlap. An overlap >= chunkSize degrades to adjacent,
// non-overlapping windows rather than failing. Text at or below chunkSize
// comes back as a single chunk.
func SplitText(text string, chunkSize, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
