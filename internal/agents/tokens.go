package agents

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"legalteam-backend/internal/index"
)

// cl100k covers the OpenAI embedding models and is close enough for the
// Groq-hosted chat models that a shared budget works.
var encoding = sync.OnceValues(func() (*tiktoken.Tiktoken, error) {
	return tiktoken.GetEncoding("cl100k_base")
})

// countTokens falls back to a bytes/4 estimate when the encoding tables
// cannot be loaded (they are fetched lazily and the process may be
// offline).
func countTokens(text string) int {
	enc, err := encoding()
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// fitToBudget keeps the leading passages whose combined token count stays
// within budget. Passages arrive ranked, so trimming the tail drops the
// least relevant context. The first passage is always kept; a single
// oversized chunk must not empty the prompt.
func fitToBudget(passages []index.ScoredChunk, budget int, count func(string) int) []index.ScoredChunk {
	if budget <= 0 || len(passages) == 0 {
		return passages
	}
	total := 0
	kept := make([]index.ScoredChunk, 0, len(passages))
	for i, passage := range passages {
		n := count(passage.Text)
		if i > 0 && total+n > budget {
			break
		}
		kept = append(kept, passage)
		total += n
	}
	return kept
}
