package agents

import (
	"fmt"
	"strings"

	"legalteam-backend/internal/index"
	"legalteam-backend/internal/search"
)

// systemPrompt renders a role's description and numbered instructions.
func systemPrompt(role Role) string {
	var b strings.Builder
	b.WriteString(role.Description)
	if len(role.Instructions) > 0 {
		b.WriteString("\n\nInstructions:\n")
		for i, instruction := range role.Instructions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, instruction)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// userPrompt assembles the context the role sees. With no passages and no
// web results the query passes through untouched, so roles that receive a
// fully formed prompt (lead, summarizer, comparator) are not wrapped.
func userPrompt(query string, passages []index.ScoredChunk, results []search.Result) string {
	if len(passages) == 0 && len(results) == 0 {
		return query
	}

	var b strings.Builder
	if len(passages) > 0 {
		b.WriteString("Knowledge base excerpts from the uploaded document:\n\n")
		for _, passage := range passages {
			fmt.Fprintf(&b, "[Section %d]\n%s\n\n", passage.Ordinal+1, passage.Text)
		}
	}
	if len(results) > 0 {
		b.WriteString("Web search results:\n\n")
		for _, result := range results {
			fmt.Fprintf(&b, "- %s (%s)\n  %s\n", result.Title, result.URL, result.Snippet)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Query: %s", query)
	return b.String()
}
