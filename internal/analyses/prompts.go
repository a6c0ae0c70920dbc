package analyses

import "fmt"

// Fallback texts are fixed strings so clients can match on them.
const (
	noAdvisorResponse    = "No response from Legal Advisor."
	noAnalystResponse    = "No response from Contract Analyst."
	noStrategistResponse = "No response from Legal Strategist."

	keyPointsFallback       = "Could not generate key points summary."
	recommendationsFallback = "Could not generate recommendations summary."
)

// synthesisPrompt hands the team lead the specialists' insights in a fixed
// order so reports stay deterministic for the same inputs.
func synthesisPrompt(query, research, contract, strategy string) string {
	return fmt.Sprintf(`Original Query: %s

Integrate the following insights gathered using the contract data:

--- Legal Researcher Insights ---
%s

--- Contract Analyst Insights ---
%s

--- Legal Strategist Insights ---
%s

Provide a structured legal analysis report addressing the original query, including key terms, obligations, risks, and recommendations, with references to the document sections where available.`,
		query, research, contract, strategy)
}

func keyPointsPrompt(report string) string {
	return fmt.Sprintf("Based on the following full analysis report, extract and list the most critical key points (e.g., main obligations, major risks, key definitions) in a concise bulleted list:\n\n%s", report)
}

func recommendationsPrompt(report string) string {
	return fmt.Sprintf("Based on the following full analysis report, extract only the specific, actionable legal recommendations provided. List them clearly:\n\n%s", report)
}
