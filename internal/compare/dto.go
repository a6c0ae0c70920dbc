package compare

// ComparisonResponse is the wire shape of a comparison run.
type ComparisonResponse struct {
	SessionID       string `json:"sessionId"`
	Identical       bool   `json:"identical"`
	Comparison      string `json:"comparison,omitempty"`
	SummaryOriginal string `json:"summaryOriginal,omitempty"`
	SummaryUpdated  string `json:"summaryUpdated,omitempty"`
	Warning         string `json:"warning,omitempty"`
}

func toResponse(sessionID string, r Result) ComparisonResponse {
	return ComparisonResponse{
		SessionID:       sessionID,
		Identical:       r.Identical,
		Comparison:      r.Comparison,
		SummaryOriginal: r.SummaryOriginal,
		SummaryUpdated:  r.SummaryUpdated,
		Warning:         r.Warning,
	}
}
