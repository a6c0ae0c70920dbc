package analyses

import "time"

// AnalysisResponse is the full report returned to the client. Reports are
// not persisted; this response is the only copy.
type AnalysisResponse struct {
	AnalysisID      string    `json:"analysisId"`
	SessionID       string    `json:"sessionId"`
	AnalysisType    string    `json:"analysisType"`
	Query           string    `json:"query"`
	Report          string    `json:"report"`
	KeyPoints       string    `json:"keyPoints"`
	Recommendations string    `json:"recommendations"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toResponse(r Report) AnalysisResponse {
	return AnalysisResponse{
		AnalysisID:      r.ID,
		SessionID:       r.SessionID,
		AnalysisType:    string(r.Type),
		Query:           r.Query,
		Report:          r.Report,
		KeyPoints:       r.KeyPoints,
		Recommendations: r.Recommendations,
		CreatedAt:       r.CreatedAt,
	}
}
