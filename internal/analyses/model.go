package analyses

import (
	"fmt"
	"time"
)

// Type selects which analysis the legal team runs.
type Type string

const (
	TypeContractReview  Type = "contract_review"
	TypeLegalResearch   Type = "legal_research"
	TypeRiskAssessment  Type = "risk_assessment"
	TypeComplianceCheck Type = "compliance_check"
	TypeCustom          Type = "custom"
)

// queryTemplates are the fixed prompts behind each predefined analysis type.
var queryTemplates = map[Type]string{
	TypeContractReview:  "Analyze this legal document from the knowledge base. Identify and detail key terms, clauses (like termination, liability, payment, confidentiality), parties' obligations, and potential risks or ambiguities.",
	TypeLegalResearch:   "Based on the content of the document in the knowledge base, find relevant legal cases, statutes, or precedents. Focus on aspects mentioned in the document (e.g., specific clauses, jurisdiction if mentioned). Provide detailed references and sources if possible.",
	TypeRiskAssessment:  "Extract data from the knowledge base for this document. Identify potential legal and commercial risks for the parties involved. Detail specific risk areas (e.g., liability exposure, termination conditions, IP rights) and suggest potential mitigation strategies or alternative clauses if appropriate.",
	TypeComplianceCheck: "Evaluate the document in the knowledge base for compliance with common legal regulations or standards relevant to its subject matter (e.g., data privacy if applicable, standard contract terms). Highlight any areas of potential non-compliance or concern based on the text, and suggest corrective actions or clauses if possible.",
}

// ParseType validates a wire-format analysis type.
func ParseType(raw string) (Type, error) {
	switch t := Type(raw); t {
	case TypeContractReview, TypeLegalResearch, TypeRiskAssessment, TypeComplianceCheck, TypeCustom:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown analysis type %q", ErrInvalidType, raw)
	}
}

// Report is the assembled output of one analysis run.
type Report struct {
	ID              string
	SessionID       string
	Type            Type
	Query           string
	Report          string
	KeyPoints       string
	Recommendations string
	CreatedAt       time.Time
}
