// Package agents defines the fixed legal team roles and runs them against
// a session's document context.
package agents

import (
	"legalteam-backend/internal/shared/config"
)

// Role is one member of the legal team. Description and Instructions
// become the system prompt; Retrieval and WebSearch control which context
// sources the runner consults before calling the model.
type Role struct {
	Name         string
	Model        string
	Description  string
	Instructions []string
	Retrieval    bool
	WebSearch    bool
}

// Team holds every role the service runs. All six are constructed once at
// startup; the lead consumes the three specialists' output, and the
// summarizer feeds the comparator.
type Team struct {
	Advisor    Role
	Analyst    Role
	Strategist Role
	Lead       Role
	Summarizer Role
	Comparator Role
}

// BuildTeam wires the role definitions to the configured models. The
// specialists come first, then the roles that depend on their output.
func BuildTeam(cfg config.Config) Team {
	advisor := Role{
		Name:        "Legal Advisor",
		Model:       cfg.ModelAdvisor,
		Description: "Legal Researcher AI - Finds and cites relevant legal cases, regulations, and precedents using all data in the knowledge base.",
		Instructions: []string{
			"Extract all available data from the knowledge base and search for legal cases, regulations, and citations related to the user's query.",
			"If needed, use DuckDuckGo for additional legal references AFTER checking the knowledge base.",
			"Always provide source references (e.g., document sections, case names, URLs) in your answers.",
		},
		Retrieval: true,
		WebSearch: true,
	}

	analyst := Role{
		Name:        "Contract Analyst",
		Model:       cfg.ModelAnalyst,
		Description: "Contract Analyst AI - Reviews contracts and identifies key clauses, risks, and obligations using the full document data.",
		Instructions: []string{
			"Extract all available data from the knowledge base related to the user's query.",
			"Analyze the contract for key clauses (e.g., termination, liability, payment), obligations, potential ambiguities, and risks.",
			"Reference specific sections or clauses from the document where possible.",
		},
		Retrieval: true,
	}

	strategist := Role{
		Name:        "Legal Strategist",
		Model:       cfg.ModelStrategist,
		Description: "Legal Strategist AI - Provides comprehensive risk assessment and strategic recommendations based on all the available data from the contract.",
		Instructions: []string{
			"Using all data from the knowledge base relevant to the user's query, assess the contract for legal risks and opportunities.",
			"Provide actionable recommendations, suggest alternate clauses if applicable, and ensure compliance with applicable laws based on the provided text.",
			"Clearly explain the reasoning behind recommendations.",
		},
		Retrieval: true,
	}

	lead := Role{
		Name:        "Team Lead",
		Model:       cfg.ModelLead,
		Description: "Team Lead AI - Integrates responses from the Legal Researcher, Contract Analyst, and Legal Strategist into a comprehensive report.",
		Instructions: []string{
			"Combine and synthesize all insights provided by the Legal Researcher, Contract Analyst, and Legal Strategist.",
			"Structure the final output as a coherent legal analysis report.",
			"Ensure the report addresses the user's original query comprehensively.",
			"Include references to relevant sections from the document as provided by the other agents.",
			"Avoid redundancy and present the information clearly and concisely.",
		},
	}

	summarizer := Role{
		Name:        "Document Summarizer",
		Model:       cfg.ModelSummarizer,
		Description: "Summarizes legal document text concisely.",
		Instructions: []string{
			"You will be given text from a legal document.",
			"Generate a concise summary focusing on the document's main purpose, key sections/clauses mentioned, core obligations of the parties, and any defined terms or critical definitions.",
			"Keep the summary brief and to the point.",
			"Do not add opinions or analysis, strictly summarize the provided text.",
		},
	}

	comparator := Role{
		Name:        "Summary Comparator",
		Model:       cfg.ModelComparator,
		Description: "Compares two summaries of different document versions to identify likely key differences between the full documents.",
		Instructions: []string{
			"You are provided with two summaries: 'Summary A' from an original document and 'Summary B' from an updated version.",
			"Carefully compare Summary A and Summary B.",
			"Based *only* on the information present in these summaries, identify and list the likely key differences between the original full documents.",
			"Focus on differences in substance, key terms, obligations, or structure as reflected in the summaries.",
			"Present the likely differences clearly (e.g., using bullet points).",
			"Explicitly state that this comparison is based on summaries and might not capture all detailed textual changes present in the full documents.",
		},
	}

	return Team{
		Advisor:    advisor,
		Analyst:    analyst,
		Strategist: strategist,
		Lead:       lead,
		Summarizer: summarizer,
		Comparator: comparator,
	}
}
