package analysis

import (
	"fmt"
	"strings"
)

// Analysis types selecting the prompt variant. Unknown values fall back to
// comprehensive rather than being rejected.
const (
	TypeComprehensive    = "comprehensive"
	TypeRiskAssessment   = "risk_assessment"
	TypeClauseExtraction = "clause_extraction"
)

const analysisSchema = `{
    "document_summary": {
        "document_type": "contract type (e.g., Employment Agreement, Service Agreement)",
        "key_parties": ["Party 1", "Party 2"],
        "main_purpose": "Brief description of the agreement's purpose",
        "effective_date": "date if mentioned",
        "expiration_date": "date if mentioned"
    },
    "risk_assessment": {
        "overall_risk_level": "Low/Medium/High",
        "red_flags": ["List of concerning clauses"],
        "yellow_flags": ["List of clauses needing attention"],
        "green_flags": ["List of favorable clauses"]
    },
    "financial_terms": {
        "payment_amounts": ["Any monetary amounts mentioned"],
        "payment_schedules": ["Payment timing details"],
        "penalties": ["Financial penalties or liquidated damages"],
        "fees": ["Any fees mentioned"]
    },
    "obligations": {
        "party_1_obligations": ["What first party must do"],
        "party_2_obligations": ["What second party must do"],
        "mutual_obligations": ["Shared responsibilities"]
    },
    "key_clauses": [
        {
            "clause_type": "termination/liability/confidentiality/etc",
            "clause_text": "Actual clause text",
            "plain_language": "Simple explanation",
            "importance": "High/Medium/Low"
        }
    ],
    "ai_confidence": 0.85
}`

// BuildAnalysisPrompt produces the model-facing request for one document.
// The variant only changes where the model is told to focus; the response
// schema stays fixed so parsing is uniform.
func BuildAnalysisPrompt(text, name, analysisType string) string {
	var focus string
	switch analysisType {
	case TypeRiskAssessment:
		focus = "Focus on the risk assessment: be thorough about red, yellow and green flags and justify the overall risk level."
	case TypeClauseExtraction:
		focus = "Focus on key_clauses: extract every significant clause with its exact text and a plain-language explanation."
	default:
		focus = "Make sure to provide accurate, detailed analysis. Focus on practical implications for non-lawyers."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Please analyze this legal document: %q\n\n", name)
	fmt.Fprintf(&b, "Document Text:\n%s\n\n", text)
	fmt.Fprintf(&b, "Provide a comprehensive analysis in the following JSON format:\n%s\n\n", analysisSchema)
	b.WriteString(focus)
	return b.String()
}
