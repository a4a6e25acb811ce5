package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/legilight/backend/internal/llm"
	"github.com/legilight/backend/internal/storage/models"
)

// ParseAnalysisResponse converts raw model output into the analysis sections
// of a record. Missing or mis-shaped fields are replaced with explicit
// placeholders so a partially well-formed response still yields a usable
// record; only a payload with no JSON object at all is rejected.
func ParseAnalysisResponse(raw string) (*models.AnalysisRecord, error) {
	jsonText, err := llm.ExtractJSONObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	record := &models.AnalysisRecord{
		DocumentSummary: parseSummary(section(payload, "document_summary")),
		RiskAssessment:  parseRisk(section(payload, "risk_assessment")),
		FinancialTerms:  parseFinancial(section(payload, "financial_terms")),
		Obligations:     parseObligations(section(payload, "obligations")),
		KeyClauses:      parseClauses(payload["key_clauses"]),
		AIConfidence:    ClampConfidence(asFloat(payload["ai_confidence"], 0)),
	}
	return record, nil
}

// QuestionAnswer is the parsed result of one Q&A model call.
type QuestionAnswer struct {
	Answer          string   `json:"answer"`
	Confidence      float64  `json:"confidence"`
	RelevantClauses []string `json:"relevant_clauses"`
}

// BuildQuestionPrompt builds a context-aware Q&A prompt from the stored
// document text plus the analysis summary of the original run.
func BuildQuestionPrompt(documentText string, summary models.DocumentSummary, question string) string {
	summaryJSON, _ := json.MarshalIndent(summary, "", "  ")

	var b strings.Builder
	b.WriteString("Based on this legal document, please answer the user's question:\n\n")
	fmt.Fprintf(&b, "Document Text:\n%s\n\n", documentText)
	fmt.Fprintf(&b, "Previous analysis context: %s\n\n", summaryJSON)
	fmt.Fprintf(&b, "User Question: %s\n\n", question)
	b.WriteString(`Please respond in JSON format:
{
    "answer": "Direct answer to the question",
    "confidence": 0.85,
    "relevant_clauses": ["Specific clauses that support this answer"]
}

Provide a clear, accurate answer based on the document content.`)
	return b.String()
}

// ParseQuestionResponse never hard-fails: a reply that is not valid JSON
// degrades to using the raw text as the answer with reduced confidence.
func ParseQuestionResponse(raw string) QuestionAnswer {
	degraded := QuestionAnswer{
		Answer:          strings.TrimSpace(raw),
		Confidence:      0.6,
		RelevantClauses: []string{models.PlaceholderList},
	}
	if degraded.Answer == "" {
		degraded.Answer = "Unable to provide answer"
	}

	jsonText, err := llm.ExtractJSONObject(raw)
	if err != nil {
		return degraded
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return degraded
	}

	answer := asString(payload["answer"], "")
	if answer == "" {
		answer = "Unable to provide answer"
	}

	return QuestionAnswer{
		Answer:          answer,
		Confidence:      ClampConfidence(asFloat(payload["confidence"], 0)),
		RelevantClauses: asStringList(payload["relevant_clauses"]),
	}
}

// ClampConfidence bounds a confidence value to [0, 1]. Out-of-range values
// are clamped, not rejected.
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// NormalizeRiskLevel maps free-form model output onto the fixed risk scale.
func NormalizeRiskLevel(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "low":
		return models.RiskLow
	case "medium", "moderate":
		return models.RiskMedium
	case "high":
		return models.RiskHigh
	default:
		return models.RiskUnknown
	}
}

// NormalizeImportance maps free-form clause importance onto the fixed scale,
// defaulting to Medium.
func NormalizeImportance(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "low":
		return models.ImportanceLow
	case "high":
		return models.ImportanceHigh
	default:
		return models.ImportanceMedium
	}
}

func section(payload map[string]any, key string) map[string]any {
	if m, ok := payload[key].(map[string]any); ok {
		return m
	}
	return nil
}

func parseSummary(m map[string]any) models.DocumentSummary {
	return models.DocumentSummary{
		DocumentType:   asString(m["document_type"], models.PlaceholderText),
		KeyParties:     asStringList(m["key_parties"]),
		MainPurpose:    asString(m["main_purpose"], models.PlaceholderText),
		EffectiveDate:  asString(m["effective_date"], models.PlaceholderText),
		ExpirationDate: asString(m["expiration_date"], models.PlaceholderText),
	}
}

func parseRisk(m map[string]any) models.RiskAssessment {
	return models.RiskAssessment{
		OverallRiskLevel: NormalizeRiskLevel(asString(m["overall_risk_level"], "")),
		RedFlags:         asStringList(m["red_flags"]),
		YellowFlags:      asStringList(m["yellow_flags"]),
		GreenFlags:       asStringList(m["green_flags"]),
	}
}

func parseFinancial(m map[string]any) models.FinancialTerms {
	return models.FinancialTerms{
		PaymentAmounts:   asStringList(m["payment_amounts"]),
		PaymentSchedules: asStringList(m["payment_schedules"]),
		Penalties:        asStringList(m["penalties"]),
		Fees:             asStringList(m["fees"]),
	}
}

func parseObligations(m map[string]any) models.Obligations {
	return models.Obligations{
		Party1Obligations: asStringList(m["party_1_obligations"]),
		Party2Obligations: asStringList(m["party_2_obligations"]),
		MutualObligations: asStringList(m["mutual_obligations"]),
	}
}

func parseClauses(v any) []models.KeyClause {
	clauses := make([]models.KeyClause, 0)

	items, ok := v.([]any)
	if !ok {
		return clauses
	}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		clauses = append(clauses, models.KeyClause{
			ClauseType:    asString(m["clause_type"], "general"),
			ClauseText:    asString(m["clause_text"], models.PlaceholderText),
			PlainLanguage: asString(m["plain_language"], models.PlaceholderText),
			Importance:    NormalizeImportance(asString(m["importance"], "")),
		})
	}
	return clauses
}

func asString(v any, fallback string) string {
	if s, ok := v.(string); ok {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

// asStringList tolerates scalars and mixed-type arrays; anything empty or
// unusable collapses to the list placeholder so the field is never absent.
func asStringList(v any) []string {
	var out []string

	switch items := v.(type) {
	case []any:
		for _, item := range items {
			switch s := item.(type) {
			case string:
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					out = append(out, trimmed)
				}
			case float64:
				out = append(out, fmt.Sprintf("%v", s))
			}
		}
	case string:
		if trimmed := strings.TrimSpace(items); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	if len(out) == 0 {
		return []string{models.PlaceholderList}
	}
	return out
}

func asFloat(v any, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		var parsed float64
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%g", &parsed); err == nil {
			return parsed
		}
	}
	return fallback
}
