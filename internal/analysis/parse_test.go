package analysis

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legilight/backend/internal/storage/models"
)

const fullResponse = `{
	"document_summary": {
		"document_type": "Employment Agreement",
		"key_parties": ["Acme Corp", "Jane Doe"],
		"main_purpose": "Defines the terms of employment",
		"effective_date": "January 1, 2025",
		"expiration_date": "December 31, 2026"
	},
	"risk_assessment": {
		"overall_risk_level": "Medium",
		"red_flags": ["Unlimited liability clause"],
		"yellow_flags": ["Auto-renewal"],
		"green_flags": ["Mutual termination rights"]
	},
	"financial_terms": {
		"payment_amounts": ["$120,000 per year"],
		"payment_schedules": ["Monthly"],
		"penalties": ["$5,000 late fee"],
		"fees": []
	},
	"obligations": {
		"party_1_obligations": ["Pay salary"],
		"party_2_obligations": ["Perform duties"],
		"mutual_obligations": ["Maintain confidentiality"]
	},
	"key_clauses": [
		{
			"clause_type": "termination",
			"clause_text": "Either party may terminate with 30 days notice.",
			"plain_language": "Both sides can walk away with a month's warning.",
			"importance": "High"
		}
	],
	"ai_confidence": 0.85
}`

func TestParseAnalysisResponseFull(t *testing.T) {
	record, err := ParseAnalysisResponse(fullResponse)
	require.NoError(t, err)

	assert.Equal(t, "Employment Agreement", record.DocumentSummary.DocumentType)
	assert.Equal(t, []string{"Acme Corp", "Jane Doe"}, record.DocumentSummary.KeyParties)
	assert.Equal(t, models.RiskMedium, record.RiskAssessment.OverallRiskLevel)
	assert.Equal(t, []string{"Unlimited liability clause"}, record.RiskAssessment.RedFlags)
	assert.Equal(t, []string{"$120,000 per year"}, record.FinancialTerms.PaymentAmounts)
	// Empty lists still come back with the placeholder, never empty.
	assert.Equal(t, []string{models.PlaceholderList}, record.FinancialTerms.Fees)
	require.Len(t, record.KeyClauses, 1)
	assert.Equal(t, "termination", record.KeyClauses[0].ClauseType)
	assert.Equal(t, models.ImportanceHigh, record.KeyClauses[0].Importance)
	assert.InDelta(t, 0.85, record.AIConfidence, 1e-9)
}

func TestParseAnalysisResponseWrappedInProse(t *testing.T) {
	wrapped := "Here is the analysis you requested:\n```json\n" + fullResponse + "\n```\nLet me know if you need more."

	record, err := ParseAnalysisResponse(wrapped)
	require.NoError(t, err)
	assert.Equal(t, "Employment Agreement", record.DocumentSummary.DocumentType)
}

func TestParseAnalysisResponseMissingSections(t *testing.T) {
	record, err := ParseAnalysisResponse(`{"ai_confidence": 0.5}`)
	require.NoError(t, err)

	assert.Equal(t, models.PlaceholderText, record.DocumentSummary.DocumentType)
	assert.Equal(t, []string{models.PlaceholderList}, record.DocumentSummary.KeyParties)
	assert.Equal(t, models.RiskUnknown, record.RiskAssessment.OverallRiskLevel)
	assert.Equal(t, []string{models.PlaceholderList}, record.RiskAssessment.RedFlags)
	assert.Equal(t, []string{models.PlaceholderList}, record.Obligations.Party1Obligations)
	assert.NotNil(t, record.KeyClauses)
	assert.Empty(t, record.KeyClauses)
}

func TestParseAnalysisResponseWrongShapes(t *testing.T) {
	raw := `{
		"document_summary": {"document_type": 42, "key_parties": "Acme Corp"},
		"risk_assessment": {"overall_risk_level": "catastrophic", "red_flags": {"nested": true}},
		"key_clauses": [{"clause_type": "payment"}, "not a clause"],
		"ai_confidence": "0.7"
	}`

	record, err := ParseAnalysisResponse(raw)
	require.NoError(t, err)

	assert.Equal(t, models.PlaceholderText, record.DocumentSummary.DocumentType)
	// A bare string is tolerated as a single-element list.
	assert.Equal(t, []string{"Acme Corp"}, record.DocumentSummary.KeyParties)
	assert.Equal(t, models.RiskUnknown, record.RiskAssessment.OverallRiskLevel)
	assert.Equal(t, []string{models.PlaceholderList}, record.RiskAssessment.RedFlags)
	require.Len(t, record.KeyClauses, 1)
	assert.Equal(t, "payment", record.KeyClauses[0].ClauseType)
	assert.Equal(t, models.ImportanceMedium, record.KeyClauses[0].Importance)
	assert.InDelta(t, 0.7, record.AIConfidence, 1e-9)
}

func TestParseAnalysisResponseConfidenceClamped(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		want float64
	}{
		{`{"ai_confidence": 1.7}`, 1.0},
		{`{"ai_confidence": -0.3}`, 0.0},
		{`{"ai_confidence": 0.42}`, 0.42},
	} {
		record, err := ParseAnalysisResponse(tc.raw)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, record.AIConfidence, 1e-9)
	}
}

func TestParseAnalysisResponseNotJSON(t *testing.T) {
	_, err := ParseAnalysisResponse("I'm sorry, I cannot analyze this document.")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))

	_, err = ParseAnalysisResponse("{this is not valid json}")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestParseQuestionResponse(t *testing.T) {
	answer := ParseQuestionResponse(`{
		"answer": "The notice period is 30 days.",
		"confidence": 0.9,
		"relevant_clauses": ["Section 3: Termination"]
	}`)

	assert.Equal(t, "The notice period is 30 days.", answer.Answer)
	assert.InDelta(t, 0.9, answer.Confidence, 1e-9)
	assert.Equal(t, []string{"Section 3: Termination"}, answer.RelevantClauses)
}

func TestParseQuestionResponseDegradesToRawText(t *testing.T) {
	answer := ParseQuestionResponse("The contract can be terminated with notice.")

	assert.Equal(t, "The contract can be terminated with notice.", answer.Answer)
	assert.InDelta(t, 0.6, answer.Confidence, 1e-9)
	assert.Equal(t, []string{models.PlaceholderList}, answer.RelevantClauses)
}

func TestParseQuestionResponseEmptyAnswer(t *testing.T) {
	answer := ParseQuestionResponse(`{"answer": "", "confidence": 2.5}`)

	assert.Equal(t, "Unable to provide answer", answer.Answer)
	assert.InDelta(t, 1.0, answer.Confidence, 1e-9)
}

func TestNormalizeRiskLevel(t *testing.T) {
	assert.Equal(t, models.RiskLow, NormalizeRiskLevel("low"))
	assert.Equal(t, models.RiskMedium, NormalizeRiskLevel(" Moderate "))
	assert.Equal(t, models.RiskHigh, NormalizeRiskLevel("HIGH"))
	assert.Equal(t, models.RiskUnknown, NormalizeRiskLevel("severe"))
	assert.Equal(t, models.RiskUnknown, NormalizeRiskLevel(""))
}

func TestBuildAnalysisPromptVariants(t *testing.T) {
	base := BuildAnalysisPrompt("text", "NDA", TypeComprehensive)
	risk := BuildAnalysisPrompt("text", "NDA", TypeRiskAssessment)
	clauses := BuildAnalysisPrompt("text", "NDA", TypeClauseExtraction)

	for _, prompt := range []string{base, risk, clauses} {
		assert.Contains(t, prompt, `"NDA"`)
		assert.Contains(t, prompt, "document_summary")
		assert.Contains(t, prompt, "ai_confidence")
	}
	assert.NotEqual(t, base, risk)
	assert.NotEqual(t, base, clauses)

	// Unknown types get the comprehensive focus rather than an error.
	assert.Equal(t, base, BuildAnalysisPrompt("text", "NDA", "something_else"))
}

func TestBuildQuestionPromptIncludesContext(t *testing.T) {
	summary := models.DocumentSummary{DocumentType: "Service Agreement", MainPurpose: "Web development"}
	prompt := BuildQuestionPrompt("full document text", summary, "Who pays the fees?")

	assert.Contains(t, prompt, "full document text")
	assert.Contains(t, prompt, "Service Agreement")
	assert.Contains(t, prompt, "Who pays the fees?")
}

func ExampleClampConfidence() {
	fmt.Println(ClampConfidence(1.3), ClampConfidence(-2), ClampConfidence(0.5))
	// Output: 1 0 0.5
}
