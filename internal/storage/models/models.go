package models

import "time"

// Placeholder values substituted for anything the model left out, so every
// stored record carries the full shape and no consumer branches on absence.
const (
	PlaceholderText = "Not specified"
	PlaceholderList = "None identified"
)

// Risk levels for RiskAssessment.OverallRiskLevel.
const (
	RiskLow     = "Low"
	RiskMedium  = "Medium"
	RiskHigh    = "High"
	RiskUnknown = "Unknown"
)

// Importance levels for KeyClause.Importance.
const (
	ImportanceLow    = "Low"
	ImportanceMedium = "Medium"
	ImportanceHigh   = "High"
)

// AnalysisRecord is the persisted result of analyzing one document. Records
// are immutable after creation; the only mutation is deletion.
type AnalysisRecord struct {
	ID              string          `json:"analysis_id"`
	DocumentName    string          `json:"document_name"`
	AnalysisType    string          `json:"analysis_type"`
	SourceText      string          `json:"source_text"`
	DocumentSummary DocumentSummary `json:"document_summary"`
	RiskAssessment  RiskAssessment  `json:"risk_assessment"`
	FinancialTerms  FinancialTerms  `json:"financial_terms"`
	Obligations     Obligations     `json:"obligations"`
	KeyClauses      []KeyClause     `json:"key_clauses"`
	AIConfidence    float64         `json:"ai_confidence"`
	CreatedAt       time.Time       `json:"created_at"`
}

type DocumentSummary struct {
	DocumentType   string   `json:"document_type"`
	KeyParties     []string `json:"key_parties"`
	MainPurpose    string   `json:"main_purpose"`
	EffectiveDate  string   `json:"effective_date"`
	ExpirationDate string   `json:"expiration_date"`
}

type RiskAssessment struct {
	OverallRiskLevel string   `json:"overall_risk_level"`
	RedFlags         []string `json:"red_flags"`
	YellowFlags      []string `json:"yellow_flags"`
	GreenFlags       []string `json:"green_flags"`
}

type FinancialTerms struct {
	PaymentAmounts   []string `json:"payment_amounts"`
	PaymentSchedules []string `json:"payment_schedules"`
	Penalties        []string `json:"penalties"`
	Fees             []string `json:"fees"`
}

type Obligations struct {
	Party1Obligations []string `json:"party_1_obligations"`
	Party2Obligations []string `json:"party_2_obligations"`
	MutualObligations []string `json:"mutual_obligations"`
}

type KeyClause struct {
	ClauseType    string `json:"clause_type"`
	ClauseText    string `json:"clause_text"`
	PlainLanguage string `json:"plain_language"`
	Importance    string `json:"importance"`
}

// RecordSummary is the listing projection; full source text is deliberately
// excluded to bound response size.
type RecordSummary struct {
	ID               string    `json:"analysis_id"`
	DocumentName     string    `json:"document_name"`
	AnalysisType     string    `json:"analysis_type"`
	OverallRiskLevel string    `json:"overall_risk_level"`
	AIConfidence     float64   `json:"ai_confidence"`
	CreatedAt        time.Time `json:"created_at"`
}

// SampleContract is a built-in demo document served to the UI.
type SampleContract struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Text        string `json:"text"`
}
