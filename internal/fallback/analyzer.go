// Package fallback produces a pattern-based analysis when the model's reply
// cannot be parsed. It is deliberately conservative: fixed low confidence,
// Medium risk, and a red flag telling the user to review manually.
package fallback

import (
	"regexp"
	"strings"

	prose "github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/legilight/backend/internal/storage/models"
	"github.com/legilight/backend/pkg/logger"
)

const Confidence = 0.4

var (
	partiesPattern  = regexp.MustCompile(`(?i)between\s+([^,\n]+?)\s+and\s+([^,\n]+)`)
	datePattern     = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\w+\s+\d{1,2},?\s+\d{4}\b`)
	monetaryPattern = regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`)
)

// clauseKeywords marks a sentence as belonging to a clause type. Kept as a
// slice so detection order is stable.
var clauseKeywords = []struct {
	clauseType string
	keywords   []string
}{
	{"termination", []string{"terminat", "expir", "end of agreement"}},
	{"confidentiality", []string{"confidential", "non-disclosure", "trade secret"}},
	{"liability", []string{"liabilit", "indemnif", "damages"}},
	{"payment", []string{"payment", "compensation", "salary", "fee"}},
}

type Analyzer struct{}

func New() *Analyzer {
	return &Analyzer{}
}

// Analyze fills the analysis sections of a record from surface patterns in
// the document text. The returned record always satisfies the full shape.
func (a *Analyzer) Analyze(text string) *models.AnalysisRecord {
	sentences := splitSentences(text)

	return &models.AnalysisRecord{
		DocumentSummary: models.DocumentSummary{
			DocumentType:   "Legal Document",
			KeyParties:     extractParties(text),
			MainPurpose:    "Document analysis using pattern matching",
			EffectiveDate:  firstMatch(datePattern, text),
			ExpirationDate: models.PlaceholderText,
		},
		RiskAssessment: models.RiskAssessment{
			OverallRiskLevel: models.RiskMedium,
			RedFlags:         []string{"AI analysis unavailable - manual review recommended"},
			YellowFlags:      []string{"Document requires legal review"},
			GreenFlags:       []string{models.PlaceholderList},
		},
		FinancialTerms: models.FinancialTerms{
			PaymentAmounts:   matchList(monetaryPattern, text, 5),
			PaymentSchedules: []string{models.PlaceholderList},
			Penalties:        []string{models.PlaceholderList},
			Fees:             []string{models.PlaceholderList},
		},
		Obligations: models.Obligations{
			Party1Obligations: []string{"Pattern matching analysis - details limited"},
			Party2Obligations: []string{"Pattern matching analysis - details limited"},
			MutualObligations: []string{models.PlaceholderList},
		},
		KeyClauses:   detectClauses(sentences),
		AIConfidence: Confidence,
	}
}

// extractParties tries the "between X and Y" contract preamble first, then
// falls back to named-entity recognition over the opening of the document.
func extractParties(text string) []string {
	if m := partiesPattern.FindStringSubmatch(text); m != nil {
		return []string{cleanParty(m[1]), cleanParty(m[2])}
	}

	head := text
	if len(head) > 2000 {
		head = head[:2000]
	}
	doc, err := prose.NewDocument(head, prose.WithSegmentation(false))
	if err != nil {
		logger.Warn("NER pass failed", zap.Error(err))
		return []string{models.PlaceholderList}
	}

	seen := make(map[string]bool)
	var parties []string
	for _, ent := range doc.Entities() {
		if ent.Label != "PERSON" && ent.Label != "GPE" && ent.Label != "ORGANIZATION" {
			continue
		}
		name := strings.TrimSpace(ent.Text)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		parties = append(parties, name)
		if len(parties) == 2 {
			break
		}
	}

	if len(parties) == 0 {
		return []string{models.PlaceholderList}
	}
	return parties
}

func cleanParty(s string) string {
	s = strings.TrimSpace(s)
	for _, cut := range []string{" (", " (“"} {
		if i := strings.Index(s, cut); i > 0 {
			s = s[:i]
		}
	}
	return strings.TrimRight(s, " .;")
}

func splitSentences(text string) []string {
	doc, err := prose.NewDocument(text, prose.WithTagging(false), prose.WithExtraction(false))
	if err != nil {
		logger.Warn("Sentence segmentation failed", zap.Error(err))
		return strings.Split(text, ". ")
	}

	var sentences []string
	for _, s := range doc.Sentences() {
		sentences = append(sentences, s.Text)
	}
	return sentences
}

func detectClauses(sentences []string) []models.KeyClause {
	clauses := make([]models.KeyClause, 0)
	used := make(map[string]bool)

	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		for _, ck := range clauseKeywords {
			if used[ck.clauseType] {
				continue
			}
			for _, kw := range ck.keywords {
				if strings.Contains(lower, kw) {
					clauses = append(clauses, models.KeyClause{
						ClauseType:    ck.clauseType,
						ClauseText:    strings.TrimSpace(sentence),
						PlainLanguage: "Detected by keyword matching; AI explanation unavailable",
						Importance:    models.ImportanceMedium,
					})
					used[ck.clauseType] = true
					break
				}
			}
		}
	}

	if len(clauses) == 0 {
		clauses = append(clauses, models.KeyClause{
			ClauseType:    "general",
			ClauseText:    "Pattern-based analysis performed",
			PlainLanguage: "AI analysis was unavailable, using basic pattern matching",
			Importance:    models.ImportanceMedium,
		})
	}
	return clauses
}

func firstMatch(re *regexp.Regexp, text string) string {
	if m := re.FindString(text); m != "" {
		return m
	}
	return models.PlaceholderText
}

func matchList(re *regexp.Regexp, text string, limit int) []string {
	matches := re.FindAllString(text, limit)
	if len(matches) == 0 {
		return []string{models.PlaceholderList}
	}
	return matches
}
