package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/legilight/backend/internal/fallback"
	"github.com/legilight/backend/internal/metrics"
	"github.com/legilight/backend/internal/storage"
	"github.com/legilight/backend/internal/storage/models"
	"github.com/legilight/backend/pkg/logger"
)

const defaultDocumentName = "Untitled Document"

// ModelInvoker is the opaque external model capability: prompt in, raw text
// out. It may fail or be slow; the analyzer only surfaces its failure.
type ModelInvoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Limits bounds accepted document and question sizes.
type Limits struct {
	MinDocumentChars int
	MaxDocumentChars int
}

func DefaultLimits() Limits {
	return Limits{MinDocumentChars: 10, MaxDocumentChars: 100000}
}

// Analyzer runs the end-to-end analysis of one document: validate, build the
// prompt, invoke the model, map the response, persist, return.
type Analyzer struct {
	store    storage.RecordStore
	model    ModelInvoker
	fallback *fallback.Analyzer
	limits   Limits
}

// Result carries the analyzed record plus whether persistence succeeded.
// When Stored is false the record was computed but could not be saved; it is
// still returned so the work is not discarded.
type Result struct {
	Record *models.AnalysisRecord
	Stored bool
}

func NewAnalyzer(store storage.RecordStore, model ModelInvoker, limits Limits) *Analyzer {
	if limits.MaxDocumentChars == 0 {
		limits = DefaultLimits()
	}
	return &Analyzer{
		store:    store,
		model:    model,
		fallback: fallback.New(),
		limits:   limits,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, documentText, documentName, analysisType string) (*Result, error) {
	start := time.Now()

	text := strings.TrimSpace(documentText)
	if text == "" {
		return nil, fmt.Errorf("%w: document text is empty", ErrInvalidInput)
	}
	if len(text) < a.limits.MinDocumentChars {
		return nil, fmt.Errorf("%w: document text too short (minimum %d characters)", ErrInvalidInput, a.limits.MinDocumentChars)
	}
	if len(text) > a.limits.MaxDocumentChars {
		return nil, fmt.Errorf("%w: document text too long (maximum %d characters)", ErrInvalidInput, a.limits.MaxDocumentChars)
	}

	if strings.TrimSpace(documentName) == "" {
		documentName = defaultDocumentName
	}
	if analysisType == "" {
		analysisType = TypeComprehensive
	}

	raw, err := a.model.Invoke(ctx, BuildAnalysisPrompt(text, documentName, analysisType))
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("model_error").Inc()
		return nil, err
	}

	record, err := ParseAnalysisResponse(raw)
	status := "ok"
	if err != nil {
		if !errors.Is(err, ErrMalformedResponse) {
			return nil, err
		}
		logger.Warn("Model response unparseable, using pattern-based fallback",
			zap.String("document_name", documentName),
			zap.Error(err),
		)
		metrics.FallbackTotal.Inc()
		record = a.fallback.Analyze(text)
		status = "fallback"
	}

	record.ID = newAnalysisID()
	record.DocumentName = documentName
	record.AnalysisType = analysisType
	record.SourceText = text
	record.CreatedAt = time.Now().UTC()

	result := &Result{Record: record, Stored: true}
	if err := a.store.InsertRecord(ctx, record); err != nil {
		// The analysis is expensive to recompute, so a storage failure is
		// reported as a warning on the result rather than losing it.
		logger.Error("Failed to persist analysis record",
			zap.String("analysis_id", record.ID),
			zap.Error(err),
		)
		metrics.AnalysesTotal.WithLabelValues("storage_error").Inc()
		result.Stored = false
	} else {
		metrics.AnalysesTotal.WithLabelValues(status).Inc()
	}

	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	metrics.ConfidenceScore.Observe(record.AIConfidence)

	logger.Info("Document analyzed",
		zap.String("analysis_id", record.ID),
		zap.String("analysis_type", analysisType),
		zap.String("risk_level", record.RiskAssessment.OverallRiskLevel),
		zap.Float64("ai_confidence", record.AIConfidence),
		zap.Bool("stored", result.Stored),
	)

	return result, nil
}

func newAnalysisID() string {
	return "analysis_" + uuid.New().String()
}
