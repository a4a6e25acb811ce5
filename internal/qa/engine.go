// Package qa answers follow-up questions against a previously analyzed
// document. Each call re-invokes the model; answers are never cached and the
// stored record is never mutated.
package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/legilight/backend/internal/analysis"
	"github.com/legilight/backend/internal/metrics"
	"github.com/legilight/backend/internal/storage"
	"github.com/legilight/backend/pkg/logger"
)

// ErrInvalidInput reports a question rejected before any model call.
var ErrInvalidInput = errors.New("invalid question input")

// Limits bounds accepted question sizes.
type Limits struct {
	MinQuestionChars int
	MaxQuestionChars int
}

func DefaultLimits() Limits {
	return Limits{MinQuestionChars: 5, MaxQuestionChars: 500}
}

type Engine struct {
	store  storage.RecordStore
	model  analysis.ModelInvoker
	limits Limits
}

// Answer is one Q&A result. Chat history is the caller's responsibility.
type Answer struct {
	Answer          string   `json:"answer"`
	Confidence      float64  `json:"confidence"`
	RelevantClauses []string `json:"relevant_clauses"`
}

func NewEngine(store storage.RecordStore, model analysis.ModelInvoker, limits Limits) *Engine {
	if limits.MaxQuestionChars == 0 {
		limits = DefaultLimits()
	}
	return &Engine{store: store, model: model, limits: limits}
}

func (e *Engine) Ask(ctx context.Context, documentID, question string) (*Answer, error) {
	start := time.Now()

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", ErrInvalidInput)
	}
	if len(question) < e.limits.MinQuestionChars {
		return nil, fmt.Errorf("%w: question too short (minimum %d characters)", ErrInvalidInput, e.limits.MinQuestionChars)
	}
	if len(question) > e.limits.MaxQuestionChars {
		return nil, fmt.Errorf("%w: question too long (maximum %d characters)", ErrInvalidInput, e.limits.MaxQuestionChars)
	}

	record, err := e.store.GetRecord(ctx, documentID)
	if err != nil {
		return nil, err
	}

	prompt := analysis.BuildQuestionPrompt(record.SourceText, record.DocumentSummary, question)
	raw, err := e.model.Invoke(ctx, prompt)
	if err != nil {
		metrics.QuestionsTotal.WithLabelValues("model_error").Inc()
		return nil, err
	}

	parsed := analysis.ParseQuestionResponse(raw)
	metrics.QuestionsTotal.WithLabelValues("ok").Inc()

	logger.Info("Question answered",
		zap.String("analysis_id", documentID),
		zap.Float64("confidence", parsed.Confidence),
		zap.Duration("latency", time.Since(start)),
	)

	return &Answer{
		Answer:          parsed.Answer,
		Confidence:      parsed.Confidence,
		RelevantClauses: parsed.RelevantClauses,
	}, nil
}
