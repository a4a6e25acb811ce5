package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legilight/backend/internal/storage"
	"github.com/legilight/backend/internal/storage/models"
)

const testDocument = `SERVICE AGREEMENT

This Service Agreement is entered into between Acme Corp and Jane Doe.
Acme Corp shall pay $5,000 per month for consulting services.
Either party may terminate this agreement with 30 days written notice.
All confidential information must be protected.`

type fakeModel struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (m *fakeModel) Invoke(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

type fakeStore struct {
	insertErr error
	records   map[string]*models.AnalysisRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*models.AnalysisRecord)}
}

func (s *fakeStore) InsertRecord(_ context.Context, record *models.AnalysisRecord) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.records[record.ID] = record
	return nil
}

func (s *fakeStore) GetRecord(_ context.Context, id string) (*models.AnalysisRecord, error) {
	record, ok := s.records[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return record, nil
}

func (s *fakeStore) ListRecords(_ context.Context, limit int) ([]models.RecordSummary, error) {
	summaries := make([]models.RecordSummary, 0, len(s.records))
	for _, r := range s.records {
		summaries = append(summaries, models.RecordSummary{ID: r.ID})
	}
	return summaries, nil
}

func (s *fakeStore) DeleteRecord(_ context.Context, id string) error {
	if _, ok := s.records[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func TestAnalyzeSuccess(t *testing.T) {
	store := newFakeStore()
	model := &fakeModel{response: fullResponse}
	analyzer := NewAnalyzer(store, model, DefaultLimits())

	result, err := analyzer.Analyze(context.Background(), testDocument, "Consulting Agreement", TypeComprehensive)
	require.NoError(t, err)
	require.NotNil(t, result.Record)

	assert.True(t, result.Stored)
	assert.True(t, strings.HasPrefix(result.Record.ID, "analysis_"))
	assert.Equal(t, "Consulting Agreement", result.Record.DocumentName)
	assert.Equal(t, TypeComprehensive, result.Record.AnalysisType)
	assert.Equal(t, strings.TrimSpace(testDocument), result.Record.SourceText)
	assert.False(t, result.Record.CreatedAt.IsZero())
	assert.Equal(t, 1, model.calls)

	stored, err := store.GetRecord(context.Background(), result.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Record, stored)
}

func TestAnalyzeRejectsInvalidInputWithoutModelCall(t *testing.T) {
	store := newFakeStore()
	model := &fakeModel{response: fullResponse}
	analyzer := NewAnalyzer(store, model, DefaultLimits())

	for _, text := range []string{"", "   \n\t  ", "too short"} {
		_, err := analyzer.Analyze(context.Background(), text, "", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	}

	long := strings.Repeat("a", DefaultLimits().MaxDocumentChars+1)
	_, err := analyzer.Analyze(context.Background(), long, "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	assert.Equal(t, 0, model.calls)
	assert.Empty(t, store.records)
}

func TestAnalyzeDefaultsNameAndType(t *testing.T) {
	store := newFakeStore()
	model := &fakeModel{response: fullResponse}
	analyzer := NewAnalyzer(store, model, DefaultLimits())

	result, err := analyzer.Analyze(context.Background(), testDocument, "   ", "")
	require.NoError(t, err)

	assert.Equal(t, "Untitled Document", result.Record.DocumentName)
	assert.Equal(t, TypeComprehensive, result.Record.AnalysisType)
}

func TestAnalyzeGeneratesUniqueIDs(t *testing.T) {
	store := newFakeStore()
	model := &fakeModel{response: fullResponse}
	analyzer := NewAnalyzer(store, model, DefaultLimits())

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		result, err := analyzer.Analyze(context.Background(), testDocument, "", "")
		require.NoError(t, err)
		assert.False(t, seen[result.Record.ID])
		seen[result.Record.ID] = true
	}
}

func TestAnalyzeModelFailurePropagates(t *testing.T) {
	store := newFakeStore()
	modelErr := errors.New("model unavailable")
	analyzer := NewAnalyzer(store, &fakeModel{err: modelErr}, DefaultLimits())

	_, err := analyzer.Analyze(context.Background(), testDocument, "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, modelErr))
	assert.Empty(t, store.records, "nothing should be persisted on model failure")
}

func TestAnalyzeFallsBackOnMalformedResponse(t *testing.T) {
	store := newFakeStore()
	model := &fakeModel{response: "I cannot produce structured output for this."}
	analyzer := NewAnalyzer(store, model, DefaultLimits())

	result, err := analyzer.Analyze(context.Background(), testDocument, "Consulting Agreement", TypeComprehensive)
	require.NoError(t, err)

	assert.True(t, result.Stored)
	assert.InDelta(t, 0.4, result.Record.AIConfidence, 1e-9)
	assert.Contains(t, result.Record.RiskAssessment.RedFlags[0], "manual review recommended")
	// The fallback record is persisted like any other.
	_, err = store.GetRecord(context.Background(), result.Record.ID)
	require.NoError(t, err)
}

func TestAnalyzeStorageFailureReturnsUnstoredResult(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("disk full")
	analyzer := NewAnalyzer(store, &fakeModel{response: fullResponse}, DefaultLimits())

	result, err := analyzer.Analyze(context.Background(), testDocument, "", "")
	require.NoError(t, err)
	require.NotNil(t, result.Record)
	assert.False(t, result.Stored)
	assert.NotEmpty(t, result.Record.ID)
}

func TestAnalyzePromptCarriesDocumentAndType(t *testing.T) {
	store := newFakeStore()
	model := &fakeModel{response: fullResponse}
	analyzer := NewAnalyzer(store, model, DefaultLimits())

	_, err := analyzer.Analyze(context.Background(), testDocument, "Consulting Agreement", TypeRiskAssessment)
	require.NoError(t, err)

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Acme Corp")
	assert.Contains(t, model.prompts[0], `"Consulting Agreement"`)
}
