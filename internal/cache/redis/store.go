package redis

import (
	"context"

	"go.uber.org/zap"

	"github.com/legilight/backend/internal/storage"
	"github.com/legilight/backend/internal/storage/models"
	"github.com/legilight/backend/pkg/logger"
)

// CachedStore layers the redis read cache over a RecordStore. Records are
// immutable, so cached copies can only go stale by deletion, which is
// handled by explicit invalidation. Cache failures degrade to the backing
// store, never to a request failure.
type CachedStore struct {
	backing storage.RecordStore
	cache   *Client
}

var _ storage.RecordStore = (*CachedStore)(nil)

func NewCachedStore(backing storage.RecordStore, cache *Client) *CachedStore {
	return &CachedStore{backing: backing, cache: cache}
}

func (s *CachedStore) InsertRecord(ctx context.Context, record *models.AnalysisRecord) error {
	if err := s.backing.InsertRecord(ctx, record); err != nil {
		return err
	}

	if err := s.cache.SetRecord(ctx, record); err != nil {
		logger.Warn("Failed to cache record", zap.String("analysis_id", record.ID), zap.Error(err))
	}
	if err := s.cache.InvalidateSummaries(ctx); err != nil {
		logger.Warn("Failed to invalidate summaries cache", zap.Error(err))
	}
	return nil
}

func (s *CachedStore) GetRecord(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	record, hit, err := s.cache.GetRecord(ctx, id)
	if err != nil {
		logger.Warn("Record cache read failed", zap.Error(err))
	}
	if hit {
		return record, nil
	}

	record, err = s.backing.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetRecord(ctx, record); err != nil {
		logger.Warn("Failed to cache record", zap.String("analysis_id", id), zap.Error(err))
	}
	return record, nil
}

func (s *CachedStore) ListRecords(ctx context.Context, limit int) ([]models.RecordSummary, error) {
	summaries, hit, err := s.cache.GetSummaries(ctx, limit)
	if err != nil {
		logger.Warn("Summaries cache read failed", zap.Error(err))
	}
	if hit {
		return summaries, nil
	}

	summaries, err = s.backing.ListRecords(ctx, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetSummaries(ctx, limit, summaries); err != nil {
		logger.Warn("Failed to cache summaries", zap.Error(err))
	}
	return summaries, nil
}

func (s *CachedStore) DeleteRecord(ctx context.Context, id string) error {
	if err := s.backing.DeleteRecord(ctx, id); err != nil {
		return err
	}

	if err := s.cache.DeleteRecord(ctx, id); err != nil {
		logger.Warn("Failed to drop cached record", zap.String("analysis_id", id), zap.Error(err))
	}
	if err := s.cache.InvalidateSummaries(ctx); err != nil {
		logger.Warn("Failed to invalidate summaries cache", zap.Error(err))
	}
	return nil
}
