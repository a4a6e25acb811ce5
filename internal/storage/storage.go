// Package storage defines the record store contract shared by the SQLite
// implementation and the orchestrators that consume it.
package storage

import (
	"context"
	"errors"

	"github.com/legilight/backend/internal/storage/models"
)

// ErrNotFound reports that no analysis record exists for the given id.
var ErrNotFound = errors.New("analysis record not found")

// RecordStore persists analysis records. Creation is at-most-once per id;
// records are never updated in place.
type RecordStore interface {
	InsertRecord(ctx context.Context, record *models.AnalysisRecord) error
	GetRecord(ctx context.Context, id string) (*models.AnalysisRecord, error)
	ListRecords(ctx context.Context, limit int) ([]models.RecordSummary, error)
	DeleteRecord(ctx context.Context, id string) error
}
