package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/legilight/backend/internal/storage"
	"github.com/legilight/backend/internal/storage/models"
	"github.com/legilight/backend/pkg/logger"
)

type DocumentHandler struct {
	store     storage.RecordStore
	samples   []models.SampleContract
	listLimit int
}

func NewDocumentHandler(store storage.RecordStore, samples []models.SampleContract, listLimit int) *DocumentHandler {
	if listLimit <= 0 {
		listLimit = 50
	}
	return &DocumentHandler{store: store, samples: samples, listLimit: listLimit}
}

// ListDocuments handles GET /api/documents: summaries only, newest first.
func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	summaries, err := h.store.ListRecords(c.Context(), h.listLimit)
	if err != nil {
		logger.Error("Failed to list analysis records", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"documents": summaries,
	})
}

// GetDocument handles GET /api/document/:analysis_id with the full record.
func (h *DocumentHandler) GetDocument(c *fiber.Ctx) error {
	id := c.Params("analysis_id")

	record, err := h.store.GetRecord(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"document": record,
	})
}

// DeleteDocument handles DELETE /api/document/:analysis_id. A second delete
// of the same id reports 404, not success.
func (h *DocumentHandler) DeleteDocument(c *fiber.Ctx) error {
	id := c.Params("analysis_id")

	if err := h.store.DeleteRecord(c.Context(), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Document deleted successfully",
	})
}

// SampleContracts handles GET /api/sample-contracts.
func (h *DocumentHandler) SampleContracts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":          true,
		"sample_contracts": h.samples,
	})
}

// Pinger is the slice of the database client the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ModelHealthChecker reports whether the model provider looks reachable.
type ModelHealthChecker interface {
	Healthy() bool
}

type HealthHandler struct {
	db    Pinger
	model ModelHealthChecker
}

func NewHealthHandler(db Pinger, model ModelHealthChecker) *HealthHandler {
	return &HealthHandler{db: db, model: model}
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	dbOK := h.db.Ping(c.Context()) == nil
	aiOK := h.model.Healthy()

	status := "healthy"
	if !dbOK || !aiOK {
		status = "error"
	}

	return c.JSON(fiber.Map{
		"status": status,
		"services": fiber.Map{
			"ai_analysis": aiOK,
			"database":    dbOK,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		},
	})
}
