package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/legilight/backend/internal/analysis"
	"github.com/legilight/backend/internal/extract"
	"github.com/legilight/backend/internal/llm"
	"github.com/legilight/backend/internal/qa"
	"github.com/legilight/backend/internal/storage"
)

// respondError maps domain errors onto HTTP statuses. Every failure is
// scoped to the single request; nothing here is fatal to the process.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, analysis.ErrInvalidInput),
		errors.Is(err, qa.ErrInvalidInput),
		errors.Is(err, extract.ErrUnsupportedFormat),
		errors.Is(err, extract.ErrEmptyFile):
		status = fiber.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, llm.ErrModelUnavailable):
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
