package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/legilight/backend/internal/qa"
	"github.com/legilight/backend/pkg/logger"
)

type QuestionHandler struct {
	engine *qa.Engine
}

func NewQuestionHandler(engine *qa.Engine) *QuestionHandler {
	return &QuestionHandler{engine: engine}
}

// AskQuestion handles POST /api/question against a stored document.
func (h *QuestionHandler) AskQuestion(c *fiber.Ctx) error {
	var req struct {
		DocumentID string `json:"document_id"`
		Question   string `json:"question"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.DocumentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "document_id is required",
		})
	}

	answer, err := h.engine.Ask(c.Context(), req.DocumentID, req.Question)
	if err != nil {
		logger.Error("Question answering failed",
			zap.String("document_id", req.DocumentID),
			zap.Error(err),
		)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"answer":           answer.Answer,
		"confidence":       answer.Confidence,
		"relevant_clauses": answer.RelevantClauses,
	})
}
