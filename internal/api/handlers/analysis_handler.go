package handlers

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/legilight/backend/internal/analysis"
	"github.com/legilight/backend/internal/extract"
	"github.com/legilight/backend/pkg/logger"
)

const storageWarning = "analysis completed but could not be stored; it will not appear in the documents list"

type AnalysisHandler struct {
	analyzer *analysis.Analyzer
}

func NewAnalysisHandler(analyzer *analysis.Analyzer) *AnalysisHandler {
	return &AnalysisHandler{analyzer: analyzer}
}

// AnalyzeDocument handles POST /api/analyze/document with pasted text.
func (h *AnalysisHandler) AnalyzeDocument(c *fiber.Ctx) error {
	var req struct {
		DocumentText string `json:"document_text"`
		DocumentName string `json:"document_name"`
		AnalysisType string `json:"analysis_type"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	start := time.Now()
	result, err := h.analyzer.Analyze(c.Context(), req.DocumentText, req.DocumentName, req.AnalysisType)
	if err != nil {
		logger.Error("Document analysis failed", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(analysisResponse(result, time.Since(start)))
}

// AnalyzeUpload handles POST /api/analyze/upload with a multipart file.
// Text extraction runs first; the analyzer only ever sees plain text.
func (h *AnalysisHandler) AnalyzeUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "File is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to open uploaded file",
		})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read uploaded file",
		})
	}

	text, err := extract.FromFile(fileHeader.Filename, content)
	if err != nil {
		logger.Warn("Text extraction failed",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err),
		)
		return respondError(c, err)
	}

	documentName := fileHeader.Filename
	if title := extract.Title(content); title != "" {
		documentName = title
	}

	start := time.Now()
	result, err := h.analyzer.Analyze(c.Context(), text, documentName, c.FormValue("analysis_type"))
	if err != nil {
		logger.Error("Document analysis failed", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(analysisResponse(result, time.Since(start)))
}

func analysisResponse(result *analysis.Result, elapsed time.Duration) fiber.Map {
	record := result.Record

	resp := fiber.Map{
		"success":          true,
		"analysis_id":      record.ID,
		"document_name":    record.DocumentName,
		"analysis_type":    record.AnalysisType,
		"document_summary": record.DocumentSummary,
		"risk_assessment":  record.RiskAssessment,
		"financial_terms":  record.FinancialTerms,
		"obligations":      record.Obligations,
		"key_clauses":      record.KeyClauses,
		"ai_confidence":    record.AIConfidence,
		"created_at":       record.CreatedAt,
		"processing_time":  elapsed.Seconds(),
	}
	if !result.Stored {
		resp["warning"] = storageWarning
	}
	return resp
}
