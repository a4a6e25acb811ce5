package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Config struct {
	MaxDocumentChars    int
	MaxQuestionChars    int
	AllowedContentTypes []string
	Logger              *zap.Logger
}

// Middleware enforces content types and size bounds before a request reaches
// a handler. Content checks stop here: document text legitimately contains
// words like "terminate" and "execute", so no keyword blocklists.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxDocumentChars == 0 {
		cfg.MaxDocumentChars = 100000
	}
	if cfg.MaxQuestionChars == 0 {
		cfg.MaxQuestionChars = 500
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{"application/json", "multipart/form-data"}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return c.Next()
		}

		contentType := c.Get("Content-Type")
		if contentType != "" && !allowedType(contentType, cfg.AllowedContentTypes) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
				"success": false,
				"error":   "Unsupported content type",
			})
		}

		path := c.Path()

		if strings.HasSuffix(path, "/analyze/document") {
			var req struct {
				DocumentText string `json:"document_text"`
			}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"success": false,
					"error":   "Invalid JSON format",
				})
			}
			if len(req.DocumentText) > cfg.MaxDocumentChars {
				cfg.Logger.Warn("Oversized document rejected",
					zap.String("ip", c.IP()),
					zap.Int("chars", len(req.DocumentText)),
				)
				return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
					"success": false,
					"error":   "Document text exceeds maximum size",
				})
			}
		}

		if strings.HasSuffix(path, "/question") {
			var req struct {
				Question string `json:"question"`
			}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"success": false,
					"error":   "Invalid JSON format",
				})
			}
			if len(req.Question) > cfg.MaxQuestionChars {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"success": false,
					"error":   "Question exceeds maximum length",
				})
			}
		}

		return c.Next()
	}
}

func allowedType(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}
