package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/legilight/backend/internal/qa"
	"github.com/legilight/backend/pkg/logger"
)

// ChatHandler serves the interactive Q&A channel. One connection can ask
// about any number of stored documents; chat history stays on the client.
type ChatHandler struct {
	engine *qa.Engine
}

func NewChatHandler(engine *qa.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

func (h *ChatHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("Chat connection established")

	defer func() {
		c.Close()
		logger.Info("Chat connection closed")
	}()

	for {
		var msg struct {
			Type       string `json:"type"`
			DocumentID string `json:"document_id"`
			Content    string `json:"content"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			logger.Debug("Chat read ended", zap.Error(err))
			break
		}

		if msg.Type != "question" {
			continue
		}

		if err := h.streamAnswer(c, msg.DocumentID, msg.Content); err != nil {
			logger.Error("Failed to stream answer", zap.Error(err))
			h.sendError(c, err.Error())
		}
	}
}

func (h *ChatHandler) streamAnswer(c *websocket.Conn, documentID, question string) error {
	h.send(c, "status", "Analyzing your question...")

	answer, err := h.engine.Ask(context.Background(), documentID, question)
	if err != nil {
		return err
	}

	words := strings.Fields(answer.Answer)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}
		if err := h.send(c, "chunk", chunk); err != nil {
			return err
		}
	}

	return c.WriteJSON(map[string]interface{}{
		"type":             "complete",
		"confidence":       answer.Confidence,
		"relevant_clauses": answer.RelevantClauses,
	})
}

func (h *ChatHandler) send(c *websocket.Conn, msgType, content string) error {
	return c.WriteJSON(map[string]interface{}{
		"type":    msgType,
		"content": content,
	})
}

func (h *ChatHandler) sendError(c *websocket.Conn, errorMsg string) {
	c.WriteJSON(map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	})
}
