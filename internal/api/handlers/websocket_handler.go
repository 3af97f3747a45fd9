package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/chat"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/metrics"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/pkg/logger"
)

type WebSocketHandler struct {
	service  *chat.Service
	sessions *chat.SessionManager
}

func NewWebSocketHandler(service *chat.Service, sessions *chat.SessionManager) *WebSocketHandler {
	return &WebSocketHandler{
		service:  service,
		sessions: sessions,
	}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type        string  `json:"type"`
			SessionID   string  `json:"session_id"`
			Company     string  `json:"company"`
			Content     string  `json:"content"`
			Temperature float32 `json:"temperature"`
		}

		err := c.ReadJSON(&msg)
		if err != nil {
			logger.Error("Failed to read WebSocket message", zap.Error(err))
			break
		}

		if msg.Type != "message" {
			continue
		}

		logger.Info("Processing WebSocket message",
			zap.String("session_id", msg.SessionID),
			zap.String("company", msg.Company),
		)

		err = h.streamReply(c, msg.SessionID, msg.Company, msg.Content, msg.Temperature)
		if err != nil {
			logger.Error("Failed to stream reply", zap.Error(err))
			h.sendError(c, "Failed to process message")
		}
	}
}

func (h *WebSocketHandler) streamReply(c *websocket.Conn, sessionID, companyName, content string, temperature float32) error {
	ctx := context.Background()

	h.sendChunk(c, "status", "Procesando tu mensaje...")

	turn, err := h.service.Send(ctx, sessionID, companyName, content, temperature)
	if err != nil {
		metrics.ChatTurns.WithLabelValues("error").Inc()
		return err
	}

	status := "ok"
	if turn.Bot == chat.FallbackReply {
		status = "fallback"
	}
	metrics.ChatTurns.WithLabelValues(status).Inc()

	words := splitIntoWords(turn.Bot)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}

		err := h.sendChunk(c, "chunk", chunk)
		if err != nil {
			return err
		}
	}

	return h.sendComplete(c, turn)
}

func (h *WebSocketHandler) sendChunk(c *websocket.Conn, msgType, content string) error {
	msg := map[string]interface{}{
		"type":    msgType,
		"content": content,
	}

	return c.WriteJSON(msg)
}

func (h *WebSocketHandler) sendComplete(c *websocket.Conn, turn chat.Turn) error {
	msg := map[string]interface{}{
		"type":      "complete",
		"turn_id":   turn.ID,
		"company":   turn.Company,
		"timestamp": turn.Timestamp,
	}

	return c.WriteJSON(msg)
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	msg := map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	}

	c.WriteJSON(msg)
}

func splitIntoWords(text string) []string {
	words := []string{}
	currentWord := ""

	for _, char := range text {
		if char == ' ' || char == '\n' {
			if currentWord != "" {
				words = append(words, currentWord)
				currentWord = ""
			}
			if char == '\n' {
				words = append(words, "\n")
			}
		} else {
			currentWord += string(char)
		}
	}

	if currentWord != "" {
		words = append(words, currentWord)
	}

	return words
}
