package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/chat"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/metrics"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/pkg/logger"
)

type ChatHandler struct {
	service  *chat.Service
	sessions *chat.SessionManager
}

func NewChatHandler(service *chat.Service, sessions *chat.SessionManager) *ChatHandler {
	return &ChatHandler{
		service:  service,
		sessions: sessions,
	}
}

func (h *ChatHandler) CreateSession(c *fiber.Ctx) error {
	session := h.sessions.Create()

	logger.Info("Session created", zap.String("session_id", session.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id": session.ID,
	})
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	var req struct {
		SessionID   string  `json:"session_id"`
		Company     string  `json:"company"`
		Message     string  `json:"message"`
		Temperature float32 `json:"temperature"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.SessionID == "" || req.Company == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session_id and company are required",
		})
	}

	turn, err := h.service.Send(c.Context(), req.SessionID, req.Company, req.Message, req.Temperature)
	if err != nil {
		metrics.ChatTurns.WithLabelValues("error").Inc()
		return chatError(c, err)
	}

	status := "ok"
	if turn.Bot == chat.FallbackReply {
		status = "fallback"
	}
	metrics.ChatTurns.WithLabelValues(status).Inc()

	return c.JSON(fiber.Map{
		"turn_id":   turn.ID,
		"company":   turn.Company,
		"user":      turn.User,
		"bot":       turn.Bot,
		"timestamp": turn.Timestamp,
	})
}

func (h *ChatHandler) GetHistory(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	companyName := c.Query("company")
	if companyName == "" {
		// Without an explicit company, serve the one the session
		// talked to most recently.
		session, err := h.sessions.Get(sessionID)
		if err != nil {
			return chatError(c, err)
		}
		companyName = session.LastCompany()
		if companyName == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "company is required for a session with no turns",
			})
		}
	}

	turns, err := h.service.History(sessionID, companyName)
	if err != nil {
		return chatError(c, err)
	}

	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"company":    companyName,
		"turns":      turns,
	})
}

func (h *ChatHandler) ClearHistory(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	companyName := c.Query("company")
	if companyName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "company is required",
		})
	}

	if err := h.service.ClearHistory(sessionID, companyName); err != nil {
		return chatError(c, err)
	}

	logger.Info("Session history cleared",
		zap.String("session_id", sessionID),
		zap.String("company", companyName),
	)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ChatHandler) SubmitFeedback(c *fiber.Ctx) error {
	var req struct {
		SessionID string `json:"session_id"`
		Company   string `json:"company"`
		TurnID    string `json:"turn_id"`
		Feedback  string `json:"feedback"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	err := h.service.RecordFeedback(req.SessionID, req.Company, req.TurnID, req.Feedback)
	if err != nil {
		return chatError(c, err)
	}

	metrics.FeedbackTotal.WithLabelValues(req.Feedback).Inc()
	metrics.InteractionsLogged.Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "logged",
	})
}

func chatError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, chat.ErrSessionNotFound), errors.Is(err, chat.ErrTurnNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrInvalidFeedback):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.Error("Chat request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
