package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/company"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/interaction"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/llm"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/pkg/logger"
)

// FallbackReply is shown when the model call fails for any reason; the
// failure is never retried.
const FallbackReply = "Ocurrió un error procesando tu solicitud. Intenta de nuevo."

// missingProfileInfo stands in for the profile context when the company
// is not in the store.
const missingProfileInfo = "Información no disponible."

var (
	ErrEmptyMessage    = errors.New("message is empty")
	ErrInvalidFeedback = errors.New("invalid feedback value")
)

// Feedback values accepted for a turn.
const (
	FeedbackUseful    = "useful"
	FeedbackNotUseful = "not_useful"
)

// CompanyDirectory is the slice of the profile store the service needs.
type CompanyDirectory interface {
	Get(name string) (company.Profile, error)
}

// Completer performs one model completion.
type Completer interface {
	Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)
}

// TurnLogger appends rated turns to the interaction log.
type TurnLogger interface {
	Append(rec interaction.Record) error
}

// Clock abstracts time for testable log timestamps.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Service runs chat turns: build the company system prompt, call the
// model, degrade to the fixed fallback reply on failure, and keep the
// turn in the session history either way.
type Service struct {
	sessions  *SessionManager
	companies CompanyDirectory
	completer Completer
	turnLog   TurnLogger
	clock     Clock
}

func NewService(sessions *SessionManager, companies CompanyDirectory, completer Completer, turnLog TurnLogger) *Service {
	return &Service{
		sessions:  sessions,
		companies: companies,
		completer: completer,
		turnLog:   turnLog,
		clock:     realClock{},
	}
}

// NewServiceWithClock is used by tests to pin timestamps.
func NewServiceWithClock(sessions *SessionManager, companies CompanyDirectory, completer Completer, turnLog TurnLogger, clock Clock) *Service {
	s := NewService(sessions, companies, completer, turnLog)
	s.clock = clock
	return s
}

// Send runs one chat turn for a session against the named company.
// Temperature outside [0.1, 1.0] falls back to the configured default.
// A transport failure yields the fallback reply instead of an error;
// the turn is still recorded in the session.
func (s *Service) Send(ctx context.Context, sessionID, companyName, message string, temperature float32) (Turn, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return Turn{}, err
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return Turn{}, ErrEmptyMessage
	}

	if temperature < 0.1 || temperature > 1.0 {
		temperature = 0
	}

	reply := FallbackReply
	resp, err := s.completer.Chat(ctx, llm.ChatRequest{
		SystemPrompt: s.systemPrompt(companyName),
		UserMessage:  message,
		Temperature:  temperature,
	})
	if err != nil {
		logger.Warn("Model call failed, using fallback reply",
			zap.String("session_id", sessionID),
			zap.String("company", companyName),
			zap.Error(err),
		)
	} else {
		reply = resp.Content
	}

	turn := Turn{
		ID:        uuid.New().String(),
		Company:   companyName,
		User:      message,
		Bot:       reply,
		Timestamp: s.clock.Now(),
	}
	session.AppendTurn(turn)

	logger.Info("Chat turn completed",
		zap.String("session_id", sessionID),
		zap.String("company", companyName),
		zap.Bool("fallback", reply == FallbackReply && err != nil),
	)
	return turn, nil
}

// History returns the session's turns for a company.
func (s *Service) History(sessionID, companyName string) ([]Turn, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return session.History(companyName), nil
}

// ClearHistory empties the session's history for one company.
func (s *Service) ClearHistory(sessionID, companyName string) error {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	session.Clear(companyName)
	return nil
}

// RecordFeedback rates a turn and appends it to the interaction log.
// The log row carries the feedback submission time, keeping log
// timestamps monotonic.
func (s *Service) RecordFeedback(sessionID, companyName, turnID, feedback string) error {
	if feedback != FeedbackUseful && feedback != FeedbackNotUseful {
		return fmt.Errorf("%w: %q", ErrInvalidFeedback, feedback)
	}

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}

	turn, ok := session.FindTurn(companyName, turnID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTurnNotFound, turnID)
	}

	return s.turnLog.Append(interaction.Record{
		Timestamp: s.clock.Now(),
		Company:   turn.Company,
		User:      turn.User,
		Chatbot:   turn.Bot,
		Feedback:  feedback,
	})
}

// systemPrompt builds the customer-service persona prompt, inlining the
// stored profile as JSON. An unknown company still chats, with a
// placeholder instead of profile data.
func (s *Service) systemPrompt(companyName string) string {
	info := missingProfileInfo
	if profile, err := s.companies.Get(companyName); err == nil {
		if data, merr := json.Marshal(profile); merr == nil {
			info = string(data)
		}
	}

	return fmt.Sprintf(`Eres un Asistente de Servicio al Cliente experto y amable.
Tu prioridad es resolver dudas de los clientes de "%s".
Esta es la información disponible sobre la empresa: %s.

- Usa un tono cordial.
- Ofrece respuestas claras.
- Emplea viñetas o negritas cuando sea apropiado.`, companyName, info)
}
