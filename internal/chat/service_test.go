package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/company"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/interaction"
	"github.com/Pabandres85/Proyecto-LLM-deepseek/internal/llm"
)

type fakeDirectory struct {
	profiles map[string]company.Profile
}

func (d *fakeDirectory) Get(name string) (company.Profile, error) {
	p, ok := d.profiles[name]
	if !ok {
		return company.Profile{}, fmt.Errorf("%w: %s", company.ErrNotFound, name)
	}
	return p, nil
}

type fakeCompleter struct {
	lastReq llm.ChatRequest
	reply   string
	err     error
}

func (c *fakeCompleter) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	c.lastReq = req
	if c.err != nil {
		return nil, c.err
	}
	return &llm.ChatResponse{Content: c.reply}, nil
}

type fakeTurnLog struct {
	records []interaction.Record
	err     error
}

func (l *fakeTurnLog) Append(rec interaction.Record) error {
	if l.err != nil {
		return l.err
	}
	l.records = append(l.records, rec)
	return nil
}

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

func newTestService(completer *fakeCompleter, turnLog *fakeTurnLog) (*Service, *SessionManager) {
	sessions := NewSessionManager()
	directory := &fakeDirectory{profiles: map[string]company.Profile{
		"Viajes Felices": {Description: "Agencia de viajes", Services: []string{"Tours"}},
	}}
	clock := stubClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	return NewServiceWithClock(sessions, directory, completer, turnLog, clock), sessions
}

func TestSendBuildsCompanyPrompt(t *testing.T) {
	completer := &fakeCompleter{reply: "¡Con gusto!"}
	svc, sessions := newTestService(completer, &fakeTurnLog{})
	session := sessions.Create()

	turn, err := svc.Send(context.Background(), session.ID, "Viajes Felices", " ¿Hacen tours? ", 0)
	require.NoError(t, err)

	assert.Equal(t, "¿Hacen tours?", turn.User)
	assert.Equal(t, "¡Con gusto!", turn.Bot)
	assert.Contains(t, completer.lastReq.SystemPrompt, `"Viajes Felices"`)
	assert.Contains(t, completer.lastReq.SystemPrompt, "Agencia de viajes")
	assert.Len(t, session.History("Viajes Felices"), 1)
}

func TestSendUnknownCompanyUsesPlaceholder(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	svc, sessions := newTestService(completer, &fakeTurnLog{})
	session := sessions.Create()

	_, err := svc.Send(context.Background(), session.ID, "Desconocida", "hola", 0)
	require.NoError(t, err)
	assert.Contains(t, completer.lastReq.SystemPrompt, "Información no disponible.")
}

func TestSendFallbackOnModelFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("connection refused")}
	svc, sessions := newTestService(completer, &fakeTurnLog{})
	session := sessions.Create()

	turn, err := svc.Send(context.Background(), session.ID, "Viajes Felices", "hola", 0)
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, turn.Bot)

	// The degraded turn still lands in the session history.
	history := session.History("Viajes Felices")
	require.Len(t, history, 1)
	assert.Equal(t, FallbackReply, history[0].Bot)
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	svc, sessions := newTestService(&fakeCompleter{reply: "ok"}, &fakeTurnLog{})
	session := sessions.Create()

	_, err := svc.Send(context.Background(), session.ID, "Viajes Felices", "   ", 0)
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendUnknownSession(t *testing.T) {
	svc, _ := newTestService(&fakeCompleter{reply: "ok"}, &fakeTurnLog{})

	_, err := svc.Send(context.Background(), "missing", "Viajes Felices", "hola", 0)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSendTemperatureClamping(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	svc, sessions := newTestService(completer, &fakeTurnLog{})
	session := sessions.Create()

	_, err := svc.Send(context.Background(), session.ID, "Viajes Felices", "hola", 0.9)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, completer.lastReq.Temperature, 0.001)

	// Out-of-range values defer to the configured default.
	_, err = svc.Send(context.Background(), session.ID, "Viajes Felices", "hola", 1.5)
	require.NoError(t, err)
	assert.Zero(t, completer.lastReq.Temperature)
}

func TestRecordFeedback(t *testing.T) {
	turnLog := &fakeTurnLog{}
	svc, sessions := newTestService(&fakeCompleter{reply: "respuesta"}, turnLog)
	session := sessions.Create()

	turn, err := svc.Send(context.Background(), session.ID, "Viajes Felices", "hola", 0)
	require.NoError(t, err)

	require.NoError(t, svc.RecordFeedback(session.ID, "Viajes Felices", turn.ID, FeedbackUseful))

	require.Len(t, turnLog.records, 1)
	rec := turnLog.records[0]
	assert.Equal(t, "Viajes Felices", rec.Company)
	assert.Equal(t, "hola", rec.User)
	assert.Equal(t, "respuesta", rec.Chatbot)
	assert.Equal(t, FeedbackUseful, rec.Feedback)
}

func TestRecordFeedbackValidation(t *testing.T) {
	svc, sessions := newTestService(&fakeCompleter{reply: "ok"}, &fakeTurnLog{})
	session := sessions.Create()

	err := svc.RecordFeedback(session.ID, "Viajes Felices", "t1", "👍 Sí")
	assert.ErrorIs(t, err, ErrInvalidFeedback)

	err = svc.RecordFeedback(session.ID, "Viajes Felices", "missing-turn", FeedbackUseful)
	assert.ErrorIs(t, err, ErrTurnNotFound)
}

func TestClearHistory(t *testing.T) {
	svc, sessions := newTestService(&fakeCompleter{reply: "ok"}, &fakeTurnLog{})
	session := sessions.Create()

	_, err := svc.Send(context.Background(), session.ID, "Viajes Felices", "hola", 0)
	require.NoError(t, err)

	require.NoError(t, svc.ClearHistory(session.ID, "Viajes Felices"))

	history, err := svc.History(session.ID, "Viajes Felices")
	require.NoError(t, err)
	assert.Empty(t, history)

	assert.ErrorIs(t, svc.ClearHistory("missing", "X"), ErrSessionNotFound)
}

func TestFallbackReplyIsSpanishFixedText(t *testing.T) {
	if !strings.Contains(FallbackReply, "error") {
		t.Fatalf("unexpected fallback text: %q", FallbackReply)
	}
}
