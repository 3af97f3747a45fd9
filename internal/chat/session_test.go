package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManagerCreateAndGet(t *testing.T) {
	m := NewSessionManager()

	session := m.Create()
	require.NotEmpty(t, session.ID)

	got, err := m.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)

	_, err = m.Get("no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionHistoryPerCompany(t *testing.T) {
	m := NewSessionManager()
	session := m.Create()

	session.AppendTurn(Turn{ID: "t1", Company: "A", User: "hola", Bot: "buenas"})
	session.AppendTurn(Turn{ID: "t2", Company: "B", User: "precios", Bot: "lista"})
	session.AppendTurn(Turn{ID: "t3", Company: "A", User: "horarios", Bot: "9 a 6"})

	historyA := session.History("A")
	require.Len(t, historyA, 2)
	assert.Equal(t, "t1", historyA[0].ID)
	assert.Equal(t, "t3", historyA[1].ID)

	require.Len(t, session.History("B"), 1)
	assert.Empty(t, session.History("C"))
	assert.Equal(t, "A", session.LastCompany())
}

func TestSessionClear(t *testing.T) {
	m := NewSessionManager()
	session := m.Create()

	session.AppendTurn(Turn{ID: "t1", Company: "A"})
	session.AppendTurn(Turn{ID: "t2", Company: "B"})

	session.Clear("A")
	assert.Empty(t, session.History("A"))
	assert.Len(t, session.History("B"), 1)
}

func TestSessionFindTurn(t *testing.T) {
	m := NewSessionManager()
	session := m.Create()

	turn := Turn{ID: "t1", Company: "A", User: "hola", Timestamp: time.Now()}
	session.AppendTurn(turn)

	got, ok := session.FindTurn("A", "t1")
	require.True(t, ok)
	assert.Equal(t, "hola", got.User)

	_, ok = session.FindTurn("B", "t1")
	assert.False(t, ok)
}

func TestHistoryReturnsCopy(t *testing.T) {
	m := NewSessionManager()
	session := m.Create()
	session.AppendTurn(Turn{ID: "t1", Company: "A", User: "hola"})

	history := session.History("A")
	history[0].User = "mutated"

	assert.Equal(t, "hola", session.History("A")[0].User)
}
