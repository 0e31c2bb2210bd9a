package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kompas-ai/kompas/kompas/agent"
	"github.com/kompas-ai/kompas/kompas/session"
)

type mockCompleter struct {
	mu             sync.Mutex
	CompletionFunc func(ctx context.Context, msgs []*agent.Message) (*agent.Message, error)
	calls          [][]*agent.Message
}

func (m *mockCompleter) Completion(ctx context.Context, msgs []*agent.Message) (*agent.Message, error) {
	m.mu.Lock()
	m.calls = append(m.calls, msgs)
	m.mu.Unlock()
	if m.CompletionFunc != nil {
		return m.CompletionFunc(ctx, msgs)
	}
	return agent.NewTextMessage(agent.RoleAssistant, "mock reply"), nil
}

func TestSession_SendAppendsTurns(t *testing.T) {
	ai := &mockCompleter{}
	s := session.New(ai)

	require.Equal(t, session.StateIdle, s.State())
	require.NotEmpty(t, s.ID())

	reply, err := s.Send(t.Context(), "what's the weather in London?")
	require.NoError(t, err)
	assert.Equal(t, session.RoleAssistant, reply.Role)
	assert.Equal(t, "mock reply", reply.Content)

	turns := s.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, session.RoleUser, turns[0].Role)
	assert.Equal(t, "what's the weather in London?", turns[0].Content)
	assert.Equal(t, session.RoleAssistant, turns[1].Role)
	assert.Equal(t, session.StateIdle, s.State())
}

func TestSession_HistoryAccumulates(t *testing.T) {
	ai := &mockCompleter{}
	s := session.New(ai)

	_, err := s.Send(t.Context(), "first")
	require.NoError(t, err)
	_, err = s.Send(t.Context(), "second")
	require.NoError(t, err)

	require.Len(t, s.Turns(), 4)
	// the second dispatch carries the whole history
	require.Len(t, ai.calls, 2)
	assert.Len(t, ai.calls[1], 3)
}

func TestSession_AgentErrorBecomesTurn(t *testing.T) {
	ai := &mockCompleter{
		CompletionFunc: func(ctx context.Context, msgs []*agent.Message) (*agent.Message, error) {
			return nil, errors.New("provider down")
		},
	}
	s := session.New(ai)

	reply, err := s.Send(t.Context(), "hello")
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "Sorry, I encountered an error:")
	assert.Contains(t, reply.Content, "provider down")
	assert.Equal(t, session.StateIdle, s.State())

	// the session stays usable afterwards
	ai.CompletionFunc = nil
	reply, err = s.Send(t.Context(), "still there?")
	require.NoError(t, err)
	assert.Equal(t, "mock reply", reply.Content)
	assert.Len(t, s.Turns(), 4)
}

func TestSession_ResetClearsHistory(t *testing.T) {
	s := session.New(&mockCompleter{})

	_, err := s.Send(t.Context(), "hello")
	require.NoError(t, err)
	require.NotEmpty(t, s.Turns())

	s.Reset()
	assert.Empty(t, s.Turns())
	assert.Equal(t, session.StateIdle, s.State())
}

func TestSession_RejectsEmptyAndBusy(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	ai := &mockCompleter{
		CompletionFunc: func(ctx context.Context, msgs []*agent.Message) (*agent.Message, error) {
			close(started)
			<-block
			return agent.NewTextMessage(agent.RoleAssistant, "done"), nil
		},
	}
	s := session.New(ai)

	_, err := s.Send(t.Context(), "   ")
	require.ErrorIs(t, err, session.ErrEmpty)

	go s.Send(t.Context(), "slow question")
	<-started

	_, err = s.Send(t.Context(), "impatient question")
	require.ErrorIs(t, err, session.ErrBusy)
	close(block)
}

func TestManager(t *testing.T) {
	m := session.NewManager(&mockCompleter{})

	s := m.Create()
	require.Equal(t, 1, m.Count())

	got, ok := m.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = m.Get("missing")
	assert.False(t, ok)

	m.Remove(s.ID())
	assert.Equal(t, 0, m.Count())
}
