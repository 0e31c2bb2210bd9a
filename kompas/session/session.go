// Package session holds the per-conversation state: the ordered chat turns
// and the idle/awaiting-reply cycle around each agent dispatch.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kompas-ai/kompas/kompas/agent"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type State string

const (
	StateIdle          State = "idle"
	StateAwaitingReply State = "awaiting-reply"
)

var (
	// a second submission while a reply is pending is rejected.
	ErrBusy  = errors.New("session: reply still pending")
	ErrEmpty = errors.New("session: message cannot be empty")
)

// Turn is one utterance of the conversation, append-only for the session's
// lifetime until an explicit reset.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Completer dispatches the accumulated turns to the llm agent.
type Completer interface {
	Completion(ctx context.Context, msgs []*agent.Message) (*agent.Message, error)
}

type Session struct {
	id string
	ai Completer

	mx    sync.Mutex
	state State
	turns []Turn
}

func New(ai Completer) *Session {
	return &Session{
		id:    uuid.NewString(),
		ai:    ai,
		state: StateIdle,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.state
}

// Turns returns a copy of the conversation so far.
func (s *Session) Turns() []Turn {
	s.mx.Lock()
	defer s.mx.Unlock()
	turns := make([]Turn, len(s.turns))
	copy(turns, s.turns)
	return turns
}

// Reset clears the turn history and returns the session to idle.
func (s *Session) Reset() {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.turns = nil
	s.state = StateIdle
}

// Send appends the user turn, dispatches the whole history to the agent and
// appends the assistant turn. An agent failure does not escape: it is
// recorded as an apologetic assistant turn and the session stays usable.
func (s *Session) Send(ctx context.Context, text string) (Turn, error) {
	if strings.TrimSpace(text) == "" {
		return Turn{}, ErrEmpty
	}

	s.mx.Lock()
	if s.state != StateIdle {
		s.mx.Unlock()
		return Turn{}, ErrBusy
	}
	s.state = StateAwaitingReply
	s.turns = append(s.turns, Turn{Role: RoleUser, Content: text})
	msgs := s.messages()
	s.mx.Unlock()

	var reply Turn
	resp, err := s.ai.Completion(ctx, msgs)
	if err != nil {
		reply = Turn{
			Role:    RoleAssistant,
			Content: fmt.Sprintf("Sorry, I encountered an error: %v", err),
		}
	} else {
		reply = Turn{Role: RoleAssistant, Content: resp.Text()}
	}

	s.mx.Lock()
	s.turns = append(s.turns, reply)
	s.state = StateIdle
	s.mx.Unlock()

	return reply, nil
}

// messages converts the recorded turns into agent messages. Callers hold
// the lock.
func (s *Session) messages() []*agent.Message {
	msgs := make([]*agent.Message, 0, len(s.turns))
	for _, t := range s.turns {
		msgs = append(msgs, agent.NewTextMessage(agent.Role(t.Role), t.Content))
	}
	return msgs
}
