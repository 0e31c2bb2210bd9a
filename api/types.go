package api

import (
	"time"

	"github.com/kompas-ai/kompas/kompas/agent"
)

// Request
type ChatRequest struct {
	Content []*Message `json:"content"`
}

type Message = agent.Message

// Response
type ChatResponse struct {
	Created time.Time `json:"created"`
	Text    string    `json:"text"`
}

// Turn mirrors the server side session turn.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Session struct {
	ID    string `json:"id"`
	State string `json:"state"`
	Turns []Turn `json:"turns"`
}

/* HELPER  */

func NewTextMessage(role string, text string) *Message {
	return &Message{
		Role: agent.Role(role),
		Parts: []*agent.Part{
			NewTextPart(text),
		},
	}
}

func NewTextPart(text string) *agent.Part {
	return &agent.Part{
		Text: text,
	}
}
