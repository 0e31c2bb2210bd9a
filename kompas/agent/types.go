package agent

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Message is one turn exchanged with the provider. A part carries either
// text, a tool call emitted by the model, or a tool response fed back to it.
type Message struct {
	Role  Role    `json:"role"`
	Parts []*Part `json:"parts"`
}

type Part struct {
	Text         string        `json:"text,omitempty"`
	ToolCall     *ToolCall     `json:"tool_call,omitempty"`
	ToolResponse *ToolResponse `json:"tool_response,omitempty"`
}

func NewTextMessage(role Role, text string) *Message {
	return &Message{
		Role:  role,
		Parts: []*Part{{Text: text}},
	}
}

func (m *Message) Text() string {
	texts := []string{}
	for _, p := range m.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "")
}

// FirstToolCall returns the first tool-call part, if any.
func (m *Message) FirstToolCall() (*ToolCall, bool) {
	for _, p := range m.Parts {
		if p.ToolCall != nil {
			return p.ToolCall, true
		}
	}
	return nil, false
}

// ChatRequest is what the agent hands to a provider.
type ChatRequest struct {
	Messages []*Message
	Tools    []Tool
}

// ChatResponse is what a provider hands back.
type ChatResponse struct {
	ID      string
	Model   string
	Created time.Time
	Choices []Choice
	Usage   Usage
}

type Choice struct {
	Text         string
	ToolCalls    []*ToolCall
	FinishReason string
}

type Usage struct {
	PromptTokens     int32
	CompletionTokens int32
}

// ToolCalls reports the tool calls of the first choice, if any.
func (r *ChatResponse) ToolCalls() ([]*ToolCall, bool) {
	if len(r.Choices) > 0 && len(r.Choices[0].ToolCalls) > 0 {
		return r.Choices[0].ToolCalls, true
	}
	return nil, false
}
