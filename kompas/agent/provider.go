package agent

import "context"

// Provider is the remote llm backend serving the model.
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
