package agent

import (
	"context"
)

// Agent orchestrates a provider and its bound tools.
type Agent struct {
	provider Provider
	tools    Tools
	system   string
	maxSteps int
}

func New(provider Provider, opts ...OptionFunc) *Agent {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.tools == nil {
		o.tools = Tools{}
	}

	return &Agent{
		provider: provider,
		tools:    o.tools,
		system:   o.system,
		maxSteps: o.maxSteps,
	}
}

// Completion runs one user turn to completion, invoking tools as the model
// asks for them, and returns the final assistant message.
func (a *Agent) Completion(ctx context.Context, msgs []*Message) (*Message, error) {
	graph := NewGraph(a.maxSteps)
	graph.AddNode(&AgentNode{
		provider: a.provider,
		tools:    a.tools.Defs(),
	})
	for _, tool := range a.tools {
		graph.AddNode(NewToolNode(tool))
	}

	history := make([]*Message, 0, len(msgs)+1)
	if a.system != "" && (len(msgs) == 0 || msgs[0].Role != RoleSystem) {
		history = append(history, NewTextMessage(RoleSystem, a.system))
	}
	history = append(history, msgs...)

	return graph.Run(ctx, nodeAgent, State{Messages: history})
}
