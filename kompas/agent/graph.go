package agent

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("kompas.agent")

const (
	nodeAgent = "agent"
	nodeEnd   = "end"

	defaultMaxSteps = 16
)

// State is exchanged between nodes while a completion runs.
type State struct {
	Messages []*Message
}

// Node is the unit of execution in the graph.
type Node interface {
	// process the state and name the node that runs next.
	Execute(ctx context.Context, state State) (next string, newState State, err error)
	Name() string
}

// Graph routes a completion between the model node and its tool nodes.
type Graph struct {
	nodes    map[string]Node
	maxSteps int
}

func NewGraph(maxSteps int) *Graph {
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	return &Graph{
		nodes:    map[string]Node{},
		maxSteps: maxSteps,
	}
}

func (g *Graph) AddNode(node Node) {
	g.nodes[node.Name()] = node
}

// Run executes nodes starting from entrypoint until a node routes to "end"
// (or nowhere). The last message of the final state is the completion.
func (g *Graph) Run(ctx context.Context, entrypoint string, initState State) (*Message, error) {
	current, ok := g.nodes[entrypoint]
	if !ok {
		return nil, fmt.Errorf("entrypoint node %q not found", entrypoint)
	}

	state := initState
	for step := 0; step < g.maxSteps; step++ {
		next, newState, err := current.Execute(ctx, state)
		if err != nil {
			return nil, fmt.Errorf("failed executing node '%s' : %w", current.Name(), err)
		}
		state = newState

		if next == "" || next == nodeEnd {
			return state.Messages[len(state.Messages)-1], nil
		}

		current, ok = g.nodes[next]
		if !ok {
			return nil, fmt.Errorf("next node %q not found", next)
		}
	}
	return nil, fmt.Errorf("max steps (%d) exceeded", g.maxSteps)
}

// AgentNode asks the provider for the next model turn.
type AgentNode struct {
	provider Provider
	tools    []Tool
}

func (an *AgentNode) Name() string { return nodeAgent }

func (an *AgentNode) Execute(ctx context.Context, state State) (string, State, error) {
	ctx, span := tracer.Start(ctx, "agent.model")
	defer span.End()

	resp, err := an.provider.Chat(ctx, ChatRequest{
		Messages: state.Messages,
		Tools:    an.tools,
	})
	if err != nil {
		span.SetStatus(codes.Error, "provider chat failed")
		span.RecordError(err)
		return "", state, err
	}

	if len(resp.Choices) == 0 {
		return "", state, fmt.Errorf("provider returned no choices")
	}

	modelMsg := &Message{Role: RoleAssistant}

	toolCalls, hasToolCall := resp.ToolCalls()
	if hasToolCall {
		for _, tc := range toolCalls {
			modelMsg.Parts = append(modelMsg.Parts, &Part{ToolCall: tc})
		}
	} else {
		modelMsg.Parts = append(modelMsg.Parts, &Part{Text: resp.Choices[0].Text})
	}
	state.Messages = append(state.Messages, modelMsg)

	if hasToolCall {
		span.SetAttributes(attribute.String("agent.tool_call", toolCalls[0].Function.Name))
		return toolCalls[0].Function.Name, state, nil
	}
	return nodeEnd, state, nil
}

// ToolNode runs a single registered tool and routes back to the agent.
type ToolNode struct {
	tp ToolProvider
}

func NewToolNode(tool ToolProvider) *ToolNode {
	return &ToolNode{tp: tool}
}

func (tn *ToolNode) Name() string {
	return tn.tp.Def().Function.Name
}

func (tn *ToolNode) Execute(ctx context.Context, state State) (string, State, error) {
	ctx, span := tracer.Start(ctx, "agent.tool")
	defer span.End()
	span.SetAttributes(attribute.String("tool.name", tn.Name()))

	lastMsg := state.Messages[len(state.Messages)-1]
	tc, ok := lastMsg.FirstToolCall()
	if !ok {
		return "", state, fmt.Errorf("expected a tool call in the last message")
	}
	if tc.Function.Name != tn.Name() {
		return "", state, fmt.Errorf("routing error, expected tool call for %q, got %q", tn.Name(), tc.Function.Name)
	}

	toolResp, err := tn.tp.Call(ctx, tc.Function)
	if err != nil {
		// tool failures are fed back to the model, not raised
		span.RecordError(err)
		slog.Debug("tool call failed", "tool", tn.Name(), "error", err)
		toolResp = &ToolResponse{
			Name:   tn.Name(),
			Output: map[string]any{"error": err.Error()},
		}
	}

	state.Messages = append(state.Messages, &Message{
		Role:  RoleTool,
		Parts: []*Part{{ToolResponse: toolResp}},
	})
	return nodeAgent, state, nil
}
