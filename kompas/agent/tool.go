package agent

import (
	"context"
	"fmt"
)

const ParameterTypeObject = "object"

// ToolProvider is a callable function exposed to the model.
type ToolProvider interface {
	// declared signature the model sees.
	Def() Tool
	// invoke the tool call.
	Call(ctx context.Context, fn FunctionCall) (*ToolResponse, error)
	// a provider that fails Ping at build time is not registered.
	Ping(ctx context.Context) error
}

type Tools []ToolProvider

func (t Tools) Defs() []Tool {
	defs := make([]Tool, len(t))
	for i := range t {
		defs[i] = t[i].Def()
	}
	return defs
}

func (t Tools) Invoke(ctx context.Context, fc FunctionCall) (*ToolResponse, error) {
	for _, tp := range t {
		if tp.Def().Function.Name == fc.Name {
			return tp.Call(ctx, fc)
		}
	}
	return nil, fmt.Errorf("tool %q not found", fc.Name)
}

// Tool wraps a single tool entry, marshaled to json for the provider.
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

type Function struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  ParameterSchema `json:"parameters"`
}

// ParameterSchema is a minimal json-schema for the function inputs.
type ParameterSchema struct {
	Type       string                         `json:"type"`
	Properties map[string]ParameterDefinition `json:"properties"`
	Required   []string                       `json:"required,omitempty"`
}

type ParameterDefinition struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// ToolCall is one entry of the model's tool_calls output.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall holds the function name and its raw json arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolResponse is the payload a tool hands back to the model.
type ToolResponse struct {
	Name   string         `json:"name"`
	Output map[string]any `json:"output"`
}
