package driver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"context"

	ollama "github.com/ollama/ollama/api"

	"github.com/kompas-ai/kompas/kompas/agent"
)

const _ollama_domain = "http://127.0.0.1:11434"

var _ agent.Provider = (*OllamaAdapter)(nil)

// OllamaAdapter drives a local ollama server.
type OllamaAdapter struct {
	model string
	cli   *ollama.Client
	conf  *Config
}

func NewOllamaAdapter(model, key string, config *Config) (*OllamaAdapter, error) {
	if model == "" {
		return nil, fmt.Errorf("ollama_adapter model cannot be empty")
	}
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = _ollama_domain
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("ollama_adapter bad endpoint: %w", err)
	}
	return &OllamaAdapter{
		model: model,
		cli:   ollama.NewClient(u, http.DefaultClient),
		conf:  config,
	}, nil
}

// Chat implements agent.Provider.
func (d *OllamaAdapter) Chat(ctx context.Context, req agent.ChatRequest) (*agent.ChatResponse, error) {
	msgs := make([]ollama.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		msgs = append(msgs, toOllamaMessage(msg))
	}

	tools := make([]ollama.Tool, 0, len(req.Tools))
	for _, tool := range req.Tools {
		var t ollama.Tool
		toOllamaTool(tool, &t)
		tools = append(tools, t)
	}

	opts := map[string]any{}
	if d.conf.Temperature != nil {
		opts["temperature"] = *d.conf.Temperature
	}
	if d.conf.TopP != nil {
		opts["top_p"] = *d.conf.TopP
	}
	if d.conf.TopK != nil {
		opts["top_k"] = *d.conf.TopK
	}

	stream := false
	oReq := &ollama.ChatRequest{
		Model:    d.model,
		Messages: msgs,
		Stream:   &stream,
		Options:  opts,
		Tools:    tools,
	}

	var resp *agent.ChatResponse
	err := d.cli.Chat(ctx, oReq, func(cr ollama.ChatResponse) error {
		tcs := []*agent.ToolCall{}
		for _, tc := range cr.Message.ToolCalls {
			tcs = append(tcs, &agent.ToolCall{
				Type: "function",
				Function: agent.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments.String(),
				},
			})
		}
		resp = &agent.ChatResponse{
			Model:   cr.Model,
			Created: cr.CreatedAt,
			Choices: []agent.Choice{
				{
					Text:         cr.Message.Content,
					ToolCalls:    tcs,
					FinishReason: cr.DoneReason,
				},
			},
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama_adapter chat: %w", err)
	}
	return resp, nil
}

// toOllamaMessage flattens a message into ollama's role/content shape. Tool
// responses are serialized to json content under the tool role.
func toOllamaMessage(msg *agent.Message) ollama.Message {
	om := ollama.Message{Role: string(msg.Role)}

	if msg.Role == agent.RoleTool {
		for _, p := range msg.Parts {
			if p.ToolResponse == nil {
				continue
			}
			b, err := json.Marshal(p.ToolResponse.Output)
			if err != nil {
				om.Content = fmt.Sprintf("error: tool %s produced unserializable output", p.ToolResponse.Name)
				continue
			}
			om.Content = string(b)
		}
		return om
	}

	om.Content = msg.Text()
	return om
}

func toOllamaTool(src agent.Tool, dst *ollama.Tool) {
	dst.Type = src.Type
	dst.Function.Name = src.Function.Name
	dst.Function.Description = src.Function.Description
	dst.Function.Parameters.Type = src.Function.Parameters.Type
	dst.Function.Parameters.Required = src.Function.Parameters.Required

	dst.Function.Parameters.Properties = make(
		map[string]struct {
			Type        ollama.PropertyType `json:"type"`
			Items       any                 `json:"items,omitempty"`
			Description string              `json:"description"`
			Enum        []any               `json:"enum,omitempty"`
		},
	)
	for name, def := range src.Function.Parameters.Properties {
		var enums []any
		for _, e := range def.Enum {
			enums = append(enums, e)
		}
		dst.Function.Parameters.Properties[name] = struct {
			Type        ollama.PropertyType `json:"type"`
			Items       any                 `json:"items,omitempty"`
			Description string              `json:"description"`
			Enum        []any               `json:"enum,omitempty"`
		}{
			Type:        ollama.PropertyType{def.Type},
			Description: def.Description,
			Enum:        enums,
		}
	}
}
