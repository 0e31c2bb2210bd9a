package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/kompas-ai/kompas/kompas/agent"
)

var _ agent.Provider = (*GeminiAdapter)(nil)

// GeminiAdapter drives the Gemini API through the official genai sdk.
type GeminiAdapter struct {
	model string
	cli   *genai.Client
	conf  *Config
}

func NewGeminiAdapter(ctx context.Context, model, key string, config *Config) (*GeminiAdapter, error) {
	if model == "" {
		return nil, fmt.Errorf("gemini_adapter model cannot be empty")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed start gemini_adapter: %w", err)
	}
	return &GeminiAdapter{
		model: model,
		cli:   cli,
		conf:  config,
	}, nil
}

// Chat implements agent.Provider.
func (g *GeminiAdapter) Chat(ctx context.Context, req agent.ChatRequest) (*agent.ChatResponse, error) {
	var sys *genai.Content
	contents := []*genai.Content{}

	for _, msg := range req.Messages {
		content := &genai.Content{}
		switch msg.Role {
		case agent.RoleAssistant:
			content.Role = genai.RoleModel
		case agent.RoleTool, agent.RoleUser:
			content.Role = genai.RoleUser
		case agent.RoleSystem:
		default:
			return nil, fmt.Errorf("gemini_adapter unknown message role: %v", msg.Role)
		}

		if err := messageToContent(msg, content); err != nil {
			return nil, fmt.Errorf("gemini_adapter failed convert message: %w", err)
		}

		if msg.Role == agent.RoleSystem {
			sys = content
			continue
		}
		contents = append(contents, content)
	}

	if len(contents) == 0 {
		return nil, fmt.Errorf("gemini_adapter content is empty")
	}

	config := genai.GenerateContentConfig{
		SystemInstruction: sys,
		Tools:             toolEncoding(req.Tools),
		SafetySettings:    safetySetting,
		Temperature:       g.conf.Temperature,
		TopP:              g.conf.TopP,
		TopK:              g.conf.TopK,
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents, &config)
	if err != nil {
		return nil, fmt.Errorf("gemini_adapter failed generating content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini_adapter response has no candidates")
	}

	toolCalls := []*agent.ToolCall{}
	for _, fc := range resp.FunctionCalls() {
		tc, err := toToolCall(fc)
		if err != nil {
			return nil, fmt.Errorf("gemini_adapter failed converting function call: %w", err)
		}
		toolCalls = append(toolCalls, tc)
	}

	candidate := resp.Candidates[0]
	return &agent.ChatResponse{
		ID:      resp.ResponseID,
		Model:   resp.ModelVersion,
		Created: resp.CreateTime,
		Choices: []agent.Choice{
			{
				Text:         resp.Text(),
				ToolCalls:    toolCalls,
				FinishReason: string(candidate.FinishReason),
			},
		},
		Usage: agent.Usage{
			CompletionTokens: candidate.TokenCount,
		},
	}, nil
}

func messageToContent(src *agent.Message, dst *genai.Content) error {
	for _, p := range src.Parts {
		part := &genai.Part{}
		var err error

		switch {
		case p.Text != "":
			part = genai.NewPartFromText(p.Text)
		case p.ToolCall != nil:
			part.FunctionCall, err = fromToolCall(p.ToolCall)
		case p.ToolResponse != nil:
			part = genai.NewPartFromFunctionResponse(
				p.ToolResponse.Name,
				p.ToolResponse.Output,
			)
		}
		if err != nil {
			return err
		}
		dst.Parts = append(dst.Parts, part)
	}
	return nil
}

func toolEncoding(src []agent.Tool) []*genai.Tool {
	tools := []*genai.Tool{}
	for _, t := range src {
		tools = append(tools, &genai.Tool{
			FunctionDeclarations: []*genai.FunctionDeclaration{toFunctionDeclaration(&t)},
		})
	}
	return tools
}

func toFunctionDeclaration(t *agent.Tool) *genai.FunctionDeclaration {
	if t == nil {
		return nil
	}

	mapType := func(inputType string) genai.Type {
		switch strings.ToLower(inputType) {
		case "string":
			return genai.TypeString
		case "number", "float", "double":
			return genai.TypeNumber
		case "integer", "int":
			return genai.TypeInteger
		case "boolean", "bool":
			return genai.TypeBoolean
		case "object":
			return genai.TypeObject
		case "array":
			return genai.TypeArray
		default:
			return genai.Type(strings.ToUpper(inputType))
		}
	}

	paramSchema := &genai.Schema{
		Type:       mapType(t.Function.Parameters.Type),
		Properties: make(map[string]*genai.Schema),
		Required:   t.Function.Parameters.Required,
	}
	for name, def := range t.Function.Parameters.Properties {
		paramSchema.Properties[name] = &genai.Schema{
			Type:        mapType(def.Type),
			Description: def.Description,
			Enum:        def.Enum,
		}
	}

	return &genai.FunctionDeclaration{
		Name:        t.Function.Name,
		Description: t.Function.Description,
		Parameters:  paramSchema,
	}
}

func toToolCall(fc *genai.FunctionCall) (*agent.ToolCall, error) {
	if fc == nil {
		return nil, nil
	}
	args, err := json.Marshal(fc.Args)
	if err != nil {
		return nil, fmt.Errorf("failed marshal %T to json: %w", fc.Args, err)
	}
	return &agent.ToolCall{
		ID:   fc.ID,
		Type: "function",
		Function: agent.FunctionCall{
			Name:      fc.Name,
			Arguments: string(args),
		},
	}, nil
}

func fromToolCall(tc *agent.ToolCall) (*genai.FunctionCall, error) {
	if tc == nil {
		return nil, nil
	}
	args := map[string]any{}
	if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
		return nil, fmt.Errorf("failed unmarshal tool call arguments: %w", err)
	}
	return &genai.FunctionCall{
		ID:   tc.ID,
		Name: tc.Function.Name,
		Args: args,
	}, nil
}

var safetySetting = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}
