package agent_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kompas-ai/kompas/kompas/agent"
	"github.com/kompas-ai/kompas/kompas/agent/tooldef"
	_ "github.com/kompas-ai/kompas/kompas/agent/toolprovider"
	"github.com/kompas-ai/kompas/kompas/agent/toolprovider/citytime"
)

var _ agent.Provider = (*mockProvider)(nil)

type mockProvider struct {
	ChatFunc func(ctx context.Context, req agent.ChatRequest) (*agent.ChatResponse, error)
}

func (mp *mockProvider) Chat(ctx context.Context, req agent.ChatRequest) (*agent.ChatResponse, error) {
	if mp.ChatFunc != nil {
		return mp.ChatFunc(ctx, req)
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("message cannot be nil")
	}
	last := req.Messages[len(req.Messages)-1]
	return &agent.ChatResponse{
		Choices: []agent.Choice{{Text: last.Text()}},
	}, nil
}

func TestAgent_Completion(t *testing.T) {
	tools, err := tooldef.Build(t.Context(), []tooldef.Config{{Name: citytime.Namespace}})
	require.NoError(t, err)
	require.Len(t, tools, 1)

	testCases := []struct {
		name          string
		messages      []*agent.Message
		provider      agent.Provider
		expectedText  string
		expectedError string
	}{
		{
			name: "completion with no tool call",
			messages: []*agent.Message{
				agent.NewTextMessage(agent.RoleUser, "hello"),
			},
			provider: &mockProvider{
				ChatFunc: func(ctx context.Context, req agent.ChatRequest) (*agent.ChatResponse, error) {
					return &agent.ChatResponse{
						Choices: []agent.Choice{{Text: "hello world"}},
					}, nil
				},
			},
			expectedText: "hello world",
		},
		{
			name: "completion with one tool call",
			messages: []*agent.Message{
				agent.NewTextMessage(agent.RoleUser, "what time is it in tokyo?"),
			},
			provider: &mockProvider{
				ChatFunc: func(ctx context.Context, req agent.ChatRequest) (*agent.ChatResponse, error) {
					if len(req.Messages) == 0 {
						return nil, fmt.Errorf("zero message")
					}
					// first round: ask for the tool, second round: answer
					last := req.Messages[len(req.Messages)-1]
					if last.Role != agent.RoleTool {
						return &agent.ChatResponse{
							Choices: []agent.Choice{
								{
									ToolCalls: []*agent.ToolCall{
										{
											ID:   "call_1",
											Type: "function",
											Function: agent.FunctionCall{
												Name:      "get_current_time",
												Arguments: `{"city":"tokyo"}`,
											},
										},
									},
								},
							},
						}, nil
					}
					return &agent.ChatResponse{
						Choices: []agent.Choice{{Text: "it is tea time in tokyo"}},
					}, nil
				},
			},
			expectedText: "it is tea time in tokyo",
		},
		{
			name: "error from provider",
			messages: []*agent.Message{
				agent.NewTextMessage(agent.RoleUser, "hello"),
			},
			provider: &mockProvider{
				ChatFunc: func(ctx context.Context, req agent.ChatRequest) (*agent.ChatResponse, error) {
					return nil, errors.New("provider error")
				},
			},
			expectedError: "failed executing node 'agent' : provider error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := agent.New(tc.provider, agent.WithTools(tools...))

			msg, err := a.Completion(context.Background(), tc.messages)
			if tc.expectedError != "" {
				require.Error(t, err)
				assert.Equal(t, tc.expectedError, err.Error())
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expectedText, msg.Text())
			}
		})
	}
}

func TestAgent_SystemPrompt(t *testing.T) {
	var seen []*agent.Message
	provider := &mockProvider{
		ChatFunc: func(ctx context.Context, req agent.ChatRequest) (*agent.ChatResponse, error) {
			seen = req.Messages
			return &agent.ChatResponse{Choices: []agent.Choice{{Text: "ok"}}}, nil
		},
	}

	a := agent.New(provider, agent.WithSystemPrompt("be helpful"))
	_, err := a.Completion(t.Context(), []*agent.Message{
		agent.NewTextMessage(agent.RoleUser, "hi"),
	})
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, agent.RoleSystem, seen[0].Role)
	assert.Equal(t, "be helpful", seen[0].Text())
}

func TestAgent_MaxSteps(t *testing.T) {
	tools, err := tooldef.Build(t.Context(), []tooldef.Config{{Name: citytime.Namespace}})
	require.NoError(t, err)

	// a provider that always asks for the tool never terminates on its own
	provider := &mockProvider{
		ChatFunc: func(ctx context.Context, req agent.ChatRequest) (*agent.ChatResponse, error) {
			return &agent.ChatResponse{
				Choices: []agent.Choice{
					{
						ToolCalls: []*agent.ToolCall{
							{
								Type: "function",
								Function: agent.FunctionCall{
									Name:      "get_current_time",
									Arguments: `{"city":"tokyo"}`,
								},
							},
						},
					},
				},
			}, nil
		},
	}

	a := agent.New(provider, agent.WithTools(tools...), agent.WithMaxSteps(4))
	_, err = a.Completion(t.Context(), []*agent.Message{
		agent.NewTextMessage(agent.RoleUser, "loop forever"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max steps")
}
