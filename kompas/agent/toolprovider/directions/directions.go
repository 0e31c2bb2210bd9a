// Package directions proxies a driving-directions tool hosted by an external
// MCP server subprocess (by default the google-maps server run through npx).
// The subprocess is spawned lazily and kept for the life of the process.
package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kompas-ai/kompas/kompas/agent"
	"github.com/kompas-ai/kompas/kompas/agent/tooldef"
)

const (
	Namespace = "directions"

	ENV_API_KEY = "GOOGLE_MAPS_API_KEY"

	_default_command = "npx"
	// tool name on the remote google-maps server
	_remote_tool = "maps_directions"
)

var _default_args = []string{"-y", "@modelcontextprotocol/server-google-maps"}

func init() {
	tooldef.Register(Namespace, New)
}

var definition = agent.Tool{
	Type: "function",
	Function: agent.Function{
		Name:        "get_directions",
		Description: "get driving directions between two cities or places",
		Parameters: agent.ParameterSchema{
			Type: agent.ParameterTypeObject,
			Properties: map[string]agent.ParameterDefinition{
				"origin": {
					Type:        "string",
					Description: "starting city or address",
				},
				"destination": {
					Type:        "string",
					Description: "destination city or address",
				},
			},
			Required: []string{"origin", "destination"},
		},
	},
}

var _ agent.ToolProvider = (*Provider)(nil)

type Provider struct {
	command string
	args    []string
	env     []string

	mx  sync.Mutex
	cli *mcpclient.Client
}

func New(cfg tooldef.Config) (agent.ToolProvider, error) {
	key := cfg.ApiKey
	if key == "" {
		key = os.Getenv(ENV_API_KEY)
	}
	if key == "" {
		return nil, fmt.Errorf("directions: %s is not configured", ENV_API_KEY)
	}

	command := cfg.Command
	if command == "" {
		command = _default_command
	}
	args := cfg.Args
	if len(args) == 0 {
		args = _default_args
	}
	env := append([]string{}, cfg.Env...)
	env = append(env, ENV_API_KEY+"="+key)

	return &Provider{
		command: command,
		args:    args,
		env:     env,
	}, nil
}

func (p *Provider) Def() agent.Tool {
	return definition
}

// Ping spawns and initializes the server so a broken command is caught at
// build time and the tool is skipped instead of failing mid-conversation.
func (p *Provider) Ping(ctx context.Context) error {
	_, err := p.connect(ctx)
	return err
}

func (p *Provider) connect(ctx context.Context) (*mcpclient.Client, error) {
	p.mx.Lock()
	defer p.mx.Unlock()
	if p.cli != nil {
		return p.cli, nil
	}

	cli, err := mcpclient.NewStdioMCPClient(p.command, p.env, p.args...)
	if err != nil {
		return nil, fmt.Errorf("directions: spawn mcp server: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "kompas",
		Version: "0.1.0",
	}
	if _, err := cli.Initialize(ctx, initReq); err != nil {
		cli.Close()
		return nil, fmt.Errorf("directions: initialize mcp server: %w", err)
	}

	p.cli = cli
	return cli, nil
}

type callArgs struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

func (p *Provider) Call(ctx context.Context, fc agent.FunctionCall) (*agent.ToolResponse, error) {
	var args callArgs
	if err := json.Unmarshal([]byte(fc.Arguments), &args); err != nil {
		return &agent.ToolResponse{
			Name:   fc.Name,
			Output: map[string]any{"error": "wrong format arguments, expected {origin, destination}"},
		}, nil
	}
	if strings.TrimSpace(args.Origin) == "" || strings.TrimSpace(args.Destination) == "" {
		return &agent.ToolResponse{
			Name:   fc.Name,
			Output: map[string]any{"error": "origin and destination cannot be empty"},
		}, nil
	}

	cli, err := p.connect(ctx)
	if err != nil {
		return nil, err
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = _remote_tool
	req.Params.Arguments = map[string]any{
		"origin":      args.Origin,
		"destination": args.Destination,
		"mode":        "driving",
	}

	result, err := cli.CallTool(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("directions: call remote tool: %w", err)
	}

	texts := []string{}
	for _, content := range result.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			texts = append(texts, tc.Text)
		}
	}
	out := strings.Join(texts, "\n")

	if result.IsError {
		return &agent.ToolResponse{
			Name:   fc.Name,
			Output: map[string]any{"error": out},
		}, nil
	}
	return &agent.ToolResponse{
		Name:   fc.Name,
		Output: map[string]any{"directions": out},
	}, nil
}
