package citytime

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/kompas-ai/kompas/kompas/agent"
	"github.com/kompas-ai/kompas/kompas/agent/tooldef"
	"github.com/kompas-ai/kompas/kompas/resolve"
)

const (
	Namespace = "citytime"

	ENV_API_KEY = "TIMEZONEDB_API_KEY"
)

func init() {
	tooldef.Register(Namespace, New)
}

var definition = agent.Tool{
	Type: "function",
	Function: agent.Function{
		Name:        "get_current_time",
		Description: "get the current local time for a city, use it when the user asks what time it is somewhere",
		Parameters: agent.ParameterSchema{
			Type: agent.ParameterTypeObject,
			Properties: map[string]agent.ParameterDefinition{
				"city": {
					Type:        "string",
					Description: "city name, e.g. 'Tokyo' or 'Los Angeles'",
				},
			},
			Required: []string{"city"},
		},
	},
}

var _ agent.ToolProvider = (*Provider)(nil)

// Provider exposes the time resolver as a callable tool.
type Provider struct {
	resolver *resolve.TimeResolver
}

func New(cfg tooldef.Config) (agent.ToolProvider, error) {
	key := cfg.ApiKey
	if key == "" {
		key = os.Getenv(ENV_API_KEY)
	}
	return &Provider{
		resolver: resolve.NewTimeResolver(resolve.TimeConfig{
			ApiKey:   key,
			Endpoint: cfg.Endpoint,
		}),
	}, nil
}

func (p *Provider) Def() agent.Tool {
	return definition
}

func (p *Provider) Ping(ctx context.Context) error {
	return nil
}

type callArgs struct {
	City string `json:"city"`
}

func (p *Provider) Call(ctx context.Context, fc agent.FunctionCall) (*agent.ToolResponse, error) {
	var args callArgs
	if err := json.Unmarshal([]byte(fc.Arguments), &args); err != nil {
		return &agent.ToolResponse{
			Name:   fc.Name,
			Output: map[string]any{"error": "wrong format arguments, expected {city: city_name}"},
		}, nil
	}
	if strings.TrimSpace(args.City) == "" {
		return &agent.ToolResponse{
			Name:   fc.Name,
			Output: map[string]any{"error": "city cannot be empty"},
		}, nil
	}

	res := p.resolver.Resolve(ctx, args.City)
	return &agent.ToolResponse{
		Name:   fc.Name,
		Output: res.Output(),
	}, nil
}
