// Package kompas wires the configured llm provider, the tools and the
// conversation surfaces into a runnable service.
package kompas

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kompas-ai/kompas/kompas/agent"
	"github.com/kompas-ai/kompas/kompas/agent/driver"
	"github.com/kompas-ai/kompas/kompas/agent/tooldef"
	_ "github.com/kompas-ai/kompas/kompas/agent/toolprovider"
)

// instruction given to the model on every conversation.
const systemPrompt = "You are a helpful assistant who answers questions about the current time " +
	"and weather in a city, and can provide driving directions between two places. " +
	"Use the available tools to answer. When a tool reports an error, relay its message to the user."

type kompas struct {
	Agent
}

type Agent interface {
	Completion(ctx context.Context, msgs []*agent.Message) (*agent.Message, error)
}

func New(ctx context.Context, cfg *Config) (*kompas, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	//logging
	if cfg.Server.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		slog.Debug("configuration", "config", cfg)
	}

	// llm provider
	driverOpts := cfg.Provider.Options
	if driverOpts.Endpoint == "" {
		driverOpts.Endpoint = cfg.Provider.Endpoint
	}

	var provider agent.Provider
	var err error

	switch cfg.Provider.Name {

	case "ollama":
		provider, err = driver.NewOllamaAdapter(cfg.Provider.Model, cfg.Provider.ApiKey, &driverOpts)

	case "genai":
		provider, err = driver.NewGeminiAdapter(ctx, cfg.Provider.Model, cfg.Provider.ApiKey, &driverOpts)

	default:
		err = fmt.Errorf("unknown provider specified in config: %s", cfg.Provider.Name)

	}
	if err != nil {
		slog.Error("kompas init provider", "error", err)
		return nil, err
	}

	// tools
	t, err := tooldef.Build(ctx, cfg.Tools)
	if err != nil {
		slog.Error(err.Error())
		return nil, err
	}
	if cfg.Server.Debug {
		slog.Debug("tools", "list", tooldef.RegisteredTools())
	}

	// agent
	a := agent.New(
		provider,
		agent.WithTools(t...),
		agent.WithSystemPrompt(systemPrompt),
	)

	return &kompas{
		Agent: a,
	}, nil
}
