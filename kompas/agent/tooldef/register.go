// Package tooldef manages the tool provider life cycle: implementations
// register a constructor at init time, Build turns configuration entries
// into live providers.
package tooldef

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kompas-ai/kompas/kompas/agent"
)

// Config carries the per-tool configuration an implementation may need.
type Config struct {
	// name the Register call used, discovery key.
	Name string `yaml:"name"`
	// connection string for an external call.
	Endpoint string `yaml:"endpoint"`
	// secret or api key. An implementation may fall back to its own
	// env variable when empty.
	ApiKey string `yaml:"apikey"`
	// subprocess-backed tools: command, arguments and extra KEY=VALUE
	// environment entries for the spawned server.
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Env     []string `yaml:"env"`
	// skip the build-time ping.
	DisablePing bool `yaml:"disable_ping"`
}

type ConstructFunc func(cfg Config) (agent.ToolProvider, error)

var (
	dmutex    sync.RWMutex
	providers = make(map[string]ConstructFunc)
)

func Register(name string, fn ConstructFunc) {
	dmutex.Lock()
	defer dmutex.Unlock()
	if fn == nil {
		panic("tooldef: Register constructor is nil")
	}
	if _, dup := providers[name]; dup {
		panic("tooldef: Register called twice for provider " + name)
	}
	providers[name] = fn
}

// Build constructs the configured providers. A provider that fails to
// construct or does not answer Ping is skipped, not fatal: the agent keeps
// running with the tools that work.
func Build(ctx context.Context, cfgs []Config) (agent.Tools, error) {
	type pending struct {
		provider agent.ToolProvider
		config   Config
	}

	toBuild := []pending{}
	dmutex.RLock()
	for _, cfg := range cfgs {
		fn, ok := providers[cfg.Name]
		if !ok {
			dmutex.RUnlock()
			return nil, fmt.Errorf("tooldef: unknown tool %q, forget to register?", cfg.Name)
		}
		p, err := fn(cfg)
		if err != nil {
			slog.Warn("skip tool that failed to construct", "name", cfg.Name, "error", err)
			continue
		}
		toBuild = append(toBuild, pending{provider: p, config: cfg})
	}
	dmutex.RUnlock()

	tools := agent.Tools{}
	for _, item := range toBuild {
		if !item.config.DisablePing {
			if err := item.provider.Ping(ctx); err != nil {
				slog.Warn("skip tool that not respond ping",
					"name", item.config.Name,
					"endpoint", item.config.Endpoint,
					"error", err,
				)
				continue
			}
		}
		tools = append(tools, item.provider)
		slog.Debug("tool initiated", "name", item.config.Name, "endpoint", item.config.Endpoint)
	}
	return tools, nil
}

// RegisteredTools lists all registered provider names.
func RegisteredTools() []string {
	dmutex.RLock()
	defer dmutex.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	return names
}
