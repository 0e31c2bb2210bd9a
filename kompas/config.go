package kompas

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kompas-ai/kompas/kompas/agent/driver"
	"github.com/kompas-ai/kompas/kompas/agent/tooldef"
)

//go:embed config.yaml
var defaultConfig embed.FS

// holds aggregate configuration across the kompas environment.
type Config struct {
	Server   ServerConfig     `yaml:"server"`
	Provider Provider         `yaml:"provider"`
	Tools    []tooldef.Config `yaml:"tools"`
	Observe  ObsConfig        `yaml:"observability"`
}

// kompas server config
type ServerConfig struct {
	Address string `yaml:"address"`
	Debug   bool   `yaml:"debug"`
}

// external llm provider
type Provider struct {
	Name     string        `yaml:"name"`
	Model    string        `yaml:"model"`
	ApiKey   string        `yaml:"apikey"`
	Endpoint string        `yaml:"endpoint"`
	Options  driver.Config `yaml:"options"`
}

type ObsConfig struct {
	Enable bool `yaml:"enable"`
	// "stdout", "otlp" or "prometheus". defaults to stdout when enabled.
	Exporter string `yaml:"exporter"`
	// otlp http collector endpoint
	Endpoint string `yaml:"endpoint"`
	// secure endpoint (https)
	Secure bool `yaml:"secure"`
}

// Validate checks the configuration for correctness.
func (c *Config) validate() error {
	if c.Server.Address == "" {
		return errors.New("server address is required")
	}
	// Check if the address is a valid host:port
	if _, _, err := net.SplitHostPort(c.Server.Address); err != nil {
		return fmt.Errorf("invalid server address format: %w", err)
	}

	if c.Provider.Name == "" {
		return errors.New("provider name is required")
	}

	if c.Provider.Model == "" {
		return errors.New("provider model is required")
	}

	return nil
}

// load configuration from default embedded config.yaml, provided config.yaml, env and flags before validation.
func LoadAndValidate(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// env variables
	v.SetEnvPrefix("KOMPAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// pflags
	for flagName, configKey := range flagToConfigKeyMap {
		v.BindPFlag(configKey, flags.Lookup(flagName))
	}

	// defaults come from the embedded config.yaml
	defaultBytes, _ := defaultConfig.ReadFile("config.yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultBytes)); err != nil {
		return nil, fmt.Errorf("failed to read default config: %w", err)
	}

	// external config file if provided
	configFile, _ := flags.GetString(FLAG_SERVER_CONFIG_FILE)
	if configFile != "" {
		f, err := os.Open(configFile)
		if err != nil {
			return nil, fmt.Errorf("config : %w", err)
		}
		defer f.Close()
		providedBytes, _ := io.ReadAll(f)
		if err := v.MergeConfig(bytes.NewReader(providedBytes)); err != nil {
			return nil, fmt.Errorf("failed to read provided config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
