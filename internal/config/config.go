package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Gateway GatewayConfig `yaml:"gateway"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Host                string   `yaml:"host"`
	Port                int      `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
	AllowedOrigins      []string `yaml:"allowed_origins"`
}

type StoreConfig struct {
	// Driver selects the backend: "memory" (default) or "sqlite".
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type GatewayConfig struct {
	BaseURL             string `yaml:"base_url"`
	Model               string `yaml:"model"`
	ChatTimeoutSeconds  int    `yaml:"chat_timeout_seconds"`
	ProbeTimeoutSeconds int    `yaml:"probe_timeout_seconds"`

	// APIKey is sourced exclusively from the LEXAGENT_INFERENCE_KEY
	// environment variable. There is no compiled-in default and the YAML
	// file cannot set it.
	APIKey string `yaml:"-"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8000,
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 150,
			AllowedOrigins:      []string{"http://localhost:3000"},
		},
		Store: StoreConfig{
			Driver: "memory",
			Path:   "./lexagent.db",
		},
		Gateway: GatewayConfig{
			BaseURL:             "https://inference.do-ai.run",
			Model:               "openai-gpt-oss-120b",
			ChatTimeoutSeconds:  120,
			ProbeTimeoutSeconds: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file and merges it over defaults. If the file
// does not exist, defaults are returned without error. The inference API key
// is read from the environment afterwards, never from the file.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("No config file found, using defaults", "path", path)
		} else {
			return cfg, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	cfg.Gateway.APIKey = os.Getenv("LEXAGENT_INFERENCE_KEY")

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields the rest of the process depends on.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	switch c.Store.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("store.driver must be \"memory\" or \"sqlite\", got %q", c.Store.Driver)
	}
	if c.Store.Driver == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("store.path is required with the sqlite driver")
	}
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.base_url cannot be empty")
	}
	if c.Gateway.Model == "" {
		return fmt.Errorf("gateway.model cannot be empty")
	}
	return nil
}

// ChatTimeout returns the chat exchange bound as a duration.
func (g GatewayConfig) ChatTimeout() time.Duration {
	return time.Duration(g.ChatTimeoutSeconds) * time.Second
}

// ProbeTimeout returns the connectivity probe bound as a duration.
func (g GatewayConfig) ProbeTimeout() time.Duration {
	return time.Duration(g.ProbeTimeoutSeconds) * time.Second
}
