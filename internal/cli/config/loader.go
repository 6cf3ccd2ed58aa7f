package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// configFileUsed tracks which config file the last Load picked up.
var configFileUsed string

// findConfigFile finds the config file to use.
// Priority: explicit path > guardrail.yaml > guardrail.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat("guardrail.yaml"); err == nil {
		return "guardrail.yaml"
	}
	if _, err := os.Stat("guardrail.yml"); err == nil {
		return "guardrail.yml"
	}
	return ""
}

// GetConfigFileUsed returns the config file used by the last Load.
func GetConfigFileUsed() string {
	return configFileUsed
}

// Load loads configuration from file and environment variables.
// Precedence (highest to lowest): env vars > config file > defaults.
func Load(cfgFile string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"default_framework": "",
		"concurrency":       DefaultConcurrency,
		"continue_on_error": false,
		"verbose":           false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load config file if present
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (GUARDRAIL_ prefix)
	// Transform: GUARDRAIL_DEFAULT_FRAMEWORK -> default_framework
	if err := k.Load(env.Provider("GUARDRAIL_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "GUARDRAIL_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.Concurrency < 1 {
		cfg.Concurrency = DefaultConcurrency
	}

	return &cfg, nil
}
