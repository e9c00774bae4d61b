package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv overrides the configured API key when set, keeping the
// credential out of the config file.
const APIKeyEnv = "FRAUDSHIELD_API_KEY"

// Loaded captures resolved config path, parsed values, and non-fatal
// warnings.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// Load resolves, reads, parses, and validates the runtime configuration.
func Load(explicitPath string) (Loaded, error) {
	resolvedPath, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	base := Default()
	content, err := os.ReadFile(resolvedPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := applyEnv(base)
			warnings, validateErr := Validate(cfg)
			if validateErr != nil {
				return Loaded{}, validateErr
			}
			warnings = append([]Warning{{
				Message: fmt.Sprintf("config file %q not found; using defaults", resolvedPath),
			}}, warnings...)
			return Loaded{Path: resolvedPath, Config: cfg, Warnings: warnings, Exists: false}, nil
		}
		return Loaded{}, fmt.Errorf("read config %q: %w", resolvedPath, err)
	}

	cfg, warnings, err := Parse(string(content), base)
	if err != nil {
		return Loaded{}, fmt.Errorf("parse config %q: %w", resolvedPath, err)
	}

	return Loaded{Path: resolvedPath, Config: cfg, Warnings: warnings, Exists: true}, nil
}

// Parse layers YAML content over base defaults and validates the
// result.
func Parse(content string, base Config) (Config, []Warning, error) {
	cfg := base
	if strings.TrimSpace(content) != "" {
		if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
			return Config{}, nil, fmt.Errorf("decode yaml: %w", err)
		}
	}
	cfg = applyEnv(cfg)

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

// applyEnv resolves the environment credential override.
func applyEnv(cfg Config) Config {
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		cfg.API.APIKey = key
	}
	return cfg
}
