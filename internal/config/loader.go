package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix     = "WATCHRANK_"
	EnvConfigFile = "WATCHRANK_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if WATCHRANK_CONFIG is set
//  3. env (prefix WATCHRANK_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// WATCHRANK_TOP_N -> top_n; underscores are kept to match the koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The config file path itself is not a Config field.
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields a run depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Column) == "" {
		return fmt.Errorf("%w: column must not be empty", ErrInvalidConfig)
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("%w: delimiter must be a single character, got %q", ErrInvalidConfig, c.Delimiter)
	}
	if r := c.Comma(); r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return fmt.Errorf("%w: delimiter %q is not allowed", ErrInvalidConfig, c.Delimiter)
	}
	if c.Comment != "" {
		if utf8.RuneCountInString(c.Comment) != 1 {
			return fmt.Errorf("%w: comment must be a single character, got %q", ErrInvalidConfig, c.Comment)
		}
		if r := c.CommentRune(); r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError || r == c.Comma() {
			return fmt.Errorf("%w: comment %q is not allowed with delimiter %q", ErrInvalidConfig, c.Comment, c.Delimiter)
		}
	}
	if c.Width < MinWidth {
		return fmt.Errorf("%w: width must be at least %d, got %d", ErrInvalidConfig, MinWidth, c.Width)
	}
	if c.TopN < 1 {
		return fmt.Errorf("%w: top_n must be at least 1, got %d", ErrInvalidConfig, c.TopN)
	}
	return nil
}
