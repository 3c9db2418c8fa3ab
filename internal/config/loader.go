package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment names read by Load.
const (
	EnvPrefix = "LDEN_"
	EnvFile   = "LDEN_CONFIG"
)

type loadOptions struct {
	file      string
	overrides map[string]interface{}
}

// LoadOption customizes Load.
type LoadOption func(*loadOptions)

// WithFile reads path instead of the file named by LDEN_CONFIG.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) {
		if path != "" {
			o.file = path
		}
	}
}

// WithOverrides sets keys above every other layer. Nil and empty string
// values are skipped so unset flags leave lower layers in place.
func WithOverrides(values map[string]interface{}) LoadOption {
	return func(o *loadOptions) {
		for k, v := range values {
			if v == nil {
				continue
			}
			if s, ok := v.(string); ok && s == "" {
				continue
			}
			o.overrides[k] = v
		}
	}
}

// Load builds a Config by layering defaults, optional file, env vars and
// overrides. Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) from WithFile or LDEN_CONFIG
//  3. env (prefix LDEN_)
//  4. overrides (command line flags)
func Load(ctx context.Context, opts ...LoadOption) (*Config, error) {
	o := loadOptions{file: os.Getenv(EnvFile), overrides: map[string]interface{}{}}
	for _, opt := range opts {
		opt(&o)
	}

	base := New(ctx)
	k := koanf.New(".")

	if o.file != "" {
		if err := k.Load(file.Provider(o.file), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, o.file, err)
		}
	}

	// LDEN_OUTPUT_FILE -> output_file; underscores are kept to match the
	// koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// LDEN_CONFIG names the file and is not a setting.
	k.Delete("config")

	for key, v := range o.overrides {
		if err := k.Set(key, v); err != nil {
			return nil, fmt.Errorf("%w: override %s: %w", ErrLoadConfig, key, err)
		}
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
