package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "APP_"
	defaultConfigDir = "configs"
)

// listKeys are comma-separated when they arrive through the environment.
var listKeys = map[string]bool{
	"server.cors_allowed_origins": true,
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	configDir string
}

// WithConfigDir points Load at a directory other than ./configs.
func WithConfigDir(dir string) Option {
	return func(o *loadOptions) {
		o.configDir = dir
	}
}

// Load assembles the configuration for profile. Later layers win:
//
//	defaults → base.yaml → {profile}.yaml → APP_* environment
//
// Environment names are matched against the keys already known from the
// earlier layers, so underscores inside a field name survive:
//
//	APP_SERVER_READ_TIMEOUT        → server.read_timeout
//	APP_EVENTBUS_QUEUE_SIZE        → eventbus.queue_size
//	APP_BROKER_RETRY_MAX_ATTEMPTS  → broker.retry.max_attempts
//	APP_SERVER_CORS_ALLOWED_ORIGINS=a,b → ["a", "b"]
//
// Actor seeds (directory.seed) are only read from YAML.
func Load(profile string, opts ...Option) (*Config, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	o := &loadOptions{configDir: defaultConfigDir}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, err
	}
	for _, name := range []string{"base", profile} {
		path := filepath.Join(o.configDir, name+".yaml")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s config %s: %w", name, path, err)
		}
	}
	if err := loadEnv(k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config for profile %q: %w", profile, err)
	}

	return &cfg, nil
}

// loadDefaults seeds every known key so that loadEnv can resolve it even
// when no YAML file mentions it.
func loadDefaults(k *koanf.Koanf) error {
	for key, val := range defaults() {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("setting default %s: %w", key, err)
		}
	}
	return nil
}

func loadEnv(k *koanf.Koanf) error {
	known := envKeyIndex(k.Keys())

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(name, value string) (string, any) {
			name = strings.ToLower(strings.TrimPrefix(name, envPrefix))

			key, ok := known[name]
			if !ok {
				return strings.ReplaceAll(name, "_", "."), value
			}
			if listKeys[key] {
				return key, splitList(value)
			}
			return key, value
		},
	}), nil)
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}
	return nil
}

// envKeyIndex maps the underscore form of each koanf key back to the key,
// e.g. "server_read_timeout" → "server.read_timeout".
func envKeyIndex(keys []string) map[string]string {
	index := make(map[string]string, len(keys))
	for _, key := range keys {
		index[strings.ReplaceAll(key, ".", "_")] = key
	}
	return index
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validateProfile(profile string) error {
	switch {
	case strings.TrimSpace(profile) == "":
		return errors.New("profile must not be empty")
	case strings.ContainsAny(profile, `/\`):
		return fmt.Errorf("profile must not contain path separators, got %q", profile)
	case strings.Contains(profile, ".."):
		return fmt.Errorf("profile must not contain path traversal, got %q", profile)
	}
	return nil
}
