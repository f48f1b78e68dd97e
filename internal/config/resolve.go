// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Resolve produces the effective engine configuration from defaults, the
// optional config file, explicit options, and environment overrides, in
// that precedence order (later wins). Explicit options are validated and
// fail construction; environment values that do not validate are ignored
// so a stray variable can never break a running application.
func Resolve(opts Options) (*Config, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// Layer 1: defaults from struct.
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file.
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: explicit options, set-field only.
	if err := applyOptions(k, opts); err != nil {
		return nil, err
	}

	// Layer 4: environment overrides, each guarded independently.
	if err := applyEnv(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.Production = os.Getenv(EnvironmentVar) == "production"
	cfg.EffectiveMode = downgrade(cfg.Mode, cfg.Production)
	cfg.Output = opts.Output
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	// File-sourced values bypass validateOptions; re-check the resolved
	// invariants the engine depends on.
	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("invalid log mode %q in config file", cfg.Mode)
	}
	if cfg.MaxLogs <= 0 || cfg.MaxSessions <= 0 {
		return nil, fmt.Errorf("invalid limits (max_logs=%d, max_sessions=%d): must be positive", cfg.MaxLogs, cfg.MaxSessions)
	}

	return cfg, nil
}

// applyOptions overlays non-zero explicit options onto k.
func applyOptions(k *koanf.Koanf, opts Options) error {
	set := func(path string, value interface{}) error {
		if err := k.Set(path, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
		return nil
	}

	if opts.Mode != "" {
		if err := set("mode", opts.Mode); err != nil {
			return err
		}
	}
	if opts.RouteURL != "" {
		if err := set("route_url", opts.RouteURL); err != nil {
			return err
		}
	}
	if opts.MaxLogs > 0 {
		if err := set("max_logs", opts.MaxLogs); err != nil {
			return err
		}
	}
	if opts.MaxSessions > 0 {
		if err := set("max_sessions", opts.MaxSessions); err != nil {
			return err
		}
	}
	if len(opts.SensitiveFields) > 0 {
		if err := set("sensitive_fields", opts.SensitiveFields); err != nil {
			return err
		}
	}
	if opts.Format != "" {
		if err := set("format", opts.Format); err != nil {
			return err
		}
	}
	return nil
}

// envTransformFunc maps LOG_* environment variable names to config paths.
// Unmapped variables return empty string and are skipped, preventing random
// environment state from polluting the config.
func envTransformFunc(key string) string {
	envMappings := map[string]string{
		"LOG_MODE":             "mode",
		"LOG_ROUTE_URL":        "route_url",
		"LOG_MAX_LOGS":         "max_logs",
		"LOG_MAX_SESSIONS":     "max_sessions",
		"LOG_SENSITIVE_FIELDS": "sensitive_fields",
		"LOG_FORMAT":           "format",
	}
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}

// applyEnv overlays validated environment values onto k. Values arrive as
// strings from the env provider; each is parsed and checked before it may
// shadow the lower layers.
func applyEnv(k *koanf.Koanf) error {
	envK := koanf.New(".")
	if err := envK.Load(env.Provider("LOG_", ".", envTransformFunc), nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	set := func(path string, value interface{}) error {
		if err := k.Set(path, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
		return nil
	}

	if v := envK.String("mode"); Mode(v).Valid() {
		if err := set("mode", v); err != nil {
			return err
		}
	}
	if v := envK.String("route_url"); v != "" {
		if err := set("route_url", v); err != nil {
			return err
		}
	}
	if v := envK.String("max_logs"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if err := set("max_logs", n); err != nil {
				return err
			}
		}
	}
	if v := envK.String("max_sessions"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if err := set("max_sessions", n); err != nil {
				return err
			}
		}
	}
	if v := envK.String("sensitive_fields"); v != "" {
		if fields := splitList(v); len(fields) > 0 {
			if err := set("sensitive_fields", fields); err != nil {
				return err
			}
		}
	}
	if v := envK.String("format"); v == FormatJSON || v == FormatConsole {
		if err := set("format", v); err != nil {
			return err
		}
	}
	return nil
}

// splitList parses a comma-separated list, trimming whitespace and dropping
// empty entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
