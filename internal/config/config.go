// Logbook - Unified Logging and Session Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logbook

package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
)

// Mode is the resolved output routing decision for general log calls.
type Mode string

// Output modes.
const (
	ModeConsole Mode = "console"
	ModeRoute   Mode = "route"
	ModeBoth    Mode = "both"
	ModeNone    Mode = "none"
)

// Valid reports whether m is one of the four output modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeConsole, ModeRoute, ModeBoth, ModeNone:
		return true
	}
	return false
}

// Console reports whether m includes console output.
func (m Mode) Console() bool { return m == ModeConsole || m == ModeBoth }

// Route reports whether m includes remote route output.
func (m Mode) Route() bool { return m == ModeRoute || m == ModeBoth }

// Console output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// EnvironmentVar is the variable checked for production detection.
const EnvironmentVar = "ENVIRONMENT"

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths lists where the optional config file is searched, in
// order. The first file found wins.
var DefaultConfigPaths = []string{
	"logbook.yaml",
	"logbook.yml",
	"/etc/logbook/logbook.yaml",
	"/etc/logbook/logbook.yml",
}

// Options is the explicit constructor configuration. All fields are
// optional; zero values mean "unset" and fall through to the config file
// and defaults. Invalid set values (an unknown mode, a negative limit, a
// malformed route URL) fail construction.
type Options struct {
	// Mode selects output routing: console, route, both, or none.
	Mode string
	// RouteURL is the remote HTTP endpoint for route dispatch.
	RouteURL string
	// MaxLogs caps the in-memory log buffer.
	MaxLogs int
	// MaxSessions caps the session table.
	MaxSessions int
	// SensitiveFields are redacted (case-insensitive substring match on
	// keys) from record context and metadata and from step metadata.
	SensitiveFields []string
	// Format is the console output format: json or console.
	Format string
	// Output is the console output writer. Defaults to os.Stderr.
	// Primarily useful for tests.
	Output io.Writer
}

// Config is the resolved engine configuration. The engine consumes only
// this; it never reads the environment itself.
type Config struct {
	// Mode is the configured output mode, before any production downgrade.
	Mode Mode `koanf:"mode"`
	// RouteURL is the remote endpoint for route and both modes.
	RouteURL string `koanf:"route_url"`
	// MaxLogs is the log buffer capacity (FIFO eviction on overflow).
	MaxLogs int `koanf:"max_logs"`
	// MaxSessions is the session table capacity (evicted after EndSession).
	MaxSessions int `koanf:"max_sessions"`
	// SensitiveFields is the redaction list.
	SensitiveFields []string `koanf:"sensitive_fields"`
	// Format is the console output format: json or console.
	Format string `koanf:"format"`

	// Production is true when ENVIRONMENT=production at resolve time.
	Production bool `koanf:"-"`
	// EffectiveMode is Mode after the production downgrade. Dispatch
	// decisions use this, never Mode.
	EffectiveMode Mode `koanf:"-"`
	// Output is the console output writer.
	Output io.Writer `koanf:"-"`
}

// defaultConfig returns the built-in defaults, applied before the config
// file, explicit options, and environment overrides.
func defaultConfig() *Config {
	return &Config{
		Mode:        ModeConsole,
		RouteURL:    "http://localhost:3000/api/logs",
		MaxLogs:     1000,
		MaxSessions: 100,
		SensitiveFields: []string{
			"password", "token", "secret", "key", "apiKey", "auth", "authorization",
		},
		Format: FormatJSON,
	}
}

// downgrade applies the production downgrade rule to a mode.
// Console output is silenced in production: console -> none, both -> route.
func downgrade(m Mode, production bool) Mode {
	if !production {
		return m
	}
	switch m {
	case ModeConsole:
		return ModeNone
	case ModeBoth:
		return ModeRoute
	default:
		return m
	}
}

// validateOptions rejects explicitly-set option values that cannot be used.
// Unset (zero) fields are skipped. This is the fail-fast path: a broken
// constructor config must surface before any log call.
func validateOptions(opts Options) error {
	if opts.Mode != "" && !Mode(opts.Mode).Valid() {
		return fmt.Errorf("invalid log mode %q: must be console, route, both, or none", opts.Mode)
	}
	if opts.MaxLogs < 0 {
		return fmt.Errorf("invalid max logs %d: must be a positive integer", opts.MaxLogs)
	}
	if opts.MaxSessions < 0 {
		return fmt.Errorf("invalid max sessions %d: must be a positive integer", opts.MaxSessions)
	}
	if opts.RouteURL != "" {
		if err := validateHTTPURL(opts.RouteURL); err != nil {
			return fmt.Errorf("invalid route URL: %w", err)
		}
	}
	if opts.Format != "" && opts.Format != FormatJSON && opts.Format != FormatConsole {
		return fmt.Errorf("invalid format %q: must be json or console", opts.Format)
	}
	return nil
}

// validateHTTPURL checks that raw parses as an absolute http(s) URL.
func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q: missing host", raw)
	}
	return nil
}

// findConfigFile searches for an optional config file. Returns the first
// path found, or empty string.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
