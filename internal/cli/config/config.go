// Package config provides configuration management for the guardrail CLI.
//
// Generation requests themselves are configured entirely on the command
// line; this package covers the invocation-wide settings around them: the
// vendor default framework, execution policy for multiple requests, and
// verbosity.
package config

// Config holds all CLI configuration options.
type Config struct {
	// DefaultFramework is used when a request names no framework.
	DefaultFramework string `koanf:"default_framework"`

	// Concurrency bounds how many requests run at once (1 = sequential).
	Concurrency int `koanf:"concurrency"`

	// ContinueOnError keeps processing remaining requests after one fails.
	ContinueOnError bool `koanf:"continue_on_error"`

	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// DefaultConcurrency is the sequential default.
const DefaultConcurrency = 1
