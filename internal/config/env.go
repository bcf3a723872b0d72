// Package config provides application configuration.
package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration. Fields carry no
// struct-tag defaults: an unset variable stays at its zero value and is
// skipped by ToOptions, so values from lower layers (the YAML file,
// NewAppConfig) survive. Defaults live in NewAppConfig only.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST
	Host string `envconfig:"HOST"`

	// Port is the server port to listen on.
	// Env: PORT
	Port int `envconfig:"PORT"`

	// RepoPath is the git repository to serve.
	// Env: REPO_PATH
	RepoPath string `envconfig:"REPO_PATH"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL
	LogLevel string `envconfig:"LOG_LEVEL"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT
	LogFormat string `envconfig:"LOG_FORMAT"`

	// ContextLines is the number of unchanged lines around each diff hunk.
	// A pointer distinguishes an explicit CONTEXT_LINES=0 from unset.
	// Env: CONTEXT_LINES
	ContextLines *int `envconfig:"CONTEXT_LINES"`

	// ConfigFile is an optional YAML configuration file applied before
	// environment variables.
	// Env: CONFIG_FILE
	ConfigFile string `envconfig:"CONFIG_FILE"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "REPOSCOPE" would require REPOSCOPE_REPO_PATH
// instead of REPO_PATH.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToOptions converts the populated fields of EnvConfig into AppConfig
// options. Unset fields are skipped so lower-priority layers survive.
func (e EnvConfig) ToOptions() []AppConfigOption {
	var opts []AppConfigOption
	if e.Host != "" {
		opts = append(opts, WithHost(e.Host))
	}
	if e.Port != 0 {
		opts = append(opts, WithPort(e.Port))
	}
	if e.RepoPath != "" {
		opts = append(opts, WithRepoPath(e.RepoPath))
	}
	if e.LogLevel != "" {
		opts = append(opts, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		opts = append(opts, WithLogFormat(ParseLogFormat(e.LogFormat)))
	}
	if e.ContextLines != nil {
		opts = append(opts, WithContextLines(*e.ContextLines))
	}
	return opts
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	return NewAppConfig().Apply(e.ToOptions()...)
}

// ParseLogFormat parses a log format string, defaulting to pretty.
func ParseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
