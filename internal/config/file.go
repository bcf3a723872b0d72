package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig holds configuration read from a YAML file. All fields are
// optional; unset fields leave the current value untouched.
type FileConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	RepoPath     string `yaml:"repo_path"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	ContextLines *int   `yaml:"context_lines"`
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read config file: %w", err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// ToOptions converts the populated fields of FileConfig into AppConfig
// options.
func (f FileConfig) ToOptions() []AppConfigOption {
	var opts []AppConfigOption
	if f.Host != "" {
		opts = append(opts, WithHost(f.Host))
	}
	if f.Port != 0 {
		opts = append(opts, WithPort(f.Port))
	}
	if f.RepoPath != "" {
		opts = append(opts, WithRepoPath(f.RepoPath))
	}
	if f.LogLevel != "" {
		opts = append(opts, WithLogLevel(f.LogLevel))
	}
	if f.LogFormat != "" {
		opts = append(opts, WithLogFormat(ParseLogFormat(f.LogFormat)))
	}
	if f.ContextLines != nil {
		opts = append(opts, WithContextLines(*f.ContextLines))
	}
	return opts
}
