package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file.
// If path is empty, it loads from ".env" in the current directory.
// If the file does not exist, it silently returns nil (not an error).
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	return godotenv.Load(path)
}

// MustLoadDotEnv loads environment variables from a .env file.
// Unlike LoadDotEnv, it returns an error if the file does not exist.
func MustLoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	return godotenv.Load(path)
}

// LoadConfig loads configuration in layers: defaults, then an optional
// YAML config file, then an optional .env file, then process environment
// variables. Later layers override earlier ones. A non-empty configPath
// names the YAML file directly and takes precedence over CONFIG_FILE; it
// still sits at the file layer, below the environment.
func LoadConfig(envPath, configPath string) (AppConfig, error) {
	if err := LoadDotEnv(envPath); err != nil {
		return AppConfig{}, err
	}

	envCfg, err := LoadFromEnv()
	if err != nil {
		return AppConfig{}, err
	}

	if configPath == "" {
		configPath = envCfg.ConfigFile
	}

	cfg := NewAppConfig()
	if configPath != "" {
		fileCfg, err := LoadFile(configPath)
		if err != nil {
			return AppConfig{}, err
		}
		cfg = cfg.Apply(fileCfg.ToOptions()...)
	}
	return cfg.Apply(envCfg.ToOptions()...), nil
}
