// Package main is the entry point for the reposcope CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reposcope/reposcope/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reposcope",
		Short: "Reposcope git history server",
		Long:  `Reposcope serves the commit history, diffs, and author attribution of a local git repository over an HTTP API.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from an optional YAML file, a .env file,
// and environment variables.
func loadConfig(envFile, configFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile, configFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
