package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/reposcope/reposcope"
	"github.com/reposcope/reposcope/infrastructure/api"
	v1 "github.com/reposcope/reposcope/infrastructure/api/v1"
	"github.com/reposcope/reposcope/internal/config"
	"github.com/reposcope/reposcope/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		envFile      string
		configFile   string
		host         string
		port         int
		contextLines int
	)

	cmd := &cobra.Command{
		Use:   "serve [repository]",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server for a git repository.

The repository argument defaults to the current working directory.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. YAML config file (if --config specified or CONFIG_FILE set)
  3. .env file (if --env-file specified or .env exists in current directory)
  4. Environment variables
  5. Command line flags

Environment variables:
  HOST              Server host to bind to (default: 0.0.0.0)
  PORT              Server port to listen on (default: 8080)
  REPO_PATH         Git repository to serve (default: current directory)
  LOG_LEVEL         Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT        Log format: pretty, json (default: pretty)
  CONTEXT_LINES     Unchanged lines around each diff hunk (default: 3)
  CONFIG_FILE       Path to a YAML config file`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoPath := ""
			if len(args) == 1 {
				repoPath = args[0]
			}
			return runServe(envFile, configFile, host, port, contextLines, repoPath)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&configFile, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")
	cmd.Flags().IntVar(&contextLines, "context-lines", -1, "Unchanged lines around each diff hunk (default: 3)")

	return cmd
}

func runServe(envFile, configFile, host string, port, contextLines int, repoPath string) error {
	cfg, err := loadConfig(envFile, configFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port, contextLines, repoPath)

	logger := log.Configure(cfg)

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	logger.LogAttrs(context.Background(), slog.LevelInfo, "starting reposcope", attrs...)

	client, err := reposcope.New(cfg.RepoPath(),
		reposcope.WithLogger(logger),
		reposcope.WithContextLines(cfg.ContextLines()),
	)
	if err != nil {
		return fmt.Errorf("create reposcope client: %w", err)
	}

	server := api.NewServer(cfg.Addr(), logger)
	router := server.Router()
	router.Mount("/api/v1/repository", v1.NewRepositoryRouter(client).Routes())
	router.Get("/health", healthHandler)
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"name":"reposcope","version":%q}`, version)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return server.Start()
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), api.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port, contextLines int, repoPath string) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}
	if contextLines >= 0 {
		opts = append(opts, config.WithContextLines(contextLines))
	}
	if repoPath != "" {
		opts = append(opts, config.WithRepoPath(repoPath))
	}

	return cfg.Apply(opts...)
}
