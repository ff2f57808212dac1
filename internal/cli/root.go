// Package cli implements the summarizer CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"video-summarizer/internal/app"
	"video-summarizer/internal/backend"
	"video-summarizer/internal/config"
	"video-summarizer/internal/logger"
	"video-summarizer/internal/normalizer"
	"video-summarizer/internal/push"
	"video-summarizer/internal/session"
	"video-summarizer/internal/store"

	"github.com/spf13/cobra"
)

var (
	backendFlag  string
	logLevelFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "summarizer",
	Short: "AI summaries for YouTube videos",
	Long:  "Submit a YouTube video to the summarization backend and browse the multi-agent reports it produces. Summaries are kept in a local history.",
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&backendFlag, "backend", "b", "", "Backend base URL (default: $BACKEND_URL)")
	RootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: DEBUG, INFO, WARN, ERROR (default: $LOG_LEVEL)")
}

// appContext bundles the wired components behind each command
type appContext struct {
	cfg  *config.Config
	orch *app.Orchestrator
}

// buildApp loads config, wires the components, and runs startup
func buildApp(cmd *cobra.Command) (*appContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if backendFlag != "" {
		cfg.BackendURL = backendFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}

	log := logger.New(cfg.LogLevel)

	client := backend.NewClient(cfg, log)
	kv, err := store.Open(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	history := store.NewHistoryStore(kv, log)
	sess := session.NewManager(kv, client, log)
	norm := normalizer.New(log)
	orch := app.New(cfg, client, norm, history, sess, push.Disabled{}, log)

	if err := orch.Startup(commandContext(cmd)); err != nil {
		return nil, err
	}

	return &appContext{cfg: cfg, orch: orch}, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// exitNotice prints the orchestrator's user-facing notice when one is
// set, falling back to the raw error.
func exitNotice(orch *app.Orchestrator, err error) {
	if notice := orch.LastNotice(); notice != "" {
		fmt.Fprintln(os.Stderr, notice)
		os.Exit(1)
	}
	exitErr("request failed", err)
}

// commandContext returns the command's context, defaulting to Background
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
