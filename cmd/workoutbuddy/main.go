// Package main provides the CLI entrypoint for the WorkoutBuddy client.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yaseenp24/workoutbuddy/internal/api"
	"github.com/yaseenp24/workoutbuddy/internal/app"
	"github.com/yaseenp24/workoutbuddy/internal/config"
	"github.com/yaseenp24/workoutbuddy/internal/mirror"
	"github.com/yaseenp24/workoutbuddy/internal/session"
	"github.com/yaseenp24/workoutbuddy/internal/tui"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const logFileName = "workoutbuddy.log"

var (
	configPath string
	apiBase    string
	fallback   bool
	dataDir    string
	verbose    bool
	jsonOutput bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "workoutbuddy",
		Short:         "Workout planner and logger",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runTUICmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", config.DefaultClientConfigPath(), "path to the client config file")
	pf.StringVar(&apiBase, "api-base", "", "backend API base URL (overrides config)")
	pf.BoolVar(&fallback, "fallback", true, "fall back to data on this device when the backend is unreachable")
	pf.StringVar(&dataDir, "data-dir", "", "directory for the local mirror and log file (overrides config)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	pf.BoolVar(&jsonOutput, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newOnboardCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newTemplatesCmd())
	rootCmd.AddCommand(newExercisesCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newTipsCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// env is the wired client: config, logger, mirror and controller.
type env struct {
	cfg   config.Client
	log   *slog.Logger
	store *mirror.Store
	ctrl  *app.Controller

	closers []io.Closer
}

// setup resolves configuration, opens the mirror and restores the saved
// session. With logToFile set, logs go to a file in the data directory so
// they do not corrupt a full-screen UI or a stdio protocol stream.
func setup(cmd *cobra.Command, logToFile bool) (*env, error) {
	cfg, err := config.LoadClient(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("api-base") {
		cfg.APIBase = apiBase
	}
	if cmd.Flags().Changed("fallback") {
		cfg.Fallback = fallback
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	e := &env{cfg: cfg}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	var out io.Writer = os.Stderr
	if logToFile {
		f, err := os.OpenFile(filepath.Join(cfg.DataDir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		e.closers = append(e.closers, f)
		out = f
		if !verbose {
			level = slog.LevelInfo
		}
	}
	e.log = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	store, err := mirror.Open(cfg.DataDir)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("failed to open local data: %w", err)
	}
	e.store = store
	e.closers = append(e.closers, store)

	state := &session.State{}
	client := api.NewClient(cfg.APIBase, state.Token)
	e.ctrl = app.New(client, store, state, app.Options{
		Fallback: cfg.Fallback,
		Logger:   e.log,
	})
	if _, err := e.ctrl.Restore(cmd.Context()); err != nil {
		e.log.Warn("restoring session failed", "error", err)
	}
	e.log.Debug("client ready", "api_base", cfg.APIBase, "fallback", cfg.Fallback, "data_dir", cfg.DataDir)
	return e, nil
}

// close releases resources in reverse order of acquisition.
func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			logErrf("failed to close: %v\n", err)
		}
	}
	e.closers = nil
}

func runTUICmd(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer e.close()

	model := tui.NewModel(e.ctrl)
	program := tea.NewProgram(model, tea.WithAltScreen())
	e.ctrl.SetTickHandler(func(d time.Duration) { program.Send(tui.TickMsg(d)) })
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if w := e.ctrl.State().Workout(); w != nil {
		// Quitting mid-workout discards it, like closing the page did.
		if _, err := e.ctrl.CancelWorkout(nil); err != nil {
			e.log.Warn("discarding workout on exit", "error", err)
		}
	}
	return nil
}

// requestContext bounds a one-shot CLI request.
func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 2*time.Minute)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		_ = err
	}
}
