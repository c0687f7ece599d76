// Package cmd provides the CLI commands for the prep application.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/prep-cli/internal/adapters/clock"
	"github.com/xvierd/prep-cli/internal/adapters/git"
	"github.com/xvierd/prep-cli/internal/adapters/notification"
	"github.com/xvierd/prep-cli/internal/adapters/storage"
	"github.com/xvierd/prep-cli/internal/adapters/tui"
	"github.com/xvierd/prep-cli/internal/config"
	"github.com/xvierd/prep-cli/internal/ports"
	"github.com/xvierd/prep-cli/internal/services"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	configPath string
	verbose    bool

	// Global dependencies
	appConfig        *config.Config
	logger           *zap.Logger
	storageAdapter   ports.Storage
	prepService      *services.PrepService
	breathingService *services.BreathingService
	focusService     *services.FocusService
	notifier         *notification.Notifier
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "prep",
	Short: "Prep - get ready for a focused study session",
	Long: `Prep walks you through a short routine before studying: set your goals,
breathe, visualize the session, write an affirmation and then start a
focus timer split into 5-minute segments.

Run "prep" with no arguments to start the wizard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		cleanupServices()
	},
	RunE: runWizard,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.prep/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Write debug output to the log file")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("Prep CLI\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(breatheCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(configCmd)
}

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error
	appConfig, err = config.Load(configPath)
	if err != nil {
		// An explicit path must be readable; otherwise fall back to defaults.
		if configPath != "" {
			return err
		}
		appConfig = config.DefaultConfig()
		if dir, dirErr := config.GetDataDir(); dirErr == nil {
			appConfig.Logging.File = filepath.Join(dir, "prep.log")
		} else {
			appConfig.Logging.File = ""
		}
	}

	logger, err = newLogger(appConfig.Logging, verbose)
	if err != nil {
		return err
	}

	storageAdapter, err = storage.NewMemory()
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	clk := clock.NewReal()
	prepService = services.NewPrepService(storageAdapter, git.NewDetector(), logger)
	prepService.SetSelector(appConfig.Visualization.Selector(time.Now().UnixNano()))
	breathingService = services.NewBreathingService(clk, appConfig.Breathing.ToDomain(), logger)
	focusService = services.NewFocusService(clk, appConfig.Focus.Minutes(), logger)

	notifier = notification.New(&appConfig.Notifications)
	focusService.OnSessionComplete(func(c services.FocusCompletion) {
		if err := notifier.NotifyFocusComplete(c); err != nil {
			logger.Warn("focus notification failed", zap.Error(err))
		}
	})
	breathingService.OnComplete(func(c services.BreathingCompletion) {
		if err := notifier.NotifyBreathingComplete(c); err != nil {
			logger.Warn("breathing notification failed", zap.Error(err))
		}
	})

	logger.Debug("services initialized",
		zap.String("version", Version),
		zap.Int("focus_minutes", appConfig.Focus.Minutes()),
		zap.Bool("random_prompts", appConfig.Visualization.RandomPrompts))
	return nil
}

// newLogger builds a JSON file logger; the terminal belongs to the TUI.
func newLogger(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	if cfg.File == "" {
		return zap.NewNop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{cfg.File}
	zc.ErrorOutputPaths = []string{cfg.File}

	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// cleanupServices stops running timers and releases resources.
func cleanupServices() {
	if breathingService != nil {
		breathingService.Stop()
	}
	if focusService != nil {
		focusService.Pause()
	}
	if storageAdapter != nil {
		if err := storageAdapter.Close(); err != nil && logger != nil {
			logger.Warn("failed to close storage", zap.Error(err))
		}
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

// runWizard runs the full preparation wizard.
func runWizard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	if err := prepService.SeedChecklist(ctx, wd); err != nil {
		return fmt.Errorf("failed to prepare checklist: %w", err)
	}

	return tui.Run(tui.Deps{
		Ctx:       ctx,
		Prep:      prepService,
		Breathing: breathingService,
		Focus:     focusService,
		Theme:     &appConfig.Theme,
	})
}

// formatMinutes formats a duration as a human-readable string like "1h30m" or "25m".
func formatMinutes(d time.Duration) string {
	if d >= time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}
