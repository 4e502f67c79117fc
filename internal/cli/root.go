// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/sleeptrack-tui/internal/config"
	"github.com/jeranaias/sleeptrack-tui/internal/logging"
	"github.com/jeranaias/sleeptrack-tui/internal/storage"
)

// Version information (overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// commandTimeout bounds database work of the one-shot commands.
const commandTimeout = 10 * time.Second

// app holds the state shared by all commands of one invocation.
type app struct {
	configPath string
	dbPath     string
	logLevel   string
	jsonOut    bool

	cfg       *config.Config
	logCloser io.Closer
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	root := NewRootCommand()
	cmd, err := root.ExecuteC()
	if err != nil {
		if jsonOut, _ := root.PersistentFlags().GetBool("json"); jsonOut {
			name := root.Name()
			if cmd != nil {
				name = cmd.Name()
			}
			_ = NewJSONErrorResponse(name, err).Write(root.OutOrStdout())
		} else {
			DisplayError(root.ErrOrStderr(), err)
		}
		return GetExitCode(err)
	}
	return ExitSuccess
}

// NewRootCommand builds the sleeptrack command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:                "sleeptrack",
		Short:              "Track your sleep from the terminal",
		Version:            fmt.Sprintf("%s (%s)", Version, GitCommit),
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
		RunE:               a.runUI,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.sleeptrack/config.toml)")
	flags.StringVar(&a.dbPath, "db", "", "night database, overrides storage.database_path")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.BoolVar(&a.jsonOut, "json", false, "print machine-readable JSON")

	root.AddCommand(
		a.uiCommand(),
		a.startCommand(),
		a.stopCommand(),
		a.rateCommand(),
		a.listCommand(),
		a.clearCommand(),
		a.exportCommand(),
		a.diffCommand(),
		a.configCommand(),
	)
	return root
}

// setup loads the configuration, applies flag overrides and configures
// logging. The TUI logs to a file; everything else logs to stderr.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	lipgloss.SetColorProfile(ColorProfile())

	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return &ConfigError{Err: err}
	}
	if a.dbPath != "" {
		cfg.Storage.DatabasePath = a.dbPath
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Err: fmt.Errorf("invalid config: %w", err)}
	}
	a.cfg = cfg

	opts := logging.Options{Level: cfg.Log.Level, Console: true, Stderr: cmd.ErrOrStderr()}
	if isUICommand(cmd) {
		opts = logging.Options{Level: cfg.Log.Level, File: cfg.Log.File}
	}
	closer, err := logging.Setup(opts)
	if err != nil {
		return err
	}
	a.logCloser = closer

	log.Debug().
		Str("command", cmd.CommandPath()).
		Str("db", cfg.Storage.DatabasePath).
		Msg("configuration loaded")
	return nil
}

// skipConfigLoad marks commands that must work without a readable config
// file, like the one that creates it.
const skipConfigLoad = "sleeptrack/skip-config-load"

func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if cmd.Annotations[skipConfigLoad] != "" {
		cfg := config.Default()
		cfg.ApplyEnvOverrides()
		cfg.SetDefaults()
		return cfg, nil
	}
	return config.Load(a.configPath)
}

func (a *app) teardown(*cobra.Command, []string) error {
	if a.logCloser == nil {
		return nil
	}
	return a.logCloser.Close()
}

func isUICommand(cmd *cobra.Command) bool {
	return cmd.Name() == "ui" || !cmd.HasParent()
}

// openStore opens the configured night database.
func (a *app) openStore() (*storage.NightStore, error) {
	store, err := storage.Open(a.cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open night database: %w", err)
	}
	return store, nil
}

// withStore runs fn against the configured database under commandTimeout.
func (a *app) withStore(cmd *cobra.Command, fn func(ctx context.Context, store *storage.NightStore) error) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	return fn(ctx, store)
}

// printJSON writes a --json response to stdout.
func (a *app) printJSON(cmd *cobra.Command, data any) error {
	return NewJSONResponse(cmd.Name(), data).Write(cmd.OutOrStdout())
}

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func(cmd *cobra.Command) bool {
	return cmd.InOrStdin() == os.Stdin && IsStdinTTY()
}
