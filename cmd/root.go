package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/repcount/internal/config"
	"github.com/fakeyudi/repcount/internal/history"
	"github.com/fakeyudi/repcount/internal/logging"
	"github.com/fakeyudi/repcount/internal/profile"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// activeProfile holds the loaded athlete profile.
var activeProfile *profile.Profile

// logger is built from --verbose and --log-format before any subcommand runs.
var logger = slog.New(slog.DiscardHandler)

var (
	verbose   bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:          "repcount",
	Short:        "Count pull-ups from a pose feed and track your progress",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogger(cmd); err != nil {
			return err
		}

		// First-run: profile missing → run setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !profile.Exists() {
			if term.IsTerminal(os.Stdin.Fd()) {
				cmd.Println()
				cmd.Println("  Welcome to repcount! Looks like this is your first time.")
				if err := runSetup(cmd, true); err != nil {
					return err
				}
			}
			// Non-interactive (tests, pipes): continue with defaults, no profile required.
		}

		activeProfile = nil
		if profile.Exists() {
			p, err := profile.Load()
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}
			activeProfile = p
		}

		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)

		// Profile values fill in config gaps.
		if activeProfile != nil {
			defaults := config.Defaults()
			if cfg.Goal == defaults.Goal && activeProfile.DefaultGoal > 0 {
				cfg.Goal = activeProfile.DefaultGoal
			}
			if cfg.DefaultFormat == defaults.DefaultFormat && activeProfile.DefaultFormat != "" {
				cfg.DefaultFormat = activeProfile.DefaultFormat
			}
			if cfg.OutputDir == defaults.OutputDir && activeProfile.OutputDir != "" {
				cfg.OutputDir = activeProfile.OutputDir
			}
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger.Debug("configuration loaded", "goal", cfg.Goal, "format", cfg.DefaultFormat, "profile", activeProfile != nil)
		return nil
	},
}

func setupLogger(cmd *cobra.Command) error {
	w := cmd.ErrOrStderr()
	l, err := logging.New(w, logging.Options{
		Format:  logFormat,
		Verbose: verbose,
		Color:   w == os.Stderr && term.IsTerminal(os.Stderr.Fd()),
	})
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// GetProfile returns the active athlete profile.
func GetProfile() *profile.Profile {
	return activeProfile
}

// openStore returns the history store, honouring history_dir from config.
func openStore() (history.Store, error) {
	if dir := GetConfig().HistoryDir; dir != "" {
		return history.NewStoreAt(dir)
	}
	return history.NewStore()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug detail to stderr")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
}
