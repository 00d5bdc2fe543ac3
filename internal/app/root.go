// Package app wires the verselog commands together.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/verselog/verselog/internal/config"
)

var (
	logPath     string
	archivePath string

	// RootCmd is the root command for verselog
	RootCmd = &cobra.Command{
		Use:   "verselog",
		Short: "Star Citizen session tracker driven by Game.log",
		Long: `verselog follows the Star Citizen Game.log and turns it into live
session statistics: trading ledger, net profit, mission results, and
session identity (player, map, game version).

Quick Start:
  1. verselog watch              # follow the log while you play
  2. verselog parse              # or summarize a finished session
  3. verselog history            # browse archived sessions

The log path is auto-detected from the usual install locations; use
--log to point at a specific file.

Examples:
  # Follow the live log, stats on Ctrl+C
  verselog watch

  # Follow and expose stats over HTTP
  verselog watch --serve --port 8080

  # One-shot summary of a log file
  verselog parse --log /path/to/Game.log

  # Machine-readable output
  verselog parse --json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("verselog: Star Citizen session tracker")
			fmt.Println()
			if config.FindGameLog() == "" {
				fmt.Println("No Game.log found in the usual locations.")
				fmt.Println("Run 'verselog watch --log <path>' to point at your install.")
			} else {
				fmt.Println("Tip: Run 'verselog watch' to follow the live log.")
				fmt.Println("     Run 'verselog parse' for a one-shot summary.")
			}
			fmt.Println("Run 'verselog --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Game.log path (default: auto-detect)")
	RootCmd.PersistentFlags().StringVar(&archivePath, "archive", "", "archive database path (default: ~/.config/verselog/sessions.db)")

	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(watchCmd)
	RootCmd.AddCommand(parseCmd)
	RootCmd.AddCommand(historyCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// resolveLogPath returns the Game.log to read: the --log flag, then the
// settings file, then auto-detection.
func resolveLogPath() (string, error) {
	if logPath != "" {
		return logPath, nil
	}

	if dir, err := config.Dir(); err == nil {
		if settings, err := config.LoadSettings(dir); err == nil && settings.LogPath != "" {
			return settings.LogPath, nil
		}
	}

	if path := config.FindGameLog(); path != "" {
		return path, nil
	}

	return "", fmt.Errorf("no Game.log found; pass --log to point at your install")
}

// resolveArchivePath returns the archive database path, creating its parent
// directory. Resolution order matches resolveLogPath: flag, settings file,
// default config location.
func resolveArchivePath() (string, error) {
	path := archivePath

	if path == "" {
		if dir, err := config.Dir(); err == nil {
			if settings, err := config.LoadSettings(dir); err == nil {
				path = settings.ArchivePath
			}
		}
	}

	if path == "" {
		def, err := config.DefaultArchivePath()
		if err != nil {
			return "", fmt.Errorf("resolve archive path: %w", err)
		}
		path = def
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create archive directory: %w", err)
	}
	return path, nil
}
