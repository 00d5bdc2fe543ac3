package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verselog/verselog/internal/gamelog"
	"github.com/verselog/verselog/internal/output"
	"github.com/verselog/verselog/internal/stats"
	"github.com/verselog/verselog/internal/tail"
)

var (
	parseJSON bool
	parseSave bool

	parseCmd = &cobra.Command{
		Use:   "parse",
		Short: "Summarize a Game.log in one pass",
		Long: `Read a Game.log from start to finish and print the session summary.

Unlike watch, parse does not follow the file; it is meant for logs of
finished sessions. Use --json for machine-readable output and --save to
add the session to the archive.`,
		Example: `  # Summarize the auto-detected log
  verselog parse

  # Summarize a specific log as JSON
  verselog parse --log /path/to/Game.log --json

  # Summarize and archive
  verselog parse --save`,
		RunE: runParse,
	}
)

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print stats as JSON")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "archive the parsed session")
}

func runParse(cmd *cobra.Command, args []string) error {
	path, err := resolveLogPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("read log: %w", err)
	}

	store := stats.New()
	parser := gamelog.New(store)

	lines, err := tail.New(path).Poll()
	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}
	parser.ParseBatch(lines)

	snap := store.Snapshot()

	if parseJSON {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("encode stats: %w", err)
		}
		fmt.Println(string(data))
	} else {
		fmt.Print(output.RenderStats(snap))
	}

	if parseSave {
		if err := archiveSession(snap); err != nil {
			return fmt.Errorf("archive session: %w", err)
		}
	}

	return nil
}
