package app

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/verselog/verselog/internal/archive"
	"github.com/verselog/verselog/internal/output"
	"github.com/verselog/verselog/internal/stats"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Browse archived sessions",
	Long: `List archived sessions, most recent first.

With a session ID, print that session's full trading ledger and mission
results instead.`,
	Example: `  # List archived sessions
  verselog history

  # Show one session in detail
  verselog history 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, err := resolveArchivePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("No archived sessions yet. Run 'verselog watch' or 'verselog parse --save' first.")
		return nil
	}

	db, err := archive.New(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer db.Close()

	if err := db.CreateSchema(); err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid session ID %q", args[0])
		}
		return showSession(db, id)
	}

	sessions, err := db.ListSessions()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	fmt.Print(output.RenderSessionTable(sessions))
	return nil
}

// showSession prints the full ledger and mission list of one archived
// session.
func showSession(db *archive.DB, id int64) error {
	summary, err := db.Session(id)
	if err != nil {
		return err
	}

	transactions, err := db.Transactions(id)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	missions, err := db.Missions(id)
	if err != nil {
		return fmt.Errorf("load missions: %w", err)
	}

	player := summary.PlayerName
	if player == "" {
		player = "Unknown"
	}
	mapName := summary.MapName
	if mapName == "" {
		mapName = "unknown map"
	}

	fmt.Printf("Session #%d: %s on %s\n", id, player, mapName)
	if !summary.StartTime.IsZero() {
		fmt.Printf("Started:  %s\n", summary.StartTime.Format("2006-01-02 15:04:05"))
	}
	if !summary.EndTime.IsZero() {
		fmt.Printf("Ended:    %s\n", summary.EndTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Println()

	if len(transactions) == 0 {
		fmt.Println("No transactions recorded.")
	} else {
		fmt.Println("Transactions:")
		for _, tx := range transactions {
			action := "Sold"
			if tx.Kind == stats.KindPurchase {
				action = "Bought"
			}
			fmt.Printf("  %s %dx %s for %.0f aUEC at %s\n",
				action, tx.Quantity, tx.ItemName, tx.Price*float64(tx.Quantity), tx.Location)
		}
	}
	fmt.Println()

	if len(missions) == 0 {
		fmt.Println("No missions recorded.")
	} else {
		fmt.Println("Missions:")
		for _, m := range missions {
			fmt.Printf("  %s: %s (%s)\n", m.CompletionType, m.Reason, m.MissionID)
		}
	}

	return nil
}
