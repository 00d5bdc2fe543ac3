package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/verselog/verselog/internal/archive"
	"github.com/verselog/verselog/internal/monitor"
	"github.com/verselog/verselog/internal/output"
	"github.com/verselog/verselog/internal/server"
	"github.com/verselog/verselog/internal/stats"
)

var (
	watchInterval time.Duration
	watchPoll     bool
	watchServe    bool
	watchPort     int
	watchNoSave   bool

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Follow the live Game.log and track session stats",
		Long: `Follow the Game.log as the game writes it, updating session statistics
in real time.

New log data is picked up through filesystem notifications where the
platform supports them, falling back to polling otherwise; --poll forces
polling. The log is re-read from the start when the game restarts and
truncates the file.

With --serve, current stats are also exposed over a local HTTP endpoint
(GET /stats) for overlays and stream widgets.

On Ctrl+C the session summary is printed and the session is archived;
--no-save skips the archive.`,
		Example: `  # Follow the auto-detected log (Ctrl+C to stop)
  verselog watch

  # Follow a specific log, polling every 2s
  verselog watch --log /path/to/Game.log --poll --interval 2s

  # Expose stats at http://127.0.0.1:8080/stats
  verselog watch --serve --port 8080`,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", monitor.DefaultPollInterval, "poll interval when polling")
	watchCmd.Flags().BoolVar(&watchPoll, "poll", false, "force polling instead of filesystem notifications")
	watchCmd.Flags().BoolVar(&watchServe, "serve", false, "serve stats over HTTP")
	watchCmd.Flags().IntVar(&watchPort, "port", 8080, "HTTP port for --serve")
	watchCmd.Flags().BoolVar(&watchNoSave, "no-save", false, "do not archive the session on exit")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := resolveLogPath()
	if err != nil {
		return err
	}

	store := stats.New()
	mon := monitor.New(store)
	mon.SetPollInterval(watchInterval)
	if watchPoll {
		mon.ForcePoll()
	}

	spinner := output.NewSpinner(fmt.Sprintf("Watching %s", path))
	mon.OnUpdate(func() {
		snap := store.Snapshot()
		spinner.UpdateMessage(fmt.Sprintf("Watching %s  (%s aUEC net, updated %s)",
			path, formatNet(snap.Inventory.NetProfit), snap.LastUpdate.Format("15:04:05")))
	})

	if err := mon.Start(path); err != nil {
		return fmt.Errorf("start monitor: %w", err)
	}
	defer mon.Stop()

	fmt.Printf("Following %s (%s backend). Press Ctrl+C to stop.\n", path, mon.Backend())

	var srv *server.Server
	if watchServe {
		srv = server.New(store.Snapshot, watchPort)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("start stats server: %w", err)
		}
		fmt.Printf("Stats available at http://%s/stats\n", srv.Addr())
	}
	fmt.Println()

	spinner.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigCh

	spinner.StopWithMessage(fmt.Sprintf("\nReceived signal %v, shutting down...", sig))

	if srv != nil {
		if err := srv.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: stopping stats server: %v\n", err)
		}
	}
	mon.Stop()

	snap := store.Snapshot()
	fmt.Println()
	fmt.Print(output.RenderStats(snap))

	if !watchNoSave {
		if err := archiveSession(snap); err != nil {
			return fmt.Errorf("archive session: %w", err)
		}
	}

	return nil
}

// archiveSession saves the snapshot to the session archive database.
func archiveSession(snap stats.Snapshot) error {
	path, err := resolveArchivePath()
	if err != nil {
		return err
	}

	db, err := archive.New(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.CreateSchema(); err != nil {
		return err
	}

	id, err := db.SaveSnapshot(snap)
	if err != nil {
		return err
	}

	fmt.Printf("\nSession archived as #%d (%s)\n", id, path)
	return nil
}

func formatNet(v float64) string {
	return fmt.Sprintf("%+.0f", v)
}
