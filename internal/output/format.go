// Package output renders session statistics for the terminal.
//
// It includes the formatted session summary shown by `verselog parse` and on
// watch shutdown, table rendering for archived sessions, and a spinner for
// startup. ANSI colors are gated on stdout being a TTY and NO_COLOR being
// unset.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/verselog/verselog/internal/stats"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorGray  = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderStats renders the full session summary: identity, trading totals,
// recent transactions, and mission results.
func RenderStats(snap stats.Snapshot) string {
	var sb strings.Builder

	sess := snap.Session
	inv := snap.Inventory
	mi := snap.Missions

	player := sess.PlayerName
	if player == "" {
		player = "Unknown"
	}

	sb.WriteString("=== Star Citizen Session ===\n")
	fmt.Fprintf(&sb, "Player:       %s (%s)\n", player, orDash(sess.PlayerGEID))
	fmt.Fprintf(&sb, "Version:      %s (branch %s)\n", orDash(sess.GameVersion), orDash(sess.Branch))
	fmt.Fprintf(&sb, "Map:          %s\n", orDash(sess.MapName))
	fmt.Fprintf(&sb, "Uptime:       %s\n", formatUptime(sess.UptimeSeconds))
	sb.WriteString("\n")

	sb.WriteString("=== Trading ===\n")
	fmt.Fprintf(&sb, "Earned:       %s aUEC\n", formatMoney(inv.TotalEarned))
	fmt.Fprintf(&sb, "Spent:        %s aUEC\n", formatMoney(inv.TotalSpent))
	fmt.Fprintf(&sb, "Net Profit:   %s aUEC\n", profit(inv.NetProfit))
	fmt.Fprintf(&sb, "Purchased:    %d items\n", inv.ItemsPurchased)
	fmt.Fprintf(&sb, "Sold:         %d items\n", inv.ItemsSold)
	sb.WriteString("\n")
	sb.WriteString(renderRecentTransactions(inv.Transactions))
	sb.WriteString("\n")

	sb.WriteString("=== Missions ===\n")
	fmt.Fprintf(&sb, "Completed:    %d\n", mi.Completed)
	fmt.Fprintf(&sb, "Abandoned:    %d\n", mi.Abandoned)
	fmt.Fprintf(&sb, "Failed:       %d\n", mi.Failed)
	sb.WriteString("\n")
	sb.WriteString(renderRecentMissions(mi.Missions))

	if !snap.LastUpdate.IsZero() {
		fmt.Fprintf(&sb, "\nLast update: %s\n", snap.LastUpdate.Format("15:04:05"))
	}

	return sb.String()
}

// renderRecentTransactions shows the five most recent transactions, newest
// first.
func renderRecentTransactions(txs []stats.Transaction) string {
	if len(txs) == 0 {
		return "No transactions recorded.\n"
	}

	var sb strings.Builder
	sb.WriteString("Recent transactions:\n")
	for _, tx := range lastN(txs, 5) {
		action := "Sold"
		if tx.Kind == stats.KindPurchase {
			action = "Bought"
		}
		total := tx.Price * float64(tx.Quantity)
		fmt.Fprintf(&sb, "  %s  %s %dx %s for %s aUEC at %s\n",
			clock(tx.Timestamp), action, tx.Quantity, tx.ItemName, formatMoney(total), tx.Location)
	}
	return sb.String()
}

// renderRecentMissions shows the five most recent mission results, newest
// first.
func renderRecentMissions(missions []stats.Mission) string {
	if len(missions) == 0 {
		return "No missions recorded.\n"
	}

	var sb strings.Builder
	sb.WriteString("Recent missions:\n")
	for _, m := range lastN(missions, 5) {
		fmt.Fprintf(&sb, "  %s  %s: %s (%s)\n",
			clock(m.Timestamp), m.CompletionType, m.Reason, truncate(m.MissionID, 12))
	}
	return sb.String()
}

// lastN returns up to n trailing elements of s in reverse (newest first).
func lastN[T any](s []T, n int) []T {
	if len(s) < n {
		n = len(s)
	}
	out := make([]T, 0, n)
	for i := len(s) - 1; i >= len(s)-n; i-- {
		out = append(out, s[i])
	}
	return out
}

func clock(t time.Time) string {
	if t.IsZero() {
		return "--:--:--"
	}
	return t.Format("15:04:05")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// profit colorizes a net-profit figure: green when positive, red when
// negative.
func profit(v float64) string {
	s := formatMoney(v)
	switch {
	case v > 0:
		return colorize(colorGreen, s)
	case v < 0:
		return colorize(colorRed, s)
	default:
		return s
	}
}

// formatMoney renders an aUEC amount with thousands separators and no
// fractional part; the game only deals in whole credits.
func formatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := fmt.Sprintf("%.0f", v)
	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}
	return sb.String()
}

// formatUptime renders seconds as "1h 30m" (or "45m" under an hour).
func formatUptime(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// truncate shortens s to max characters, appending "..." when cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
