package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/verselog/verselog/internal/archive"
)

// RenderSessionTable renders archived sessions as a table, most recent first.
// The caller is expected to pass sessions already ordered by archive time.
func RenderSessionTable(sessions []archive.SessionSummary) string {
	if len(sessions) == 0 {
		return "No archived sessions.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-5s %-16s %-14s %-13s %-12s %-8s %s\n",
		"ID", "Player", "Map", "Archived", "Net Profit", "Trades", "Missions"))
	sb.WriteString(strings.Repeat("─", 82))
	sb.WriteString("\n")

	for _, s := range sessions {
		player := s.PlayerName
		if player == "" {
			player = "Unknown"
		}
		net := formatMoney(s.NetProfit)
		if IsColorEnabled() {
			color := colorGray
			if s.NetProfit > 0 {
				color = colorGreen
			} else if s.NetProfit < 0 {
				color = colorRed
			}
			net = color + fmt.Sprintf("%-12s", net) + colorReset
		} else {
			net = fmt.Sprintf("%-12s", net)
		}

		sb.WriteString(fmt.Sprintf("%-5d %-16s %-14s %-13s %s %-8d %d\n",
			s.ID,
			truncate(player, 16),
			truncate(orDash(s.MapName), 14),
			formatRelativeTime(s.ArchivedAt),
			net,
			s.Trades,
			s.Missions))
	}

	return sb.String()
}

// formatRelativeTime renders a timestamp relative to now ("3h ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
