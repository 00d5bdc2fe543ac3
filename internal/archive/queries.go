package archive

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/verselog/verselog/internal/stats"
)

// SessionSummary is one row of the archived-session listing.
type SessionSummary struct {
	ID         int64
	ArchivedAt time.Time
	PlayerName string
	MapName    string
	StartTime  time.Time
	EndTime    time.Time
	NetProfit  float64
	Trades     int
	Missions   int
}

// SaveSnapshot archives one session snapshot, inserting the session row and
// its transaction and mission records in a single transaction. It returns
// the new session's row ID.
func (d *DB) SaveSnapshot(snap stats.Snapshot) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("archive: begin transaction: %w", err)
	}

	res, err := tx.Exec(`
		INSERT INTO sessions
		(archived_at, player_name, player_geid, map_name, branch, game_version,
		 start_time, end_time, uptime_seconds,
		 total_earned, total_spent, net_profit, items_purchased, items_sold,
		 missions_completed, missions_abandoned, missions_failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		snap.Session.PlayerName,
		snap.Session.PlayerGEID,
		snap.Session.MapName,
		snap.Session.Branch,
		snap.Session.GameVersion,
		formatTime(snap.Session.StartTime),
		formatTime(snap.Session.EndTime),
		snap.Session.UptimeSeconds,
		snap.Inventory.TotalEarned,
		snap.Inventory.TotalSpent,
		snap.Inventory.NetProfit,
		snap.Inventory.ItemsPurchased,
		snap.Inventory.ItemsSold,
		snap.Missions.Completed,
		snap.Missions.Abandoned,
		snap.Missions.Failed,
	)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return 0, fmt.Errorf("archive: insert session: %w", err)
	}

	sessionID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return 0, fmt.Errorf("archive: session id: %w", err)
	}

	txStmt, err := tx.Prepare(`
		INSERT INTO transactions (session_id, item_name, kind, price, quantity, timestamp, location)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return 0, fmt.Errorf("archive: prepare transaction insert: %w", err)
	}
	defer txStmt.Close()

	for _, t := range snap.Inventory.Transactions {
		if _, err := txStmt.Exec(sessionID, t.ItemName, string(t.Kind), t.Price, t.Quantity, formatTime(t.Timestamp), t.Location); err != nil {
			tx.Rollback() //nolint:errcheck
			return 0, fmt.Errorf("archive: insert transaction %s: %w", t.ItemName, err)
		}
	}

	mStmt, err := tx.Prepare(`
		INSERT INTO missions (session_id, mission_id, player_name, player_id, completion_type, reason, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return 0, fmt.Errorf("archive: prepare mission insert: %w", err)
	}
	defer mStmt.Close()

	for _, m := range snap.Missions.Missions {
		if _, err := mStmt.Exec(sessionID, m.MissionID, m.PlayerName, m.PlayerID, m.CompletionType, m.Reason, formatTime(m.Timestamp)); err != nil {
			tx.Rollback() //nolint:errcheck
			return 0, fmt.Errorf("archive: insert mission %s: %w", m.MissionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("archive: commit: %w", err)
	}
	return sessionID, nil
}

// ListSessions returns archived sessions, most recent first.
func (d *DB) ListSessions() ([]SessionSummary, error) {
	rows, err := d.db.Query(`
		SELECT s.id, s.archived_at, s.player_name, s.map_name, s.start_time, s.end_time, s.net_profit,
		       s.items_purchased + s.items_sold,
		       s.missions_completed + s.missions_abandoned + s.missions_failed
		FROM sessions s
		ORDER BY s.archived_at DESC, s.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("archive: list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionSummary
	for rows.Next() {
		var s SessionSummary
		var archivedAt, startTime, endTime string
		if err := rows.Scan(&s.ID, &archivedAt, &s.PlayerName, &s.MapName, &startTime, &endTime, &s.NetProfit, &s.Trades, &s.Missions); err != nil {
			return nil, fmt.Errorf("archive: scan session: %w", err)
		}
		s.ArchivedAt = parseTime(archivedAt)
		s.StartTime = parseTime(startTime)
		s.EndTime = parseTime(endTime)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: iterate sessions: %w", err)
	}
	return sessions, nil
}

// Session returns one archived session by row ID.
func (d *DB) Session(id int64) (*SessionSummary, error) {
	var s SessionSummary
	var archivedAt, startTime, endTime string

	err := d.db.QueryRow(`
		SELECT id, archived_at, player_name, map_name, start_time, end_time, net_profit,
		       items_purchased + items_sold,
		       missions_completed + missions_abandoned + missions_failed
		FROM sessions
		WHERE id = ?`, id).Scan(
		&s.ID, &archivedAt, &s.PlayerName, &s.MapName, &startTime, &endTime,
		&s.NetProfit, &s.Trades, &s.Missions)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("archive: session %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("archive: get session %d: %w", id, err)
	}

	s.ArchivedAt = parseTime(archivedAt)
	s.StartTime = parseTime(startTime)
	s.EndTime = parseTime(endTime)
	return &s, nil
}

// Transactions returns the trading ledger of an archived session in
// insertion order.
func (d *DB) Transactions(sessionID int64) ([]stats.Transaction, error) {
	rows, err := d.db.Query(`
		SELECT item_name, kind, price, quantity, timestamp, location
		FROM transactions WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("archive: list transactions: %w", err)
	}
	defer rows.Close()

	var txs []stats.Transaction
	for rows.Next() {
		var t stats.Transaction
		var kind, timestamp string
		if err := rows.Scan(&t.ItemName, &kind, &t.Price, &t.Quantity, &timestamp, &t.Location); err != nil {
			return nil, fmt.Errorf("archive: scan transaction: %w", err)
		}
		t.Kind = stats.TransactionKind(kind)
		t.Timestamp = parseTime(timestamp)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: iterate transactions: %w", err)
	}
	return txs, nil
}

// Missions returns the mission ledger of an archived session in insertion
// order.
func (d *DB) Missions(sessionID int64) ([]stats.Mission, error) {
	rows, err := d.db.Query(`
		SELECT mission_id, player_name, player_id, completion_type, reason, timestamp
		FROM missions WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("archive: list missions: %w", err)
	}
	defer rows.Close()

	var missions []stats.Mission
	for rows.Next() {
		var m stats.Mission
		var timestamp string
		if err := rows.Scan(&m.MissionID, &m.PlayerName, &m.PlayerID, &m.CompletionType, &m.Reason, &timestamp); err != nil {
			return nil, fmt.Errorf("archive: scan mission: %w", err)
		}
		m.Timestamp = parseTime(timestamp)
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: iterate missions: %w", err)
	}
	return missions, nil
}

// formatTime stores times as RFC3339 strings; the zero time is stored as the
// empty string so it round-trips as zero.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
