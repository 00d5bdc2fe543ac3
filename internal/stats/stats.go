// Package stats owns the running session aggregate built from parsed log
// events: the session identity, the transaction and mission ledgers, and the
// derived totals.
//
// The store is single-writer / multi-reader: the monitor's backend goroutine
// applies mutations while display and HTTP consumers read snapshots
// concurrently. Every mutation holds the write lock for the full update, so a
// reader can never observe a record appended without its totals.
package stats

import (
	"strings"
	"sync"
	"time"
)

// TransactionKind distinguishes purchases from sales.
type TransactionKind string

const (
	KindPurchase TransactionKind = "purchase"
	KindSale     TransactionKind = "sale"
)

// Transaction is one immutable entry in the trading ledger. Price is the
// per-unit price; the total value of the transaction is Price * Quantity.
type Transaction struct {
	ItemName  string          `json:"item_name"`
	Kind      TransactionKind `json:"transaction_type"`
	Price     float64         `json:"price"`
	Quantity  int             `json:"quantity"`
	Timestamp time.Time       `json:"timestamp"`
	Location  string          `json:"location"`
}

// Mission is one immutable entry in the mission ledger.
type Mission struct {
	MissionID      string    `json:"mission_id"`
	PlayerName     string    `json:"player_name"`
	PlayerID       string    `json:"player_id"`
	CompletionType string    `json:"completion_type"`
	Reason         string    `json:"reason"`
	Timestamp      time.Time `json:"timestamp"`
}

// Session describes the current game session as reconstructed from the log.
type Session struct {
	PlayerName    string    `json:"player_name"`
	PlayerGEID    string    `json:"player_geid"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Branch        string    `json:"branch"`
	GameVersion   string    `json:"game_version"`
	MapName       string    `json:"map_name"`
	UptimeSeconds float64   `json:"uptime_seconds"`
}

// Inventory groups the trading ledger with its derived totals.
type Inventory struct {
	Transactions   []Transaction `json:"transactions"`
	TotalEarned    float64       `json:"total_money_earned"`
	TotalSpent     float64       `json:"total_money_spent"`
	NetProfit      float64       `json:"net_profit"`
	ItemsPurchased int           `json:"total_items_purchased"`
	ItemsSold      int           `json:"total_items_sold"`
}

// Missions groups the mission ledger with its completion counters.
type Missions struct {
	Missions  []Mission `json:"missions"`
	Completed int       `json:"missions_completed"`
	Abandoned int       `json:"missions_abandoned"`
	Failed    int       `json:"missions_failed"`
}

// Snapshot is a self-contained copy of the aggregate, safe to read, render,
// or serialize while the monitor keeps appending to the live store.
type Snapshot struct {
	Session    Session   `json:"session"`
	Inventory  Inventory `json:"inventory"`
	Missions   Missions  `json:"missions"`
	LastUpdate time.Time `json:"last_update"`
}

// Store is the mutable aggregate. All exported methods are safe for
// concurrent use.
type Store struct {
	mu sync.RWMutex

	session   Session
	inventory Inventory
	missions  Missions

	// lastEvent is the most recent timestamp seen in any line. Records whose
	// own line carries no timestamp are stamped with it.
	lastEvent time.Time
}

// New returns an empty store with freshly allocated ledgers.
func New() *Store {
	s := &Store{}
	s.resetLocked()
	return s
}

// Reset clears the aggregate back to its initial empty state. The monitor
// calls this before every initial full-file parse; it does not touch the
// file cursor.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Store) resetLocked() {
	s.session = Session{}
	s.inventory = Inventory{Transactions: []Transaction{}}
	s.missions = Missions{Missions: []Mission{}}
	s.lastEvent = time.Time{}
}

// ObserveTimestamp records a successfully parsed line timestamp. The first
// one also becomes the session start time.
func (s *Store) ObserveTimestamp(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastEvent = t
	if s.session.StartTime.IsZero() {
		s.session.StartTime = t
	}
}

// LastEventTime returns the most recent timestamp seen in any line, or the
// zero time if none has been parsed yet.
func (s *Store) LastEventTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastEvent
}

// AppendTransaction appends one record to the trading ledger and folds it
// into the totals.
func (s *Store) AppendTransaction(tx Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inventory.Transactions = append(s.inventory.Transactions, tx)

	total := tx.Price * float64(tx.Quantity)
	switch tx.Kind {
	case KindPurchase:
		s.inventory.TotalSpent += total
		s.inventory.ItemsPurchased += tx.Quantity
	case KindSale:
		s.inventory.TotalEarned += total
		s.inventory.ItemsSold += tx.Quantity
	}
	s.inventory.NetProfit = s.inventory.TotalEarned - s.inventory.TotalSpent
}

// AppendMission appends one record to the mission ledger and bumps the
// matching counter. Completion types are matched case-insensitively; anything
// that is not "complete" or "abandon" counts as failed, so the three counters
// always sum to the ledger length.
func (s *Store) AppendMission(m Mission) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.missions.Missions = append(s.missions.Missions, m)

	switch strings.ToLower(m.CompletionType) {
	case "complete":
		s.missions.Completed++
	case "abandon":
		s.missions.Abandoned++
	default:
		s.missions.Failed++
	}
}

// SetChannelInfo records the map, player name, and player GEID from a
// "Channel Created" event. Unlike the one-time session fields these are
// overwritten on every occurrence: the player can move between servers
// within one log.
func (s *Store) SetChannelInfo(mapName, playerName, playerGEID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.MapName = mapName
	s.session.PlayerName = playerName
	s.session.PlayerGEID = playerGEID
}

// SetBranch records the build branch. Only the first value sticks.
func (s *Store) SetBranch(branch string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Branch == "" {
		s.session.Branch = branch
	}
}

// HasBranch reports whether the branch has been recorded yet.
func (s *Store) HasBranch() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Branch != ""
}

// SetGameVersion records the product version. Only the first value sticks.
func (s *Store) SetGameVersion(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.GameVersion == "" {
		s.session.GameVersion = version
	}
}

// HasGameVersion reports whether the game version has been recorded yet.
func (s *Store) HasGameVersion() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.GameVersion != ""
}

// CloseSession marks the session as ended at the last observed event time.
func (s *Store) CloseSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lastEvent.IsZero() {
		s.session.EndTime = s.lastEvent
	}
}

// SetUptime records the final uptime reported by the disconnect event.
func (s *Store) SetUptime(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.UptimeSeconds = seconds
}

// Snapshot returns a deep copy of the aggregate valid at the time of the
// call. The ledger slices are copied, so the caller can hold the snapshot
// indefinitely without racing the writer.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Session:    s.session,
		Inventory:  s.inventory,
		Missions:   s.missions,
		LastUpdate: s.lastEvent,
	}
	snap.Inventory.Transactions = append([]Transaction{}, s.inventory.Transactions...)
	snap.Missions.Missions = append([]Mission{}, s.missions.Missions...)
	return snap
}
