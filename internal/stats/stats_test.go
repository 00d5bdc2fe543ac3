package stats

import (
	"testing"
	"time"
)

func TestAppendTransaction_Totals(t *testing.T) {
	tests := []struct {
		name           string
		txs            []Transaction
		wantEarned     float64
		wantSpent      float64
		wantNet        float64
		wantPurchased  int
		wantSold       int
	}{
		{
			name: "single purchase",
			txs: []Transaction{
				{ItemName: "Helmet", Kind: KindPurchase, Price: 20, Quantity: 5},
			},
			wantSpent:     100,
			wantNet:       -100,
			wantPurchased: 5,
		},
		{
			name: "single sale",
			txs: []Transaction{
				{ItemName: "Laranite", Kind: KindSale, Price: 30, Quantity: 10},
			},
			wantEarned: 300,
			wantNet:    300,
			wantSold:   10,
		},
		{
			name: "mixed trading",
			txs: []Transaction{
				{ItemName: "Helmet", Kind: KindPurchase, Price: 20, Quantity: 5},
				{ItemName: "Laranite", Kind: KindSale, Price: 30, Quantity: 10},
				{ItemName: "Medpen", Kind: KindPurchase, Price: 50, Quantity: 2},
			},
			wantEarned:    300,
			wantSpent:     200,
			wantNet:       100,
			wantPurchased: 7,
			wantSold:      10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			for _, tx := range tt.txs {
				s.AppendTransaction(tx)
			}

			snap := s.Snapshot()
			inv := snap.Inventory
			if inv.TotalEarned != tt.wantEarned {
				t.Errorf("TotalEarned = %v, want %v", inv.TotalEarned, tt.wantEarned)
			}
			if inv.TotalSpent != tt.wantSpent {
				t.Errorf("TotalSpent = %v, want %v", inv.TotalSpent, tt.wantSpent)
			}
			if inv.NetProfit != tt.wantNet {
				t.Errorf("NetProfit = %v, want %v", inv.NetProfit, tt.wantNet)
			}
			if inv.ItemsPurchased != tt.wantPurchased {
				t.Errorf("ItemsPurchased = %v, want %v", inv.ItemsPurchased, tt.wantPurchased)
			}
			if inv.ItemsSold != tt.wantSold {
				t.Errorf("ItemsSold = %v, want %v", inv.ItemsSold, tt.wantSold)
			}
			if len(inv.Transactions) != len(tt.txs) {
				t.Errorf("ledger length = %d, want %d", len(inv.Transactions), len(tt.txs))
			}
		})
	}
}

func TestAppendMission_Bucketing(t *testing.T) {
	s := New()

	types := []string{"Complete", "complete", "Abandon", "Fail", "Interrupted", "COMPLETE"}
	for _, ct := range types {
		s.AppendMission(Mission{MissionID: "m-" + ct, CompletionType: ct})
	}

	snap := s.Snapshot()
	m := snap.Missions
	if m.Completed != 3 {
		t.Errorf("Completed = %d, want 3", m.Completed)
	}
	if m.Abandoned != 1 {
		t.Errorf("Abandoned = %d, want 1", m.Abandoned)
	}
	// "Fail" and any unrecognized type bucket as failed.
	if m.Failed != 2 {
		t.Errorf("Failed = %d, want 2", m.Failed)
	}
	if got := m.Completed + m.Abandoned + m.Failed; got != len(m.Missions) {
		t.Errorf("counter sum = %d, want ledger length %d", got, len(m.Missions))
	}
}

func TestObserveTimestamp_SetsStartOnce(t *testing.T) {
	s := New()

	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	s.ObserveTimestamp(first)
	s.ObserveTimestamp(second)

	snap := s.Snapshot()
	if !snap.Session.StartTime.Equal(first) {
		t.Errorf("StartTime = %v, want %v", snap.Session.StartTime, first)
	}
	if !snap.LastUpdate.Equal(second) {
		t.Errorf("LastUpdate = %v, want %v", snap.LastUpdate, second)
	}
}

func TestCloseSession(t *testing.T) {
	s := New()
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	s.ObserveTimestamp(ts)
	s.CloseSession()
	s.SetUptime(5400.5)

	snap := s.Snapshot()
	if !snap.Session.EndTime.Equal(ts) {
		t.Errorf("EndTime = %v, want %v", snap.Session.EndTime, ts)
	}
	if snap.Session.UptimeSeconds != 5400.5 {
		t.Errorf("UptimeSeconds = %v, want 5400.5", snap.Session.UptimeSeconds)
	}
}

func TestCloseSession_NoTimestampSeen(t *testing.T) {
	s := New()
	s.CloseSession()

	snap := s.Snapshot()
	if !snap.Session.EndTime.IsZero() {
		t.Errorf("EndTime = %v, want zero when no timestamp was ever parsed", snap.Session.EndTime)
	}
}

func TestSetBranchAndVersion_OneTime(t *testing.T) {
	s := New()

	s.SetBranch("sc-alpha-3.22")
	s.SetBranch("sc-alpha-9.99")
	s.SetGameVersion("3.22.1")
	s.SetGameVersion("9.99.9")

	snap := s.Snapshot()
	if snap.Session.Branch != "sc-alpha-3.22" {
		t.Errorf("Branch = %q, want first value to stick", snap.Session.Branch)
	}
	if snap.Session.GameVersion != "3.22.1" {
		t.Errorf("GameVersion = %q, want first value to stick", snap.Session.GameVersion)
	}
}

func TestSetChannelInfo_AlwaysOverwrites(t *testing.T) {
	s := New()

	s.SetChannelInfo("Stanton", "Pilot1", "12345")
	s.SetChannelInfo("Pyro", "Pilot1", "12345")

	snap := s.Snapshot()
	if snap.Session.MapName != "Pyro" {
		t.Errorf("MapName = %q, want %q", snap.Session.MapName, "Pyro")
	}
}

func TestReset_FreshContainers(t *testing.T) {
	s := New()
	s.AppendTransaction(Transaction{Kind: KindSale, Price: 10, Quantity: 1})
	s.AppendMission(Mission{CompletionType: "Complete"})
	s.ObserveTimestamp(time.Now())

	before := s.Snapshot()
	s.Reset()

	snap := s.Snapshot()
	if len(snap.Inventory.Transactions) != 0 || len(snap.Missions.Missions) != 0 {
		t.Error("Reset() left records in the ledgers")
	}
	if snap.Inventory.TotalEarned != 0 || snap.Missions.Completed != 0 {
		t.Error("Reset() left nonzero totals")
	}
	if !snap.LastUpdate.IsZero() {
		t.Error("Reset() left lastEvent set")
	}

	// The pre-reset snapshot must be unaffected: deep copy semantics.
	if len(before.Inventory.Transactions) != 1 {
		t.Error("snapshot taken before Reset() was mutated")
	}
}

func TestSnapshot_IsolatedFromWriter(t *testing.T) {
	s := New()
	s.AppendTransaction(Transaction{Kind: KindSale, Price: 5, Quantity: 2})

	snap := s.Snapshot()
	s.AppendTransaction(Transaction{Kind: KindSale, Price: 7, Quantity: 3})

	if len(snap.Inventory.Transactions) != 1 {
		t.Errorf("snapshot ledger length = %d, want 1", len(snap.Inventory.Transactions))
	}
}
