// Package gamelog turns raw Game.log lines into structured session events.
//
// Each line is classified in one pass: a combined pattern pulls out the
// timestamp and the event type label together, then the label selects a
// handler from a static dispatch table. Handlers extract the key[value]
// fields for their event and fold the result into the stats store. Lines
// that match nothing are discarded silently; a log full of noise is the
// normal case, not an error.
package gamelog

import (
	"strconv"
	"strings"
	"time"

	"github.com/verselog/verselog/internal/stats"
)

// Parser classifies log lines and applies the resulting domain records to a
// stats store. It keeps no parse state of its own: everything, including the
// last seen timestamp, lives in the store, so one Parser can survive a store
// Reset between sessions.
type Parser struct {
	store    *stats.Store
	handlers map[string]func(line string)
}

// New creates a Parser writing into store.
func New(store *stats.Store) *Parser {
	p := &Parser{store: store}
	p.handlers = map[string]func(line string){
		labelShopUIBuy:      func(line string) { p.handleShopTransaction(line, stats.KindPurchase) },
		labelShopUISell:     func(line string) { p.handleShopTransaction(line, stats.KindSale) },
		labelStandardBuy:    func(line string) { p.handleShopTransaction(line, stats.KindPurchase) },
		labelStandardSell:   func(line string) { p.handleShopTransaction(line, stats.KindSale) },
		labelCommoditySell:  p.handleCommoditySell,
		labelCommodityBuy:   p.handleCommodityBuy,
		labelChannelCreated: p.handleChannelCreated,
		labelChannelDisconn: p.handleChannelDisconnected,
		labelEndMission:     p.handleEndMission,
	}
	return p
}

// ParseLine classifies one log line and updates the store. It reports whether
// the line produced a structured event. Malformed timestamps and unmatched
// lines are skipped without error; a single bad line must never stop the
// pipeline.
func (p *Parser) ParseLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}

	if m := timestampAndLabel.FindStringSubmatch(line); m != nil {
		p.observeTimestamp(m[1])

		if handler, ok := p.handlers[m[2]]; ok {
			handler(line)
			return true
		}
		// Unknown label: the line still contributed its timestamp.
	} else if m := timestampOnly.FindStringSubmatch(line); m != nil {
		p.observeTimestamp(m[1])
	}

	// Preamble session fields, each captured at most once per session.
	if !p.store.HasBranch() {
		if m := branchPattern.FindStringSubmatch(line); m != nil {
			p.store.SetBranch(m[1])
			return true
		}
	}
	if !p.store.HasGameVersion() {
		if m := versionPattern.FindStringSubmatch(line); m != nil {
			p.store.SetGameVersion(m[1])
			return true
		}
	}

	return false
}

// ParseBatch runs ParseLine over a batch in order and reports how many lines
// produced structured events.
func (p *Parser) ParseBatch(lines []string) int {
	matched := 0
	for _, line := range lines {
		if p.ParseLine(line) {
			matched++
		}
	}
	return matched
}

// observeTimestamp parses an ISO-8601-ish timestamp and records it in the
// store. Malformed values are ignored.
func (p *Parser) observeTimestamp(raw string) {
	ts, ok := parseTimestamp(raw)
	if !ok {
		return
	}
	p.store.ObserveTimestamp(ts)
}

// parseTimestamp accepts the log's timestamp shape with or without the
// trailing Z; zone-less values are taken as UTC.
func parseTimestamp(raw string) (time.Time, bool) {
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts, true
	}
	if ts, err := time.Parse("2006-01-02T15:04:05.999999999", raw); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

// handleShopTransaction covers the four shop-UI / standard-item request
// events, which all share the shopName/client_price/itemName/quantity
// grammar. The logged price is the transaction total; per-unit price is
// derived from it.
func (p *Parser) handleShopTransaction(line string, kind stats.TransactionKind) {
	m := shopTransaction.FindStringSubmatch(line)
	if m == nil {
		return
	}

	totalPrice, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return
	}
	quantity, err := strconv.Atoi(m[4])
	if err != nil {
		return
	}

	p.store.AppendTransaction(stats.Transaction{
		ItemName:  m[3],
		Kind:      kind,
		Price:     unitPrice(totalPrice, quantity),
		Quantity:  quantity,
		Timestamp: p.store.LastEventTime(),
		Location:  m[1],
	})
}

func (p *Parser) handleCommoditySell(line string) {
	m := commoditySellTransaction.FindStringSubmatch(line)
	if m == nil {
		return
	}

	totalAmount, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return
	}
	quantity, err := strconv.Atoi(m[4])
	if err != nil {
		return
	}

	p.store.AppendTransaction(stats.Transaction{
		ItemName:  commodityName(m[3]),
		Kind:      stats.KindSale,
		Price:     unitPrice(totalAmount, quantity),
		Quantity:  quantity,
		Timestamp: p.store.LastEventTime(),
		Location:  m[1],
	})
}

// handleCommodityBuy converts the kiosk's cSCU quantity (hundredths of an
// SCU) to whole units, with a floor of one unit for sub-SCU purchases.
func (p *Parser) handleCommodityBuy(line string) {
	m := commodityBuyTransaction.FindStringSubmatch(line)
	if m == nil {
		return
	}

	totalPrice, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return
	}
	rawQuantity, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return
	}

	quantity := 1
	if rawQuantity >= 100 {
		quantity = int(rawQuantity / 100)
	}

	p.store.AppendTransaction(stats.Transaction{
		ItemName:  commodityName(m[3]),
		Kind:      stats.KindPurchase,
		Price:     unitPrice(totalPrice, quantity),
		Quantity:  quantity,
		Timestamp: p.store.LastEventTime(),
		Location:  m[1],
	})
}

func (p *Parser) handleChannelCreated(line string) {
	m := channelCreated.FindStringSubmatch(line)
	if m == nil {
		return
	}
	p.store.SetChannelInfo(m[1], m[2], m[3])
}

func (p *Parser) handleChannelDisconnected(line string) {
	p.store.CloseSession()

	if m := uptimePattern.FindStringSubmatch(line); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.store.SetUptime(v)
		}
	}
}

func (p *Parser) handleEndMission(line string) {
	m := missionEnd.FindStringSubmatch(line)
	if m == nil {
		return
	}

	p.store.AppendMission(stats.Mission{
		MissionID:      m[1],
		PlayerName:     m[2],
		PlayerID:       m[3],
		CompletionType: m[4],
		Reason:         m[5],
		Timestamp:      p.store.LastEventTime(),
	})
}

// unitPrice derives the per-unit price from a transaction total, guarding
// against a zero or negative quantity in a corrupt line.
func unitPrice(total float64, quantity int) float64 {
	if quantity <= 0 {
		return total
	}
	return total / float64(quantity)
}

// commodityName builds a display label from a resource GUID, keeping the
// first 8 characters for readability.
func commodityName(guid string) string {
	if len(guid) > 8 {
		guid = guid[:8]
	}
	return "Commodity-" + guid
}
