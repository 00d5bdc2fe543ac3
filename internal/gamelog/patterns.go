package gamelog

import "regexp"

// Event type labels as they appear between angle brackets in Game.log. The
// shop-UI and shopping-provider pairs share one field grammar today, but each
// keeps its own dispatch entry: CIG has forked these request paths before and
// their payloads may diverge again.
const (
	labelShopUIBuy      = "CEntityComponentShopUIProvider::SendShopBuyRequest"
	labelShopUISell     = "CEntityComponentShopUIProvider::SendShopSellRequest"
	labelStandardBuy    = "CEntityComponentShoppingProvider::SendStandardItemBuyRequest"
	labelStandardSell   = "CEntityComponentShoppingProvider::SendStandardItemSellRequest"
	labelCommoditySell  = "CEntityComponentCommodityUIProvider::SendCommoditySellRequest"
	labelCommodityBuy   = "CEntityComponentCommodityUIProvider::SendCommodityBuyRequest"
	labelChannelCreated = "Channel Created"
	labelChannelDisconn = "Channel Disconnected"
	labelEndMission     = "EndMission"
)

var (
	// timestampAndLabel captures the line timestamp and the event type label
	// in a single scan; nearly every line has the timestamp, only some carry
	// a label, and matching both at once avoids a second pass.
	timestampAndLabel = regexp.MustCompile(`<([0-9T:.-]+Z?)>[^<]*<([^>]+)>`)

	// timestampOnly handles lines that carry a timestamp but no event label.
	timestampOnly = regexp.MustCompile(`<([0-9T:.-]+Z?)>`)

	// One-time session fields from the log preamble.
	branchPattern  = regexp.MustCompile(`Branch:\s+([\w.-]+)`)
	versionPattern = regexp.MustCompile(`ProductVersion:\s+([\d.]+)`)

	// Shop-UI and standard-item transactions share one key[value] grammar:
	// shop name, total price, item name, quantity.
	shopTransaction = regexp.MustCompile(`shopName\[([^\]]+)\].*?client_price\[([\d.]+)\].*?itemName\[([^\]]+)\].*?quantity\[(\d+)\]`)

	// Commodity kiosk grammars. Sells report a flat amount and unit count;
	// buys report the quantity in hundredths of an SCU ("cSCU").
	commoditySellTransaction = regexp.MustCompile(`shopName\[([^\]]+)\].*?amount\[([\d.]+)\].*?resourceGUID\[([^\]]+)\].*?quantity\[(\d+)\]`)
	commodityBuyTransaction  = regexp.MustCompile(`shopName\[([^\]]+)\].*?price\[([\d.]+)\].*?resourceGUID\[([^\]]+)\].*?quantity\[([\d.]+) cSCU\]`)

	// channelCreated extracts map, nickname, and GEID in one combined pass.
	channelCreated = regexp.MustCompile(`map="([^"]*)".*?nickname="([^"]*)".*?playerGEID=(\d+)`)

	// uptimePattern extracts the final session uptime from a disconnect line.
	uptimePattern = regexp.MustCompile(`uptime_secs=([\d.]+)`)

	// missionEnd extracts the full mission result tuple.
	missionEnd = regexp.MustCompile(`MissionId\[([^\]]+)\]\s+Player\[([^\]]+)\]\s+PlayerId\[([^\]]+)\]\s+CompletionType\[([^\]]+)\]\s+Reason\[([^\]]+)\]`)
)
