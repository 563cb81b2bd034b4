// internal/domain/chat/quick_actions.go
package chat

// QuickAction is a canned question offered as a one-tap button
type QuickAction struct {
	ID      int    `json:"id"`
	Text    string `json:"text"`
	Action  string `json:"action"`
	Message string `json:"message"`
	Icon    string `json:"icon"`
}

var quickActions = []QuickAction{
	{ID: 1, Text: "Cek harga produk", Action: "price_check", Message: "Bagaimana cara mengecek harga produk?", Icon: "💰"},
	{ID: 2, Text: "Info pengiriman", Action: "shipping_info", Message: "Berapa lama waktu pengiriman?", Icon: "🚚"},
	{ID: 3, Text: "Cara pembayaran", Action: "payment_info", Message: "Apa saja metode pembayaran yang tersedia?", Icon: "💳"},
	{ID: 4, Text: "Kebijakan retur", Action: "return_policy", Message: "Bagaimana kebijakan retur produk?", Icon: "↩️"},
}

// QuickActions returns the fixed list of quick actions
func QuickActions() []QuickAction {
	out := make([]QuickAction, len(quickActions))
	copy(out, quickActions)
	return out
}

// FindQuickAction looks up a quick action by id
func FindQuickAction(id int) (QuickAction, bool) {
	for _, a := range quickActions {
		if a.ID == id {
			return a, true
		}
	}
	return QuickAction{}, false
}
