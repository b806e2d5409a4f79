package models

import (
	"fmt"
	"sort"
	"strings"
)

// Внешние представления записей реестра.
//
// View-структуры намеренно не содержат чувствительных полей
// (secret, api_key, api_secret, webhook_secret, private_key),
// поэтому их утечка через сериализацию невозможна в принципе.

// BotView - внешняя проекция бота.
type BotView struct {
	BotID           string                  `json:"bot_id"`
	Name            string                  `json:"name"`
	Exchange        string                  `json:"exchange"`
	RestEndpoint    *string                 `json:"rest_endpoint,omitempty"`
	RPCEndpoint     *string                 `json:"rpc_endpoint,omitempty"`
	TradingFee      *float64                `json:"trading_fee,omitempty"`
	ContractAddress *string                 `json:"contract_address,omitempty"`
	Listeners       map[string]ListenerView `json:"listeners"`
}

// ListenerView - внешняя проекция листенера.
type ListenerView struct {
	BotID      string `json:"bot_id"`
	ListenerID string `json:"listener_id"`
	Service    string `json:"service"`
	Msg        string `json:"msg"`
}

// NewBotView строит view из внутренней записи, отбрасывая секреты.
func NewBotView(bot *Bot) *BotView {
	view := &BotView{
		BotID:           bot.BotID,
		Name:            bot.Name,
		Exchange:        bot.Exchange,
		RestEndpoint:    cloneString(bot.RestEndpoint),
		RPCEndpoint:     cloneString(bot.RPCEndpoint),
		ContractAddress: cloneString(bot.ContractAddress),
		Listeners:       make(map[string]ListenerView, len(bot.Listeners)),
	}
	if bot.TradingFee != nil {
		fee := *bot.TradingFee
		view.TradingFee = &fee
	}
	for id, l := range bot.Listeners {
		view.Listeners[id] = NewListenerView(bot.BotID, id, l)
	}
	return view
}

// NewListenerView строит view листенера, отбрасывая секрет.
func NewListenerView(botID, listenerID string, l Listener) ListenerView {
	return ListenerView{
		BotID:      botID,
		ListenerID: listenerID,
		Service:    l.Service,
		Msg:        l.Msg,
	}
}

func (v *BotView) String() string {
	return fmt.Sprintf(
		"Bot ID: %s\nName: %s\nExchange: %s\nREST Endpoint: %s\nRPC Endpoint: %s\nTrading Fee: %s\nContract Address: %s\nListeners: %d",
		v.BotID, v.Name, v.Exchange,
		optString(v.RestEndpoint), optString(v.RPCEndpoint),
		optFloat(v.TradingFee), optString(v.ContractAddress),
		len(v.Listeners),
	)
}

func (v ListenerView) String() string {
	return fmt.Sprintf(
		"Listener ID: %s\nService: %s\nBot ID: %s\nMessage: %s",
		v.ListenerID, v.Service, v.BotID, v.Msg,
	)
}

// FormatBotViews печатает список ботов в детерминированном порядке
// (реестр хранит их в неупорядоченной map).
func FormatBotViews(views []BotView) string {
	sorted := make([]BotView, len(views))
	copy(sorted, views)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].BotID < sorted[j].BotID })

	parts := make([]string, 0, len(sorted))
	for i := range sorted {
		parts = append(parts, sorted[i].String())
	}
	return strings.Join(parts, "\n---\n")
}

// FormatListenerViews печатает список листенеров в детерминированном порядке.
func FormatListenerViews(views []ListenerView) string {
	sorted := make([]ListenerView, len(views))
	copy(sorted, views)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ListenerID < sorted[j].ListenerID })

	parts := make([]string, 0, len(sorted))
	for _, v := range sorted {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "\n---\n")
}
