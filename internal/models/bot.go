package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Bot представляет подключение к торговой площадке: учетные данные,
// endpoints и принадлежащие боту webhook-листенеры.
//
// Чувствительные поля (APIKey, APISecret, WebhookSecret, PrivateKey)
// хранятся и персистятся как есть, но никогда не попадают во внешние
// представления (см. BotView).
type Bot struct {
	BotID           string              `json:"bot_id"`
	Name            string              `json:"name"`
	Exchange        string              `json:"exchange"`
	APIKey          *string             `json:"api_key,omitempty"`
	APISecret       *string             `json:"api_secret,omitempty"`
	RestEndpoint    *string             `json:"rest_endpoint,omitempty"`
	RPCEndpoint     *string             `json:"rpc_endpoint,omitempty"`
	WebhookSecret   *string             `json:"webhook_secret,omitempty"`
	TradingFee      *float64            `json:"trading_fee,omitempty"`
	PrivateKey      *string             `json:"private_key,omitempty"`
	ContractAddress *string             `json:"contract_address,omitempty"`
	Listeners       map[string]Listener `json:"listeners"`
}

// State - корневой документ реестра, в таком виде он сериализуется на диск.
type State struct {
	Bots map[string]*Bot `json:"bots"`
}

// NewState создает пустой реестр с инициализированной map.
func NewState() *State {
	return &State{Bots: make(map[string]*Bot)}
}

// BotInsertArgs - входные аргументы создания бота.
// bot_id опционален: если не задан, генерируется UUID v4.
type BotInsertArgs struct {
	BotID           *string  `json:"bot_id,omitempty"`
	Name            string   `json:"name"`
	Exchange        string   `json:"exchange"`
	APIKey          *string  `json:"api_key,omitempty"`
	APISecret       *string  `json:"api_secret,omitempty"`
	RestEndpoint    *string  `json:"rest_endpoint,omitempty"`
	RPCEndpoint     *string  `json:"rpc_endpoint,omitempty"`
	WebhookSecret   *string  `json:"webhook_secret,omitempty"`
	TradingFee      *float64 `json:"trading_fee,omitempty"`
	PrivateKey      *string  `json:"private_key,omitempty"`
	ContractAddress *string  `json:"contract_address,omitempty"`
}

// NewBot собирает Bot из аргументов создания.
// Генерирует bot_id, если он не был передан.
func NewBot(args BotInsertArgs) *Bot {
	botID := uuid.NewString()
	if args.BotID != nil && *args.BotID != "" {
		botID = *args.BotID
	}
	return &Bot{
		BotID:           botID,
		Name:            args.Name,
		Exchange:        args.Exchange,
		APIKey:          args.APIKey,
		APISecret:       args.APISecret,
		RestEndpoint:    args.RestEndpoint,
		RPCEndpoint:     args.RPCEndpoint,
		WebhookSecret:   args.WebhookSecret,
		TradingFee:      args.TradingFee,
		PrivateKey:      args.PrivateKey,
		ContractAddress: args.ContractAddress,
		Listeners:       make(map[string]Listener),
	}
}

// BotListArgs - фильтр списка ботов.
// nil-поле означает wildcard; заданные поля объединяются по AND.
type BotListArgs struct {
	BotID           *string  `json:"bot_id,omitempty"`
	Name            *string  `json:"name,omitempty"`
	Exchange        *string  `json:"exchange,omitempty"`
	APIKey          *string  `json:"api_key,omitempty"`
	RestEndpoint    *string  `json:"rest_endpoint,omitempty"`
	RPCEndpoint     *string  `json:"rpc_endpoint,omitempty"`
	TradingFee      *float64 `json:"trading_fee,omitempty"`
	PrivateKey      *string  `json:"private_key,omitempty"`
	ContractAddress *string  `json:"contract_address,omitempty"`
}

// Matches проверяет, удовлетворяет ли бот всем заданным предикатам фильтра.
func (a *BotListArgs) Matches(bot *Bot) bool {
	if a == nil {
		return true
	}
	return matchString(a.BotID, bot.BotID) &&
		matchString(a.Name, bot.Name) &&
		matchString(a.Exchange, bot.Exchange) &&
		matchOptString(a.APIKey, bot.APIKey) &&
		matchOptString(a.RestEndpoint, bot.RestEndpoint) &&
		matchOptString(a.RPCEndpoint, bot.RPCEndpoint) &&
		matchOptFloat(a.TradingFee, bot.TradingFee) &&
		matchOptString(a.PrivateKey, bot.PrivateKey) &&
		matchOptString(a.ContractAddress, bot.ContractAddress)
}

// BotUpdateArgs - частичное обновление бота.
// nil-поле означает "оставить без изменений", не "очистить".
type BotUpdateArgs struct {
	BotID           string   `json:"bot_id"`
	Name            *string  `json:"name,omitempty"`
	Exchange        *string  `json:"exchange,omitempty"`
	APIKey          *string  `json:"api_key,omitempty"`
	APISecret       *string  `json:"api_secret,omitempty"`
	RestEndpoint    *string  `json:"rest_endpoint,omitempty"`
	RPCEndpoint     *string  `json:"rpc_endpoint,omitempty"`
	WebhookSecret   *string  `json:"webhook_secret,omitempty"`
	TradingFee      *float64 `json:"trading_fee,omitempty"`
	PrivateKey      *string  `json:"private_key,omitempty"`
	ContractAddress *string  `json:"contract_address,omitempty"`
}

// Apply накладывает заданные поля на существующего бота (merge по полям).
func (a *BotUpdateArgs) Apply(bot *Bot) {
	if a.Name != nil {
		bot.Name = *a.Name
	}
	if a.Exchange != nil {
		bot.Exchange = *a.Exchange
	}
	if a.APIKey != nil {
		bot.APIKey = cloneString(a.APIKey)
	}
	if a.APISecret != nil {
		bot.APISecret = cloneString(a.APISecret)
	}
	if a.RestEndpoint != nil {
		bot.RestEndpoint = cloneString(a.RestEndpoint)
	}
	if a.RPCEndpoint != nil {
		bot.RPCEndpoint = cloneString(a.RPCEndpoint)
	}
	if a.WebhookSecret != nil {
		bot.WebhookSecret = cloneString(a.WebhookSecret)
	}
	if a.TradingFee != nil {
		fee := *a.TradingFee
		bot.TradingFee = &fee
	}
	if a.PrivateKey != nil {
		bot.PrivateKey = cloneString(a.PrivateKey)
	}
	if a.ContractAddress != nil {
		bot.ContractAddress = cloneString(a.ContractAddress)
	}
}

// Clone возвращает глубокую копию бота.
// Используется реестром для отката при сбое персистенции.
func (b *Bot) Clone() *Bot {
	clone := *b
	clone.APIKey = cloneString(b.APIKey)
	clone.APISecret = cloneString(b.APISecret)
	clone.RestEndpoint = cloneString(b.RestEndpoint)
	clone.RPCEndpoint = cloneString(b.RPCEndpoint)
	clone.WebhookSecret = cloneString(b.WebhookSecret)
	clone.PrivateKey = cloneString(b.PrivateKey)
	clone.ContractAddress = cloneString(b.ContractAddress)
	if b.TradingFee != nil {
		fee := *b.TradingFee
		clone.TradingFee = &fee
	}
	clone.Listeners = make(map[string]Listener, len(b.Listeners))
	for id, l := range b.Listeners {
		clone.Listeners[id] = l
	}
	return &clone
}

// ============ Вспомогательные функции сравнения ============

func matchString(want *string, have string) bool {
	return want == nil || *want == have
}

func matchOptString(want, have *string) bool {
	if want == nil {
		return true
	}
	return have != nil && *have == *want
}

func matchOptFloat(want, have *float64) bool {
	if want == nil {
		return true
	}
	return have != nil && *have == *want
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func optString(s *string) string {
	if s == nil {
		return "N/A"
	}
	return *s
}

func optFloat(f *float64) string {
	if f == nil {
		return "N/A"
	}
	return fmt.Sprintf("%g", *f)
}
