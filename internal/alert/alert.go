package alert

import (
	"context"
	"fmt"
	"strings"

	"botregistry/internal/exchange"
	"botregistry/internal/models"
	"botregistry/internal/registry"
	"botregistry/pkg/utils"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Payload - тело входящего webhook-алерта.
//
// TradingView не умеет ставить заголовки, поэтому секрет листенера
// передается внутри JSON тела. Поля за пределами известных игнорируются.
type Payload struct {
	Secret   string  `json:"secret"`
	Ticker   string  `json:"ticker"`
	Action   string  `json:"action"`
	Size     string  `json:"size,omitempty"`
	Price    float64 `json:"price,omitempty"`
	Time     string  `json:"time,omitempty"`
	Exchange string  `json:"exchange,omitempty"`
}

// Authorizer проверяет секрет листенера для входящего алерта.
// Реализуется registry.Registry.
type Authorizer interface {
	AuthorizeWebhook(botID, listenerID, secret string) (*models.ListenerView, error)
	GetBot(ctx context.Context, botID string) (*models.BotView, error)
}

// Result - итог обработки принятого алерта.
type Result struct {
	BotID      string                `json:"bot_id"`
	ListenerID string                `json:"listener_id"`
	Service    string                `json:"service"`
	Order      *exchange.OrderResult `json:"order"`
}

// Processor валидирует webhook-алерты и диспатчит их на венью бота.
type Processor struct {
	auth        Authorizer
	newExchange func(name string) exchange.Exchange
	log         *utils.Logger
}

// NewProcessor создает Processor поверх реестра.
func NewProcessor(auth Authorizer) *Processor {
	return &Processor{
		auth:        auth,
		newExchange: exchange.New,
		log:         utils.L().WithComponent("alert"),
	}
}

// Process обрабатывает один алерт: парсит тело, сверяет секрет листенера,
// валидирует обязательные поля и отправляет ордер на венью бота.
//
// Категории ошибок повторяют реестровые: ErrValidation для битого тела,
// неверного секрета и неполных полей, ErrNotFound для незнакомой пары
// (bot_id, listener_id).
func (p *Processor) Process(ctx context.Context, botID, listenerID string, body []byte) (*Result, error) {
	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: invalid alert body: %v", registry.ErrValidation, err)
	}

	listener, err := p.auth.AuthorizeWebhook(botID, listenerID, payload.Secret)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(payload.Ticker) == "" {
		return nil, fmt.Errorf("%w: ticker is required", registry.ErrValidation)
	}
	switch strings.ToLower(payload.Action) {
	case "buy", "sell", "close":
	default:
		return nil, fmt.Errorf("%w: action must be buy, sell or close", registry.ErrValidation)
	}

	bot, err := p.auth.GetBot(ctx, botID)
	if err != nil {
		return nil, err
	}

	order, err := p.newExchange(bot.Exchange).PlaceOrder(ctx, exchange.OrderRequest{
		BotID:  botID,
		Ticker: payload.Ticker,
		Action: strings.ToLower(payload.Action),
		Size:   payload.Size,
		Price:  payload.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", registry.ErrValidation, err)
	}

	p.log.Info("alert processed",
		utils.BotID(botID),
		utils.ListenerID(listenerID),
		utils.Service(listener.Service),
		utils.String("ticker", payload.Ticker),
		utils.String("action", strings.ToLower(payload.Action)))

	return &Result{
		BotID:      botID,
		ListenerID: listenerID,
		Service:    listener.Service,
		Order:      order,
	}, nil
}
