package exchange

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"botregistry/pkg/utils"

	"github.com/google/uuid"
)

// Ошибки исполнения ордеров.
var (
	ErrInvalidOrder = errors.New("invalid order")
)

// OrderRequest - нормализованный ордер, собранный из webhook-алерта.
type OrderRequest struct {
	BotID  string  `json:"bot_id"`
	Ticker string  `json:"ticker"`
	Action string  `json:"action"` // buy, sell, close
	Size   string  `json:"size"`   // в нотации источника, например "100%"
	Price  float64 `json:"price,omitempty"`
}

// OrderResult - подтверждение принятия ордера венью.
type OrderResult struct {
	OrderID    string    `json:"order_id"`
	Exchange   string    `json:"exchange"`
	AcceptedAt time.Time `json:"accepted_at"`
}

// Exchange - интерфейс венью, куда диспатчатся ордера из алертов.
type Exchange interface {
	Name() string
	PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
}

// New возвращает адаптер венью по имени из конфигурации бота.
// Реальных коннекторов пока нет: любое имя получает paper-адаптер,
// который валидирует и журналирует ордер, не отправляя его.
func New(name string) Exchange {
	return &paperExchange{
		name: strings.ToLower(strings.TrimSpace(name)),
		log:  utils.L().WithComponent("exchange"),
	}
}

// paperExchange - адаптер-заглушка: принимает любой валидный ордер.
type paperExchange struct {
	name string
	log  *utils.Logger
}

func (e *paperExchange) Name() string {
	return e.name
}

func (e *paperExchange) PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.Ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", ErrInvalidOrder)
	}
	switch strings.ToLower(req.Action) {
	case "buy", "sell", "close":
	default:
		return nil, fmt.Errorf("%w: action must be buy, sell or close", ErrInvalidOrder)
	}

	result := &OrderResult{
		OrderID:    uuid.NewString(),
		Exchange:   e.name,
		AcceptedAt: time.Now().UTC(),
	}

	e.log.Info("paper order accepted",
		utils.Exchange(e.name),
		utils.BotID(req.BotID),
		utils.String("ticker", req.Ticker),
		utils.String("action", req.Action),
		utils.String("order_id", result.OrderID))

	return result, nil
}
