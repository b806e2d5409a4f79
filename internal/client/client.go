package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"botregistry/internal/models"
	"botregistry/internal/registry"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client - remote-фасад реестра поверх REST API.
//
// Реализует registry.Service: код, работающий через интерфейс, не различает
// локальный реестр и удаленный сервер. Сетевые сбои и некорректные ответы
// приходят как registry.ErrTransport, остальные категории восстанавливаются
// из статус-кода ответа.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ registry.Service = (*Client)(nil)

// New создает Client для сервера по указанному базовому URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// envelope повторяет handlers.APIResponse с отложенным декодированием data.
type envelope struct {
	Success bool                `json:"success"`
	Data    jsoniter.RawMessage `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// ============ Операции над ботами ============

func (c *Client) AddBot(ctx context.Context, args models.BotInsertArgs) (*models.BotView, error) {
	var view models.BotView
	if err := c.do(ctx, http.MethodPost, "/api/v1/bots", nil, args, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) ListBots(ctx context.Context, filter *models.BotListArgs) ([]models.BotView, error) {
	query := url.Values{}
	if filter != nil {
		addString(query, "bot_id", filter.BotID)
		addString(query, "name", filter.Name)
		addString(query, "exchange", filter.Exchange)
		addString(query, "api_key", filter.APIKey)
		addString(query, "rest_endpoint", filter.RestEndpoint)
		addString(query, "rpc_endpoint", filter.RPCEndpoint)
		addString(query, "private_key", filter.PrivateKey)
		addString(query, "contract_address", filter.ContractAddress)
		addFloat(query, "trading_fee", filter.TradingFee)
	}
	// Пагинация выключена: фасады должны возвращать одинаковые полные наборы
	query.Set("limit", "0")

	views := make([]models.BotView, 0)
	if err := c.do(ctx, http.MethodGet, "/api/v1/bots", query, nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *Client) GetBot(ctx context.Context, botID string) (*models.BotView, error) {
	var view models.BotView
	if err := c.do(ctx, http.MethodGet, "/api/v1/bots/"+url.PathEscape(botID), nil, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) UpdateBot(ctx context.Context, args models.BotUpdateArgs) (*models.BotView, error) {
	var view models.BotView
	path := "/api/v1/bots/" + url.PathEscape(args.BotID)
	if err := c.do(ctx, http.MethodPatch, path, nil, args, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) DeleteBot(ctx context.Context, botID string) (*models.BotView, error) {
	var view models.BotView
	if err := c.do(ctx, http.MethodDelete, "/api/v1/bots/"+url.PathEscape(botID), nil, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ============ Операции над листенерами ============

func (c *Client) AddListener(ctx context.Context, args models.ListenerInsertArgs) (*models.ListenerView, error) {
	var view models.ListenerView
	path := "/api/v1/bots/" + url.PathEscape(args.BotID) + "/listeners"
	if err := c.do(ctx, http.MethodPost, path, nil, args, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) ListListeners(ctx context.Context, botID string, filter *models.ListenerListArgs) ([]models.ListenerView, error) {
	// Сервер не может отличить пустой {bot_id} в пути от отсутствующего,
	// поэтому валидация дублируется на клиенте
	if strings.TrimSpace(botID) == "" {
		return nil, fmt.Errorf("%w: bot ID cannot be empty", registry.ErrValidation)
	}

	query := listenerQuery(filter)
	query.Set("limit", "0")

	views := make([]models.ListenerView, 0)
	path := "/api/v1/bots/" + url.PathEscape(botID) + "/listeners"
	if err := c.do(ctx, http.MethodGet, path, query, nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *Client) GetListener(ctx context.Context, botID, listenerID string) (*models.ListenerView, error) {
	var view models.ListenerView
	path := "/api/v1/bots/" + url.PathEscape(botID) + "/listeners/" + url.PathEscape(listenerID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) UpdateListener(ctx context.Context, args models.ListenerUpdateArgs) (*models.ListenerView, error) {
	var view models.ListenerView
	path := "/api/v1/bots/" + url.PathEscape(args.BotID) + "/listeners/" + url.PathEscape(args.ListenerID)
	if err := c.do(ctx, http.MethodPatch, path, nil, args, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) DeleteListener(ctx context.Context, botID, listenerID string) (*models.ListenerView, error) {
	var view models.ListenerView
	path := "/api/v1/bots/" + url.PathEscape(botID) + "/listeners/" + url.PathEscape(listenerID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) DeleteListeners(ctx context.Context, botID string, filter *models.ListenerListArgs) ([]models.ListenerView, error) {
	// Та же причина, что и в ListListeners: пустой {bot_id} в пути сервер
	// не различает, валидация дублируется на клиенте
	if strings.TrimSpace(botID) == "" {
		return nil, fmt.Errorf("%w: bot ID cannot be empty", registry.ErrValidation)
	}

	views := make([]models.ListenerView, 0)
	path := "/api/v1/bots/" + url.PathEscape(botID) + "/listeners"
	if err := c.do(ctx, http.MethodDelete, path, listenerQuery(filter), nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// ============ Helper методы ============

// do выполняет один HTTP вызов: сериализует тело, разбирает envelope и
// декодирует data в out (если out != nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", registry.ErrInternal, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("%w: %v", registry.ErrInternal, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", registry.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", registry.ErrTransport, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: malformed response from %s: %v", registry.ErrTransport, c.baseURL, err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		return registry.FromStatus(resp.StatusCode, env.Error)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: malformed response data: %v", registry.ErrTransport, err)
		}
	}
	return nil
}

func listenerQuery(filter *models.ListenerListArgs) url.Values {
	query := url.Values{}
	if filter != nil {
		addString(query, "listener_id", filter.ListenerID)
		addString(query, "service", filter.Service)
	}
	return query
}

func addString(query url.Values, key string, value *string) {
	if value != nil {
		query.Set(key, *value)
	}
}

func addFloat(query url.Values, key string, value *float64) {
	if value != nil {
		query.Set(key, strconv.FormatFloat(*value, 'f', -1, 64))
	}
}
