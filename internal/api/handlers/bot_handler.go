package handlers

import (
	"net/http"
	"sort"

	"botregistry/internal/models"
	"botregistry/internal/registry"

	"github.com/gorilla/mux"
)

// BotHandler отвечает за управление ботами
//
// Endpoints:
// - POST /api/v1/bots            - регистрация нового бота
// - GET /api/v1/bots             - список ботов с фильтрацией
// - GET /api/v1/bots/{bot_id}    - получение конкретного бота
// - PATCH|PUT /api/v1/bots/{bot_id} - частичное обновление бота
// - DELETE /api/v1/bots/{bot_id} - удаление бота с листенерами
type BotHandler struct {
	service      registry.Service
	defaultLimit int
}

// NewBotHandler создает новый BotHandler с внедрением зависимостей
func NewBotHandler(service registry.Service, defaultLimit int) *BotHandler {
	return &BotHandler{
		service:      service,
		defaultLimit: defaultLimit,
	}
}

// CreateBot регистрирует нового бота
// POST /api/v1/bots
//
// Request Body:
//
//	{
//	  "bot_id": "my-bot",          // опционально, иначе генерируется UUID
//	  "name": "Main DCA bot",
//	  "exchange": "binance",
//	  "api_key": "...",            // опционально
//	  "trading_fee": 0.1           // опционально
//	}
//
// Response:
// - 201 Created: бот создан
// - 400 Bad Request: пустое name или exchange
// - 409 Conflict: bot_id уже занят
func (h *BotHandler) CreateBot(w http.ResponseWriter, r *http.Request) {
	var args models.BotInsertArgs
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	view, err := h.service.AddBot(r.Context(), args)
	if err != nil {
		handleRegistryError(w, err)
		return
	}

	respondWithData(w, http.StatusCreated, view)
}

// GetBots возвращает список ботов, удовлетворяющих фильтру
// GET /api/v1/bots
//
// Query Parameters:
// - bot_id, name, exchange, api_key, rest_endpoint, rpc_endpoint,
//   private_key, contract_address, trading_fee - фильтры (AND-семантика)
// - page, limit - пагинация (limit=0 отключает)
//
// Response:
// - 200 OK: массив ботов (возможно пустой)
// - 400 Bad Request: некорректный trading_fee или параметры пагинации
func (h *BotHandler) GetBots(w http.ResponseWriter, r *http.Request) {
	p, err := parsePagination(r, h.defaultLimit)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	tradingFee, err := optQueryFloat(r, "trading_fee")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "trading_fee must be a number")
		return
	}

	filter := &models.BotListArgs{
		BotID:           optQueryString(r, "bot_id"),
		Name:            optQueryString(r, "name"),
		Exchange:        optQueryString(r, "exchange"),
		APIKey:          optQueryString(r, "api_key"),
		RestEndpoint:    optQueryString(r, "rest_endpoint"),
		RPCEndpoint:     optQueryString(r, "rpc_endpoint"),
		PrivateKey:      optQueryString(r, "private_key"),
		ContractAddress: optQueryString(r, "contract_address"),
		TradingFee:      tradingFee,
	}

	views, err := h.service.ListBots(r.Context(), filter)
	if err != nil {
		handleRegistryError(w, err)
		return
	}

	// Порядок итерации по map недетерминирован, для стабильной пагинации
	// сортируем по bot_id
	sort.Slice(views, func(i, j int) bool { return views[i].BotID < views[j].BotID })

	respondWithData(w, http.StatusOK, paginate(views, p))
}

// GetBot возвращает конкретного бота по ID
// GET /api/v1/bots/{bot_id}
//
// Response:
// - 200 OK: данные бота
// - 404 Not Found: бот не найден
func (h *BotHandler) GetBot(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	view, err := h.service.GetBot(r.Context(), vars["bot_id"])
	if err != nil {
		handleRegistryError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, view)
}

// UpdateBot выполняет частичное обновление бота
// PATCH|PUT /api/v1/bots/{bot_id}
//
// Request Body (все поля опциональны, отсутствующие не трогаются):
//
//	{
//	  "name": "Renamed bot",
//	  "trading_fee": 0.2
//	}
//
// Response:
// - 200 OK: обновленный бот
// - 400 Bad Request: невалидное тело или пустое name/exchange
// - 404 Not Found: бот не найден
func (h *BotHandler) UpdateBot(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var args models.BotUpdateArgs
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	args.BotID = vars["bot_id"]

	view, err := h.service.UpdateBot(r.Context(), args)
	if err != nil {
		handleRegistryError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, view)
}

// DeleteBot удаляет бота вместе со всеми его листенерами
// DELETE /api/v1/bots/{bot_id}
//
// Response:
// - 200 OK: удаленный бот
// - 404 Not Found: бот не найден
func (h *BotHandler) DeleteBot(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	view, err := h.service.DeleteBot(r.Context(), vars["bot_id"])
	if err != nil {
		handleRegistryError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, view)
}
