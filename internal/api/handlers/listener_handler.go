package handlers

import (
	"net/http"
	"sort"

	"botregistry/internal/models"
	"botregistry/internal/registry"

	"github.com/gorilla/mux"
)

// ListenerHandler отвечает за управление листенерами бота
//
// Endpoints:
// - POST /api/v1/bots/{bot_id}/listeners                  - добавление листенера
// - GET /api/v1/bots/{bot_id}/listeners                   - список с фильтрацией
// - GET /api/v1/bots/{bot_id}/listeners/{listener_id}     - получение листенера
// - PATCH|PUT /api/v1/bots/{bot_id}/listeners/{listener_id} - частичное обновление
// - DELETE /api/v1/bots/{bot_id}/listeners/{listener_id}  - удаление листенера
// - DELETE /api/v1/bots/{bot_id}/listeners                - пакетное удаление по фильтру
type ListenerHandler struct {
	service      registry.Service
	defaultLimit int
}

// NewListenerHandler создает новый ListenerHandler с внедрением зависимостей
func NewListenerHandler(service registry.Service, defaultLimit int) *ListenerHandler {
	return &ListenerHandler{
		service:      service,
		defaultLimit: defaultLimit,
	}
}

// CreateListener добавляет листенер к существующему боту
// POST /api/v1/bots/{bot_id}/listeners
//
// Request Body:
//
//	{
//	  "listener_id": "tv-long",     // опционально, иначе генерируется UUID
//	  "service": "TradingView",
//	  "secret": "...",              // опционально
//	  "msg": "{...}"                // опционально, иначе шаблон по service
//	}
//
// Response:
// - 201 Created: листенер создан
// - 400 Bad Request: пустой service
// - 404 Not Found: бот не найден
// - 409 Conflict: listener_id уже занят у этого бота
func (h *ListenerHandler) CreateListener(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var args models.ListenerInsertArgs
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	args.BotID = vars["bot_id"]

	view, err := h.service.AddListener(r.Context(), args)
	if err != nil {
		handleRegistryError(w, err)
		return
	}

	respondWithData(w, http.StatusCreated, view)
}

// GetListeners возвращает листенеры бота, удовлетворяющие фильтру
// GET /api/v1/bots/{bot_id}/listeners
//
// Query Parameters:
// - listener_id, service - фильтры (AND-семантика)
// - page, limit - пагинация (limit=0 отключает)
//
// Response:
// - 200 OK: массив листенеров (возможно пустой)
// - 404 Not Found: бот не найден
func (h *ListenerHandler) GetListeners(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	p, err := parsePagination(r, h.defaultLimit)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := &models.ListenerListArgs{
		ListenerID: optQueryString(r, "listener_id"),
		Service:    optQueryString(r, "service"),
	}

	views, err := h.service.ListListeners(r.Context(), vars["bot_id"], filter)
	if err != nil {
		handleRegistryError(w, err)
		return
	}

	sort.Slice(views, func(i, j int) bool { return views[i].ListenerID < views[j].ListenerID })

	respondWithData(w, http.StatusOK, paginate(views, p))
}

// GetListener возвращает листенер по точной паре идентификаторов
// GET /api/v1/bots/{bot_id}/listeners/{listener_id}
//
// Response:
// - 200 OK: данные листенера
// - 404 Not Found: бот или листенер не найден
func (h *ListenerHandler) GetListener(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	view, err := h.service.GetListener(r.Context(), vars["bot_id"], vars["listener_id"])
	if err != nil {
		handleRegistryError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, view)
}

// UpdateListener выполняет частичное обновление листенера
// PATCH|PUT /api/v1/bots/{bot_id}/listeners/{listener_id}
//
// Response:
// - 200 OK: обновленный листенер
// - 400 Bad Request: невалидное тело или пустой service
// - 404 Not Found: бот или листенер не найден
func (h *ListenerHandler) UpdateListener(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var args models.ListenerUpdateArgs
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	args.BotID = vars["bot_id"]
	args.ListenerID = vars["listener_id"]

	view, err := h.service.UpdateListener(r.Context(), args)
	if err != nil {
		handleRegistryError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, view)
}

// DeleteListener удаляет один листенер бота
// DELETE /api/v1/bots/{bot_id}/listeners/{listener_id}
//
// Response:
// - 200 OK: удаленный листенер
// - 404 Not Found: бот или листенер не найден
func (h *ListenerHandler) DeleteListener(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	view, err := h.service.DeleteListener(r.Context(), vars["bot_id"], vars["listener_id"])
	if err != nil {
		handleRegistryError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, view)
}

// DeleteListeners удаляет все листенеры бота, подходящие под фильтр
// DELETE /api/v1/bots/{bot_id}/listeners
//
// Query Parameters:
// - listener_id, service - фильтры; без фильтров удаляются все листенеры
//
// Response:
// - 200 OK: массив удаленных листенеров (пустой, если ничего не совпало)
// - 404 Not Found: бот не найден
func (h *ListenerHandler) DeleteListeners(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	filter := &models.ListenerListArgs{
		ListenerID: optQueryString(r, "listener_id"),
		Service:    optQueryString(r, "service"),
	}

	views, err := h.service.DeleteListeners(r.Context(), vars["bot_id"], filter)
	if err != nil {
		handleRegistryError(w, err)
		return
	}

	sort.Slice(views, func(i, j int) bool { return views[i].ListenerID < views[j].ListenerID })

	respondWithData(w, http.StatusOK, views)
}
