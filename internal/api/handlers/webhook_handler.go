package handlers

import (
	"io"
	"net/http"

	"botregistry/internal/alert"
	"botregistry/internal/registry"

	"github.com/gorilla/mux"
)

// Тело алерта ограничено: TradingView шлет небольшие JSON документы,
// все что больше - мусор или атака.
const maxAlertBody = 64 << 10 // 64 KiB

// WebhookHandler принимает алерты внешних сервисов
//
// Endpoints:
// - POST /webhook/{bot_id}/{listener_id} - прием алерта
//
// Endpoint живет вне /api/v1: URL вида /webhook/... вставляется в настройки
// TradingView и не должен меняться при версионировании API.
type WebhookHandler struct {
	processor *alert.Processor
}

// NewWebhookHandler создает новый WebhookHandler
func NewWebhookHandler(processor *alert.Processor) *WebhookHandler {
	return &WebhookHandler{processor: processor}
}

// ReceiveAlert обрабатывает входящий алерт
// POST /webhook/{bot_id}/{listener_id}
//
// Response:
// - 200 OK: алерт принят, ордер отправлен
// - 400 Bad Request: битое тело, неверный секрет или неполные поля
// - 404 Not Found: бот или листенер не найден
func (h *WebhookHandler) ReceiveAlert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	botID := vars["bot_id"]
	listenerID := vars["listener_id"]

	body, err := io.ReadAll(io.LimitReader(r.Body, maxAlertBody))
	if err != nil {
		registry.RecordAlert("unknown", false)
		respondWithError(w, http.StatusBadRequest, "failed to read alert body")
		return
	}

	result, err := h.processor.Process(r.Context(), botID, listenerID, body)
	if err != nil {
		registry.RecordAlert("unknown", false)
		handleRegistryError(w, err)
		return
	}

	registry.RecordAlert(result.Service, true)
	respondWithData(w, http.StatusOK, result)
}
