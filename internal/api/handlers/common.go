package handlers

import (
	"net/http"
	"strconv"

	"botregistry/internal/registry"
	"botregistry/pkg/utils"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIResponse - единый envelope всех ответов API.
//
// Успех:  {"success": true,  "data": ...}
// Ошибка: {"success": false, "error": "..."}
//
// Remote-фасад (internal/client) декодирует ровно этот формат, поэтому
// менять его можно только синхронно с клиентом.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Pagination - параметры постраничной выдачи list-операций.
// Применяется только на HTTP-слое, после фильтрации: реестр и offline CLI
// всегда работают с полным набором.
type Pagination struct {
	Page  int
	Limit int
}

// parsePagination читает page и limit из query-параметров.
// page по умолчанию 1, limit по умолчанию defaultLimit, limit=0 отключает
// пагинацию. Некорректные значения отклоняются с ошибкой.
func parsePagination(r *http.Request, defaultLimit int) (Pagination, error) {
	p := Pagination{Page: 1, Limit: defaultLimit}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return p, errInvalidPage
		}
		p.Page = page
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return p, errInvalidLimit
		}
		p.Limit = limit
	}
	return p, nil
}

var (
	errInvalidPage  = paginationError("page must be a positive integer")
	errInvalidLimit = paginationError("limit must be a non-negative integer")
)

type paginationError string

func (e paginationError) Error() string { return string(e) }

// paginate вырезает запрошенную страницу из отсортированного среза.
// Страница за пределами набора - пустой срез, не ошибка.
func paginate[T any](items []T, p Pagination) []T {
	if p.Limit == 0 {
		return items
	}
	start := (p.Page - 1) * p.Limit
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// respondWithJSON отправляет JSON ответ
func respondWithJSON(w http.ResponseWriter, statusCode int, payload APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		utils.L().WithComponent("api").Error("failed to encode response", utils.Err(err))
	}
}

// respondWithData отправляет успешный envelope с данными
func respondWithData(w http.ResponseWriter, statusCode int, data interface{}) {
	respondWithJSON(w, statusCode, APIResponse{Success: true, Data: data})
}

// respondWithError отправляет envelope с ошибкой
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, APIResponse{Success: false, Error: message})
}

// handleRegistryError отображает категорию ошибки реестра в статус-код
func handleRegistryError(w http.ResponseWriter, err error) {
	respondWithError(w, registry.StatusFor(err), err.Error())
}

// optQueryString возвращает указатель на query-параметр, nil если не задан.
// Отсутствующий и пустой параметр одинаково означают "без фильтра".
func optQueryString(r *http.Request, key string) *string {
	if value := r.URL.Query().Get(key); value != "" {
		return &value
	}
	return nil
}

// optQueryFloat парсит числовой query-параметр, nil если не задан.
func optQueryFloat(r *http.Request, key string) (*float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
