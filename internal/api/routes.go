package api

import (
	"net/http"

	"botregistry/internal/alert"
	"botregistry/internal/api/handlers"
	"botregistry/internal/api/middleware"
	"botregistry/internal/registry"
	"botregistry/internal/websocket"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	Registry       *registry.Registry
	Hub            *websocket.Hub
	AllowedOrigins []string
	DefaultLimit   int
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Структура маршрутов:
//
// /api/v1/
//
//	└── /bots/
//	    ├── GET / - список ботов с фильтрацией
//	    ├── POST / - регистрация бота
//	    ├── GET /{bot_id} - получение бота
//	    ├── PATCH|PUT /{bot_id} - частичное обновление
//	    ├── DELETE /{bot_id} - удаление с листенерами
//	    └── /listeners/
//	        ├── GET / - список листенеров с фильтрацией
//	        ├── POST / - добавление листенера
//	        ├── DELETE / - пакетное удаление по фильтру
//	        ├── GET /{listener_id} - получение листенера
//	        ├── PATCH|PUT /{listener_id} - частичное обновление
//	        └── DELETE /{listener_id} - удаление листенера
//
// /webhook/{bot_id}/{listener_id} - прием алертов внешних сервисов
// /ws/stream - WebSocket поток событий реестра
// /health - проверка живости
// /metrics - Prometheus метрики
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
// 3. CORS (для всех маршрутов)
func SetupRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()

	// Глобальные middleware (применяются ко всем маршрутам)
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS(deps.AllowedOrigins))

	// Создание handlers с внедрением зависимостей
	botHandler := handlers.NewBotHandler(deps.Registry, deps.DefaultLimit)
	listenerHandler := handlers.NewListenerHandler(deps.Registry, deps.DefaultLimit)
	webhookHandler := handlers.NewWebhookHandler(alert.NewProcessor(deps.Registry))

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Bot routes
	api.HandleFunc("/bots", botHandler.GetBots).Methods("GET")
	api.HandleFunc("/bots", botHandler.CreateBot).Methods("POST")
	api.HandleFunc("/bots/{bot_id}", botHandler.GetBot).Methods("GET")
	api.HandleFunc("/bots/{bot_id}", botHandler.UpdateBot).Methods("PATCH", "PUT")
	api.HandleFunc("/bots/{bot_id}", botHandler.DeleteBot).Methods("DELETE")

	// Listener routes
	api.HandleFunc("/bots/{bot_id}/listeners", listenerHandler.GetListeners).Methods("GET")
	api.HandleFunc("/bots/{bot_id}/listeners", listenerHandler.CreateListener).Methods("POST")
	api.HandleFunc("/bots/{bot_id}/listeners", listenerHandler.DeleteListeners).Methods("DELETE")
	api.HandleFunc("/bots/{bot_id}/listeners/{listener_id}", listenerHandler.GetListener).Methods("GET")
	api.HandleFunc("/bots/{bot_id}/listeners/{listener_id}", listenerHandler.UpdateListener).Methods("PATCH", "PUT")
	api.HandleFunc("/bots/{bot_id}/listeners/{listener_id}", listenerHandler.DeleteListener).Methods("DELETE")

	// Webhook route (вне /api/v1, URL фиксируется в настройках TradingView)
	router.HandleFunc("/webhook/{bot_id}/{listener_id}", webhookHandler.ReceiveAlert).Methods("POST")

	// WebSocket route
	if deps.Hub != nil {
		router.HandleFunc("/ws/stream", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(deps.Hub, w, r)
		})
	}

	// Prometheus метрики
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return router
}
