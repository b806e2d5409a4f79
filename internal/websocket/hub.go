package websocket

import (
	"context"
	"sync"
	"time"

	"botregistry/pkg/utils"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RegistryEventMessage - уведомление подписчикам об изменении реестра.
// listener_id пуст для событий уровня бота, bot_id пуст для clear-событий.
type RegistryEventMessage struct {
	Type       string    `json:"type"` // всегда "registryEvent"
	Event      string    `json:"event"`
	BotID      string    `json:"bot_id,omitempty"`
	ListenerID string    `json:"listener_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Hub управляет всеми активными WebSocket соединениями.
//
// Центральный менеджер broadcast сообщений: подписчики /ws/stream получают
// событие после каждой успешной мутации реестра, без polling.
//
// Использование:
// 1. Создать hub: hub := NewHub()
// 2. Запустить в горутине: go hub.Run(ctx)
// 3. Подключить к реестру: reg.SetBroadcaster(hub)
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu  sync.RWMutex
	log *utils.Logger
}

// NewHub создает новый Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        utils.L().WithComponent("websocket"),
	}
}

// Run запускает главный цикл Hub.
//
// Должен запускаться в отдельной горутине: go hub.Run(ctx)
// Клиенты, не успевающие читать, отключаются, чтобы не блокировать рассылку.
// Отмена контекста останавливает цикл и закрывает всех оставшихся клиентов.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.log.Debug("hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client connected", utils.Int("total", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client disconnected", utils.Int("total", total))

		case message := <-h.broadcast:
			// Копируем список под коротким RLock, отправляем без блокировки
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			var toRemove []*Client
			for _, client := range clients {
				select {
				case client.send <- message:
				default:
					toRemove = append(toRemove, client)
				}
			}

			if len(toRemove) > 0 {
				h.mu.Lock()
				for _, client := range toRemove {
					if _, ok := h.clients[client]; ok {
						delete(h.clients, client)
						close(client.send)
					}
				}
				h.mu.Unlock()
				h.log.Warn("removed slow clients", utils.Int("count", len(toRemove)))
			}
		}
	}
}

// BroadcastRegistryEvent отправляет событие реестра всем подписчикам.
// Реализует registry.Broadcaster.
func (h *Hub) BroadcastRegistryEvent(event, botID, listenerID string) {
	h.Broadcast(&RegistryEventMessage{
		Type:       "registryEvent",
		Event:      event,
		BotID:      botID,
		ListenerID: listenerID,
		Timestamp:  time.Now().UTC(),
	})
}

// Broadcast сериализует сообщение и рассылает его всем клиентам.
func (h *Hub) Broadcast(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error("failed to marshal broadcast message", utils.Err(err))
		return
	}

	select {
	case h.broadcast <- data:
	default:
		// Очередь рассылки переполнена, событие теряется
		h.log.Warn("broadcast queue full, dropping event")
	}
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
