package registry

import (
	"context"

	"botregistry/internal/models"
)

// Service - единый набор операций реестра, который обязаны реализовать
// оба фасада: direct (in-process, Registry) и remote (REST, client.Client).
//
// Контракт: при одинаковых аргументах поверх одинакового состояния оба
// фасада возвращают одинаковые view и одинаковые категории ошибок.
// Remote-фасад дополнительно может вернуть ErrTransport.
type Service interface {
	AddBot(ctx context.Context, args models.BotInsertArgs) (*models.BotView, error)
	ListBots(ctx context.Context, filter *models.BotListArgs) ([]models.BotView, error)
	GetBot(ctx context.Context, botID string) (*models.BotView, error)
	UpdateBot(ctx context.Context, args models.BotUpdateArgs) (*models.BotView, error)
	DeleteBot(ctx context.Context, botID string) (*models.BotView, error)

	AddListener(ctx context.Context, args models.ListenerInsertArgs) (*models.ListenerView, error)
	ListListeners(ctx context.Context, botID string, filter *models.ListenerListArgs) ([]models.ListenerView, error)
	GetListener(ctx context.Context, botID, listenerID string) (*models.ListenerView, error)
	UpdateListener(ctx context.Context, args models.ListenerUpdateArgs) (*models.ListenerView, error)
	DeleteListener(ctx context.Context, botID, listenerID string) (*models.ListenerView, error)
	DeleteListeners(ctx context.Context, botID string, filter *models.ListenerListArgs) ([]models.ListenerView, error)
}

// Store - интерфейс адаптера персистенции с точки зрения реестра.
// Реализуется storage.Store; в тестах подменяется мок-хранилищем.
type Store interface {
	Load() (*models.State, error)
	Save(state *models.State) error
}

// Broadcaster - интерфейс для рассылки событий реестра через WebSocket.
// Устанавливается после инициализации hub в main.go.
type Broadcaster interface {
	BroadcastRegistryEvent(event, botID, listenerID string)
}
