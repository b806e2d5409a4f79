package registry

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"
	"time"

	"botregistry/internal/message"
	"botregistry/internal/models"
	"botregistry/pkg/utils"

	"github.com/google/uuid"
)

// Registry - direct-фасад реестра: in-memory состояние под одним
// эксклюзивным блоком плюс файловая персистенция.
//
// Каждая операция - одна критическая секция:
// validate -> mutate in-memory -> persist -> return.
// Если персистенция падает после мутации, мутация откатывается и операция
// возвращает ErrPersistence: память и диск никогда не расходятся.
type Registry struct {
	mu    sync.Mutex
	state *models.State
	store Store
	hub   Broadcaster
	log   *utils.Logger
}

// New загружает состояние из хранилища и создает реестр.
func New(store Store) (*Registry, error) {
	state, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	r := &Registry{
		state: state,
		store: store,
		log:   utils.L().WithComponent("registry"),
	}
	r.updateGauges()
	return r, nil
}

// SetBroadcaster устанавливает hub для рассылки событий реестра.
// Вызывается после инициализации hub в main.go.
func (r *Registry) SetBroadcaster(hub Broadcaster) {
	r.hub = hub
}

var _ Service = (*Registry)(nil)

// ============ Операции над ботами ============

// AddBot валидирует и вставляет нового бота.
// Коллизия bot_id отклоняется с ErrAlreadyExists, не перезаписывается.
func (r *Registry) AddBot(ctx context.Context, args models.BotInsertArgs) (view *models.BotView, err error) {
	defer func() { recordOp("add_bot", err) }()

	if strings.TrimSpace(args.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(args.Exchange) == "" {
		return nil, fmt.Errorf("%w: exchange cannot be empty", ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bot := models.NewBot(args)
	if _, exists := r.state.Bots[bot.BotID]; exists {
		return nil, fmt.Errorf("%w: a bot with ID '%s' already exists", ErrAlreadyExists, bot.BotID)
	}

	r.state.Bots[bot.BotID] = bot
	if err = r.persist(); err != nil {
		delete(r.state.Bots, bot.BotID) // откат вставки
		return nil, err
	}

	r.log.Info("bot created", utils.BotID(bot.BotID), utils.Exchange(bot.Exchange))
	r.broadcast("bot_created", bot.BotID, "")
	return models.NewBotView(bot), nil
}

// ListBots возвращает всех ботов, удовлетворяющих фильтру.
// Пустой результат - успех с пустым списком; NotFound зарезервирован
// за отсутствующим родительским ресурсом.
func (r *Registry) ListBots(ctx context.Context, filter *models.BotListArgs) (views []models.BotView, err error) {
	defer func() { recordOp("list_bots", err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	views = make([]models.BotView, 0, len(r.state.Bots))
	for _, bot := range r.state.Bots {
		if filter.Matches(bot) {
			views = append(views, *models.NewBotView(bot))
		}
	}
	return views, nil
}

// GetBot возвращает бота по точному ID.
func (r *Registry) GetBot(ctx context.Context, botID string) (view *models.BotView, err error) {
	defer func() { recordOp("get_bot", err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	bot, err := r.getBot(botID)
	if err != nil {
		return nil, err
	}
	return models.NewBotView(bot), nil
}

// UpdateBot выполняет частичное обновление: nil-поля не трогаются.
func (r *Registry) UpdateBot(ctx context.Context, args models.BotUpdateArgs) (view *models.BotView, err error) {
	defer func() { recordOp("update_bot", err) }()

	if args.Name != nil && strings.TrimSpace(*args.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if args.Exchange != nil && strings.TrimSpace(*args.Exchange) == "" {
		return nil, fmt.Errorf("%w: exchange cannot be empty", ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bot, err := r.getBot(args.BotID)
	if err != nil {
		return nil, err
	}

	prev := bot.Clone()
	args.Apply(bot)
	if err = r.persist(); err != nil {
		r.state.Bots[args.BotID] = prev // откат merge
		return nil, err
	}

	r.log.Info("bot updated", utils.BotID(bot.BotID))
	r.broadcast("bot_updated", bot.BotID, "")
	return models.NewBotView(bot), nil
}

// DeleteBot удаляет бота вместе со всеми его листенерами.
func (r *Registry) DeleteBot(ctx context.Context, botID string) (view *models.BotView, err error) {
	defer func() { recordOp("delete_bot", err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	bot, err := r.getBot(botID)
	if err != nil {
		return nil, err
	}

	delete(r.state.Bots, botID)
	if err = r.persist(); err != nil {
		r.state.Bots[botID] = bot // откат удаления
		return nil, err
	}

	r.log.Info("bot deleted", utils.BotID(botID), utils.Int("listeners", len(bot.Listeners)))
	r.broadcast("bot_deleted", botID, "")
	return models.NewBotView(bot), nil
}

// ============ Операции над листенерами ============

// AddListener добавляет листенер к существующему боту.
// Если msg не задан, подставляется детерминированный шаблон по service.
func (r *Registry) AddListener(ctx context.Context, args models.ListenerInsertArgs) (view *models.ListenerView, err error) {
	defer func() { recordOp("add_listener", err) }()

	if strings.TrimSpace(args.Service) == "" {
		return nil, fmt.Errorf("%w: service cannot be empty", ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bot, err := r.getBot(args.BotID)
	if err != nil {
		return nil, err
	}

	listenerID := uuid.NewString()
	if args.ListenerID != nil && *args.ListenerID != "" {
		listenerID = *args.ListenerID
	}
	if _, exists := bot.Listeners[listenerID]; exists {
		return nil, fmt.Errorf("%w: a listener with ID '%s' already exists in bot '%s'",
			ErrAlreadyExists, listenerID, args.BotID)
	}

	listener := models.Listener{Service: args.Service}
	if args.Secret != nil {
		listener.Secret = *args.Secret
	}
	if args.Msg != nil {
		listener.Msg = *args.Msg
	} else {
		// {{target}} в шаблоне по умолчанию указывает на webhook самого листенера
		listener.Msg = message.RenderTarget(
			message.DefaultFor(args.Service),
			"/webhook/"+args.BotID+"/"+listenerID,
		)
	}

	bot.Listeners[listenerID] = listener
	if err = r.persist(); err != nil {
		delete(bot.Listeners, listenerID) // откат вставки
		return nil, err
	}

	r.log.Info("listener created",
		utils.BotID(args.BotID), utils.ListenerID(listenerID), utils.Service(args.Service))
	r.broadcast("listener_created", args.BotID, listenerID)
	v := models.NewListenerView(args.BotID, listenerID, listener)
	return &v, nil
}

// ListListeners возвращает листенеры бота, удовлетворяющие фильтру.
func (r *Registry) ListListeners(ctx context.Context, botID string, filter *models.ListenerListArgs) (views []models.ListenerView, err error) {
	defer func() { recordOp("list_listeners", err) }()

	if strings.TrimSpace(botID) == "" {
		return nil, fmt.Errorf("%w: bot ID cannot be empty", ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bot, err := r.getBot(botID)
	if err != nil {
		return nil, err
	}

	views = make([]models.ListenerView, 0, len(bot.Listeners))
	for id, l := range bot.Listeners {
		if filter.Matches(id, l) {
			views = append(views, models.NewListenerView(botID, id, l))
		}
	}
	return views, nil
}

// GetListener возвращает листенер по точной паре (bot_id, listener_id).
func (r *Registry) GetListener(ctx context.Context, botID, listenerID string) (view *models.ListenerView, err error) {
	defer func() { recordOp("get_listener", err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	_, listener, err := r.getListener(botID, listenerID)
	if err != nil {
		return nil, err
	}
	v := models.NewListenerView(botID, listenerID, listener)
	return &v, nil
}

// UpdateListener выполняет частичное обновление листенера.
func (r *Registry) UpdateListener(ctx context.Context, args models.ListenerUpdateArgs) (view *models.ListenerView, err error) {
	defer func() { recordOp("update_listener", err) }()

	if args.Service != nil && strings.TrimSpace(*args.Service) == "" {
		return nil, fmt.Errorf("%w: service cannot be empty", ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bot, listener, err := r.getListener(args.BotID, args.ListenerID)
	if err != nil {
		return nil, err
	}

	prev := listener
	args.Apply(&listener)
	bot.Listeners[args.ListenerID] = listener
	if err = r.persist(); err != nil {
		bot.Listeners[args.ListenerID] = prev // откат merge
		return nil, err
	}

	r.log.Info("listener updated", utils.BotID(args.BotID), utils.ListenerID(args.ListenerID))
	r.broadcast("listener_updated", args.BotID, args.ListenerID)
	v := models.NewListenerView(args.BotID, args.ListenerID, listener)
	return &v, nil
}

// DeleteListener удаляет один листенер бота.
func (r *Registry) DeleteListener(ctx context.Context, botID, listenerID string) (view *models.ListenerView, err error) {
	defer func() { recordOp("delete_listener", err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	bot, listener, err := r.getListener(botID, listenerID)
	if err != nil {
		return nil, err
	}

	delete(bot.Listeners, listenerID)
	if err = r.persist(); err != nil {
		bot.Listeners[listenerID] = listener // откат удаления
		return nil, err
	}

	r.log.Info("listener deleted", utils.BotID(botID), utils.ListenerID(listenerID))
	r.broadcast("listener_deleted", botID, listenerID)
	v := models.NewListenerView(botID, listenerID, listener)
	return &v, nil
}

// DeleteListeners удаляет все листенеры бота, подходящие под фильтр,
// и персистит один раз. Пустой набор совпадений - успех с пустым списком.
func (r *Registry) DeleteListeners(ctx context.Context, botID string, filter *models.ListenerListArgs) (views []models.ListenerView, err error) {
	defer func() { recordOp("delete_listeners", err) }()

	if strings.TrimSpace(botID) == "" {
		return nil, fmt.Errorf("%w: bot ID cannot be empty", ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bot, err := r.getBot(botID)
	if err != nil {
		return nil, err
	}

	deleted := make(map[string]models.Listener)
	views = make([]models.ListenerView, 0)
	for id, l := range bot.Listeners {
		if filter.Matches(id, l) {
			deleted[id] = l
			views = append(views, models.NewListenerView(botID, id, l))
		}
	}
	if len(deleted) == 0 {
		return views, nil
	}

	for id := range deleted {
		delete(bot.Listeners, id)
	}
	if err = r.persist(); err != nil {
		for id, l := range deleted { // откат пакетного удаления
			bot.Listeners[id] = l
		}
		return nil, err
	}

	r.log.Info("listeners deleted", utils.BotID(botID), utils.Int("count", len(deleted)))
	r.broadcast("listeners_deleted", botID, "")
	return views, nil
}

// ============ Административные операции (только direct-фасад) ============

// ClearBots удаляет всех ботов вместе с листенерами.
// Успешна и на пустом реестре.
func (r *Registry) ClearBots(ctx context.Context) (err error) {
	defer func() { recordOp("clear_bots", err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.state.Bots
	r.state.Bots = make(map[string]*models.Bot)
	if err = r.persist(); err != nil {
		r.state.Bots = prev // откат очистки
		return err
	}

	r.log.Info("all bots cleared", utils.Int("removed", len(prev)))
	r.broadcast("bots_cleared", "", "")
	return nil
}

// ClearListeners удаляет листенеры у всех ботов, самих ботов не трогает.
func (r *Registry) ClearListeners(ctx context.Context) (err error) {
	defer func() { recordOp("clear_listeners", err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	prev := make(map[string]map[string]models.Listener, len(r.state.Bots))
	for id, bot := range r.state.Bots {
		prev[id] = bot.Listeners
		bot.Listeners = make(map[string]models.Listener)
	}
	if err = r.persist(); err != nil {
		for id, listeners := range prev { // откат очистки
			r.state.Bots[id].Listeners = listeners
		}
		return err
	}

	r.log.Info("all listeners cleared")
	r.broadcast("listeners_cleared", "", "")
	return nil
}

// ============ Webhook-авторизация ============

// AuthorizeWebhook проверяет секрет листенера для входящего алерта и
// возвращает view листенера. Сравнение секретов - за постоянное время.
// Используется webhook-обработчиком; в Service не входит.
func (r *Registry) AuthorizeWebhook(botID, listenerID, secret string) (*models.ListenerView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, listener, err := r.getListener(botID, listenerID)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(listener.Secret), []byte(secret)) != 1 {
		return nil, fmt.Errorf("%w: listener secret mismatch", ErrValidation)
	}
	v := models.NewListenerView(botID, listenerID, listener)
	return &v, nil
}

// ============ Внутренние помощники (вызывать под r.mu) ============

func (r *Registry) getBot(botID string) (*models.Bot, error) {
	bot, ok := r.state.Bots[botID]
	if !ok {
		return nil, fmt.Errorf("%w: bot with ID '%s' not found", ErrNotFound, botID)
	}
	return bot, nil
}

func (r *Registry) getListener(botID, listenerID string) (*models.Bot, models.Listener, error) {
	bot, err := r.getBot(botID)
	if err != nil {
		return nil, models.Listener{}, err
	}
	listener, ok := bot.Listeners[listenerID]
	if !ok {
		return nil, models.Listener{}, fmt.Errorf(
			"%w: listener with ID '%s' not found in bot '%s'", ErrNotFound, listenerID, botID)
	}
	return bot, listener, nil
}

// persist записывает полное состояние на диск.
// Вызывается до возврата успеха из каждой мутирующей операции.
func (r *Registry) persist() error {
	start := time.Now()
	if err := r.store.Save(r.state); err != nil {
		r.log.Error("failed to persist state", utils.Err(err))
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	PersistLatency.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	r.updateGauges()
	return nil
}

func (r *Registry) updateGauges() {
	listeners := 0
	for _, bot := range r.state.Bots {
		listeners += len(bot.Listeners)
	}
	BotsTotal.Set(float64(len(r.state.Bots)))
	ListenersTotal.Set(float64(listeners))
}

func (r *Registry) broadcast(event, botID, listenerID string) {
	if r.hub != nil {
		r.hub.BroadcastRegistryEvent(event, botID, listenerID)
	}
}
