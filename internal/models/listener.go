package models

// Listener - правило приема webhook-алертов, принадлежащее ровно одному боту.
// Идентифицируется listener_id, уникальным в пределах бота.
type Listener struct {
	Service string `json:"service"` // потребитель алертов (например, TradingView)
	Secret  string `json:"secret"`  // write-only секрет, не попадает во view
	Msg     string `json:"msg"`     // шаблон payload, подставляется при алерте
}

// ListenerInsertArgs - входные аргументы добавления листенера к боту.
// listener_id опционален: если не задан, генерируется UUID v4.
// msg опционален: если не задан, реестр подставляет шаблон по service.
type ListenerInsertArgs struct {
	BotID      string  `json:"bot_id"`
	ListenerID *string `json:"listener_id,omitempty"`
	Service    string  `json:"service"`
	Secret     *string `json:"secret,omitempty"`
	Msg        *string `json:"msg,omitempty"`
}

// ListenerListArgs - фильтр листенеров одного бота.
// nil-поле означает wildcard; заданные поля объединяются по AND.
type ListenerListArgs struct {
	ListenerID *string `json:"listener_id,omitempty"`
	Service    *string `json:"service,omitempty"`
}

// Matches проверяет листенер против заданных предикатов фильтра.
func (a *ListenerListArgs) Matches(listenerID string, l Listener) bool {
	if a == nil {
		return true
	}
	return matchString(a.ListenerID, listenerID) &&
		matchString(a.Service, l.Service)
}

// ListenerUpdateArgs - частичное обновление листенера.
// nil-поле означает "оставить без изменений".
type ListenerUpdateArgs struct {
	BotID      string  `json:"bot_id"`
	ListenerID string  `json:"listener_id"`
	Service    *string `json:"service,omitempty"`
	Secret     *string `json:"secret,omitempty"`
	Msg        *string `json:"msg,omitempty"`
}

// Apply накладывает заданные поля на существующий листенер.
func (a *ListenerUpdateArgs) Apply(l *Listener) {
	if a.Service != nil {
		l.Service = *a.Service
	}
	if a.Secret != nil {
		l.Secret = *a.Secret
	}
	if a.Msg != nil {
		l.Msg = *a.Msg
	}
}
