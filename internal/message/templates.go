// Package message содержит шаблоны payload по умолчанию для листенеров.
// Шаблон подбирается по имени сервиса; для неизвестных сервисов
// используется универсальный alert-шаблон, так что msg детерминирован всегда.
package message

import "strings"

// tradingViewTemplate - шаблон алерта TradingView с плейсхолдерами стратегии.
const tradingViewTemplate = `{
  "target": "{{target}}",
  "ticker": "{{ticker}}",
  "action": "{{strategy.order.action}}",
  "order_size": "100%",
  "position_size": "{{strategy.position_size}}",
  "schema": "2",
  "timestamp": "{{time}}"
}`

// telegramTemplate - компактный шаблон для Telegram-уведомлений.
const telegramTemplate = `{
  "target": "{{target}}",
  "chat": "{{chat_id}}",
  "text": "{{ticker}}: {{action}}",
  "timestamp": "{{time}}"
}`

// genericTemplate - универсальный alert-шаблон, fallback для любых сервисов.
const genericTemplate = `{
  "target": "{{target}}",
  "ticker": "{{ticker}}",
  "action": "{{action}}",
  "timestamp": "{{time}}"
}`

var templates = map[string]string{
	"TradingView": tradingViewTemplate,
	"Telegram":    telegramTemplate,
}

// DefaultFor возвращает шаблон msg по умолчанию для сервиса.
// Поиск нечувствителен к регистру; неизвестный сервис получает generic-шаблон.
func DefaultFor(service string) string {
	for name, tpl := range templates {
		if strings.EqualFold(name, service) {
			return tpl
		}
	}
	return genericTemplate
}

// RenderTarget подставляет только плейсхолдер {{target}};
// остальные плейсхолдеры заполняет отправитель алерта.
func RenderTarget(template, target string) string {
	return strings.ReplaceAll(template, "{{target}}", target)
}
