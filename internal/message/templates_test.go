package message

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDefaultFor(t *testing.T) {
	t.Run("known service returns its template", func(t *testing.T) {
		tpl := DefaultFor("TradingView")
		if !strings.Contains(tpl, "{{strategy.order.action}}") {
			t.Errorf("expected TradingView template, got:\n%s", tpl)
		}
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		if DefaultFor("tradingview") != DefaultFor("TradingView") {
			t.Error("expected case-insensitive service lookup")
		}
	})

	t.Run("unknown service falls back to generic template", func(t *testing.T) {
		tpl := DefaultFor("SomethingElse")
		if tpl != genericTemplate {
			t.Errorf("expected generic template, got:\n%s", tpl)
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		if DefaultFor("Telegram") != DefaultFor("Telegram") {
			t.Error("expected identical template on repeated calls")
		}
	})
}

func TestRenderTarget(t *testing.T) {
	rendered := RenderTarget(DefaultFor("TradingView"), "/webhook/b-1/l-1")

	if !strings.Contains(rendered, `"target": "/webhook/b-1/l-1"`) {
		t.Errorf("expected target substituted, got:\n%s", rendered)
	}
	// Остальные плейсхолдеры остаются для отправителя алерта
	if !strings.Contains(rendered, "{{ticker}}") {
		t.Error("non-target placeholders must stay intact")
	}
}

// Шаблоны вставляются в настройки внешних сервисов как есть,
// поэтому они обязаны быть синтаксически корректным JSON-ом
// после подстановки плейсхолдеров.
func TestTemplatesAreValidJSON(t *testing.T) {
	for _, service := range []string{"TradingView", "Telegram", "unknown"} {
		tpl := DefaultFor(service)
		filled := strings.NewReplacer(
			"{{target}}", "t",
			"{{ticker}}", "BTCUSDT",
			"{{strategy.order.action}}", "buy",
			"{{strategy.position_size}}", "1",
			"{{time}}", "now",
			"{{chat_id}}", "42",
			"{{action}}", "buy",
		).Replace(tpl)

		var out map[string]interface{}
		if err := json.Unmarshal([]byte(filled), &out); err != nil {
			t.Errorf("template for %s is not valid JSON: %v\n%s", service, err, filled)
		}
	}
}
