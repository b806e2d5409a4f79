package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

// ============ NewBot ============

func TestNewBot(t *testing.T) {
	t.Run("generates bot ID when omitted", func(t *testing.T) {
		bot := NewBot(BotInsertArgs{Name: "test", Exchange: "binance"})

		if bot.BotID == "" {
			t.Error("expected generated bot ID, got empty string")
		}
		if bot.Listeners == nil {
			t.Error("expected initialized listeners map")
		}
	})

	t.Run("keeps explicit bot ID", func(t *testing.T) {
		bot := NewBot(BotInsertArgs{BotID: strPtr("my-bot"), Name: "test", Exchange: "binance"})

		if bot.BotID != "my-bot" {
			t.Errorf("expected bot ID 'my-bot', got %q", bot.BotID)
		}
	})

	t.Run("treats empty explicit ID as omitted", func(t *testing.T) {
		bot := NewBot(BotInsertArgs{BotID: strPtr(""), Name: "test", Exchange: "binance"})

		if bot.BotID == "" {
			t.Error("expected generated bot ID for empty explicit ID")
		}
	})

	t.Run("generated IDs are unique", func(t *testing.T) {
		a := NewBot(BotInsertArgs{Name: "a", Exchange: "binance"})
		b := NewBot(BotInsertArgs{Name: "b", Exchange: "binance"})

		if a.BotID == b.BotID {
			t.Errorf("expected distinct IDs, both are %q", a.BotID)
		}
	})
}

// ============ BotListArgs.Matches ============

func TestBotListArgsMatches(t *testing.T) {
	bot := &Bot{
		BotID:      "bot-1",
		Name:       "DCA",
		Exchange:   "binance",
		APIKey:     strPtr("key"),
		TradingFee: floatPtr(0.1),
	}

	t.Run("nil filter matches everything", func(t *testing.T) {
		var filter *BotListArgs
		if !filter.Matches(bot) {
			t.Error("nil filter must match any bot")
		}
	})

	t.Run("empty filter matches everything", func(t *testing.T) {
		if !(&BotListArgs{}).Matches(bot) {
			t.Error("empty filter must match any bot")
		}
	})

	t.Run("single field match", func(t *testing.T) {
		if !(&BotListArgs{Exchange: strPtr("binance")}).Matches(bot) {
			t.Error("expected match on exchange")
		}
		if (&BotListArgs{Exchange: strPtr("bybit")}).Matches(bot) {
			t.Error("expected no match on wrong exchange")
		}
	})

	t.Run("AND semantics across fields", func(t *testing.T) {
		// Оба предиката верны
		filter := &BotListArgs{Name: strPtr("DCA"), Exchange: strPtr("binance")}
		if !filter.Matches(bot) {
			t.Error("expected match when all predicates hold")
		}

		// Один предикат неверен
		filter = &BotListArgs{Name: strPtr("DCA"), Exchange: strPtr("bybit")}
		if filter.Matches(bot) {
			t.Error("expected no match when one predicate fails")
		}
	})

	t.Run("optional field filter requires value present", func(t *testing.T) {
		noKey := &Bot{BotID: "bot-2", Name: "x", Exchange: "binance"}
		filter := &BotListArgs{APIKey: strPtr("key")}

		if !filter.Matches(bot) {
			t.Error("expected match on set api key")
		}
		if filter.Matches(noKey) {
			t.Error("filter on optional field must not match bot without the field")
		}
	})

	t.Run("trading fee exact match", func(t *testing.T) {
		if !(&BotListArgs{TradingFee: floatPtr(0.1)}).Matches(bot) {
			t.Error("expected match on trading fee")
		}
		if (&BotListArgs{TradingFee: floatPtr(0.2)}).Matches(bot) {
			t.Error("expected no match on different trading fee")
		}
	})
}

// ============ BotUpdateArgs.Apply ============

func TestBotUpdateArgsApply(t *testing.T) {
	t.Run("applies only set fields", func(t *testing.T) {
		bot := &Bot{
			BotID:    "bot-1",
			Name:     "old",
			Exchange: "binance",
			APIKey:   strPtr("old-key"),
		}

		args := &BotUpdateArgs{BotID: "bot-1", Name: strPtr("new")}
		args.Apply(bot)

		if bot.Name != "new" {
			t.Errorf("expected updated name 'new', got %q", bot.Name)
		}
		// Незаданные поля не тронуты
		if bot.Exchange != "binance" {
			t.Errorf("exchange must stay unchanged, got %q", bot.Exchange)
		}
		if bot.APIKey == nil || *bot.APIKey != "old-key" {
			t.Error("api key must stay unchanged")
		}
	})

	t.Run("empty update changes nothing", func(t *testing.T) {
		bot := &Bot{BotID: "bot-1", Name: "old", Exchange: "binance"}
		(&BotUpdateArgs{BotID: "bot-1"}).Apply(bot)

		if bot.Name != "old" || bot.Exchange != "binance" {
			t.Error("empty update must be a no-op")
		}
	})

	t.Run("updates optional fields", func(t *testing.T) {
		bot := &Bot{BotID: "bot-1", Name: "x", Exchange: "binance"}
		args := &BotUpdateArgs{
			BotID:      "bot-1",
			TradingFee: floatPtr(0.25),
			APISecret:  strPtr("s3cret"),
		}
		args.Apply(bot)

		if bot.TradingFee == nil || *bot.TradingFee != 0.25 {
			t.Error("expected trading fee set to 0.25")
		}
		if bot.APISecret == nil || *bot.APISecret != "s3cret" {
			t.Error("expected api secret set")
		}
	})
}

// ============ ListenerListArgs / ListenerUpdateArgs ============

func TestListenerListArgsMatches(t *testing.T) {
	l := Listener{Service: "TradingView", Secret: "s", Msg: "{}"}

	t.Run("nil and empty filters match", func(t *testing.T) {
		var filter *ListenerListArgs
		if !filter.Matches("id-1", l) {
			t.Error("nil filter must match")
		}
		if !(&ListenerListArgs{}).Matches("id-1", l) {
			t.Error("empty filter must match")
		}
	})

	t.Run("filters by listener ID and service", func(t *testing.T) {
		if !(&ListenerListArgs{ListenerID: strPtr("id-1")}).Matches("id-1", l) {
			t.Error("expected match on listener ID")
		}
		if (&ListenerListArgs{ListenerID: strPtr("other")}).Matches("id-1", l) {
			t.Error("expected no match on different listener ID")
		}

		filter := &ListenerListArgs{ListenerID: strPtr("id-1"), Service: strPtr("Telegram")}
		if filter.Matches("id-1", l) {
			t.Error("AND semantics: one failed predicate must reject")
		}
	})
}

func TestListenerUpdateArgsApply(t *testing.T) {
	l := Listener{Service: "TradingView", Secret: "old", Msg: "old-msg"}

	(&ListenerUpdateArgs{Secret: strPtr("new")}).Apply(&l)

	if l.Secret != "new" {
		t.Errorf("expected updated secret, got %q", l.Secret)
	}
	if l.Service != "TradingView" || l.Msg != "old-msg" {
		t.Error("unset fields must stay unchanged")
	}
}

// ============ Views ============

func TestViewsHideSecrets(t *testing.T) {
	bot := &Bot{
		BotID:         "bot-1",
		Name:          "DCA",
		Exchange:      "binance",
		APIKey:        strPtr("api-key-value"),
		APISecret:     strPtr("api-secret-value"),
		WebhookSecret: strPtr("webhook-secret-value"),
		PrivateKey:    strPtr("private-key-value"),
		Listeners: map[string]Listener{
			"l-1": {Service: "TradingView", Secret: "listener-secret-value", Msg: "{}"},
		},
	}

	data, err := json.Marshal(NewBotView(bot))
	if err != nil {
		t.Fatalf("failed to marshal view: %v", err)
	}

	// Ни одно чувствительное значение не должно попасть в сериализацию view
	for _, secret := range []string{
		"api-key-value", "api-secret-value", "webhook-secret-value",
		"private-key-value", "listener-secret-value",
	} {
		if strings.Contains(string(data), secret) {
			t.Errorf("view serialization leaks secret %q: %s", secret, data)
		}
	}
}

func TestBotCloneIsIndependent(t *testing.T) {
	bot := &Bot{
		BotID:    "bot-1",
		Name:     "orig",
		Exchange: "binance",
		APIKey:   strPtr("key"),
		Listeners: map[string]Listener{
			"l-1": {Service: "TradingView"},
		},
	}

	clone := bot.Clone()
	clone.Name = "changed"
	*clone.APIKey = "changed"
	clone.Listeners["l-2"] = Listener{Service: "Telegram"}

	if bot.Name != "orig" {
		t.Error("mutating clone name must not affect original")
	}
	if *bot.APIKey != "key" {
		t.Error("mutating clone api key must not affect original")
	}
	if len(bot.Listeners) != 1 {
		t.Error("mutating clone listeners must not affect original")
	}
}

func TestViewString(t *testing.T) {
	view := &BotView{BotID: "bot-1", Name: "DCA", Exchange: "binance"}
	out := view.String()

	if !strings.Contains(out, "Bot ID: bot-1") {
		t.Errorf("expected 'Bot ID: bot-1' in output, got:\n%s", out)
	}
	// Отсутствующие опциональные поля печатаются как N/A
	if !strings.Contains(out, "REST Endpoint: N/A") {
		t.Errorf("expected 'REST Endpoint: N/A' in output, got:\n%s", out)
	}
}
