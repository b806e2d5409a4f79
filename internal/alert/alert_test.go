package alert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"botregistry/internal/models"
	"botregistry/internal/registry"
	"botregistry/internal/storage"
	"botregistry/pkg/utils"
)

func TestMain(m *testing.M) {
	utils.SetGlobalLogger(utils.InitLogger(utils.LogConfig{Level: "fatal"}))
	os.Exit(m.Run())
}

func strPtr(s string) *string { return &s }

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()

	store := storage.NewStore(filepath.Join(t.TempDir(), "state.json"))
	reg, err := registry.New(store)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := reg.AddBot(ctx, models.BotInsertArgs{
		BotID: strPtr("bot-1"), Name: "DCA", Exchange: "binance",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.AddListener(ctx, models.ListenerInsertArgs{
		BotID: "bot-1", ListenerID: strPtr("l-1"), Service: "TradingView", Secret: strPtr("s3cret"),
	}); err != nil {
		t.Fatal(err)
	}

	return NewProcessor(reg)
}

func TestProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts valid alert and places order", func(t *testing.T) {
		p := newTestProcessor(t)

		result, err := p.Process(ctx, "bot-1", "l-1",
			[]byte(`{"secret":"s3cret","ticker":"BTCUSDT","action":"buy","size":"100%"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Service != "TradingView" {
			t.Errorf("expected TradingView service, got %q", result.Service)
		}
		if result.Order == nil || result.Order.OrderID == "" {
			t.Error("expected order confirmation")
		}
		if result.Order.Exchange != "binance" {
			t.Errorf("order must go to the bot's venue, got %q", result.Order.Exchange)
		}
	})

	t.Run("action is case-insensitive", func(t *testing.T) {
		p := newTestProcessor(t)

		result, err := p.Process(ctx, "bot-1", "l-1",
			[]byte(`{"secret":"s3cret","ticker":"BTCUSDT","action":"SELL"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Order == nil {
			t.Error("expected order confirmation")
		}
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		p := newTestProcessor(t)

		_, err := p.Process(ctx, "bot-1", "l-1",
			[]byte(`{"secret":"wrong","ticker":"BTCUSDT","action":"buy"}`))
		if !errors.Is(err, registry.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		p := newTestProcessor(t)

		_, err := p.Process(ctx, "bot-1", "l-1", []byte("{broken"))
		if !errors.Is(err, registry.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("rejects missing ticker and bad action", func(t *testing.T) {
		p := newTestProcessor(t)

		_, err := p.Process(ctx, "bot-1", "l-1", []byte(`{"secret":"s3cret","action":"buy"}`))
		if !errors.Is(err, registry.ErrValidation) {
			t.Errorf("expected ErrValidation for missing ticker, got %v", err)
		}

		_, err = p.Process(ctx, "bot-1", "l-1",
			[]byte(`{"secret":"s3cret","ticker":"BTCUSDT","action":"hold"}`))
		if !errors.Is(err, registry.ErrValidation) {
			t.Errorf("expected ErrValidation for unknown action, got %v", err)
		}
	})

	t.Run("unknown listener is NotFound", func(t *testing.T) {
		p := newTestProcessor(t)

		_, err := p.Process(ctx, "bot-1", "ghost",
			[]byte(`{"secret":"s3cret","ticker":"BTCUSDT","action":"buy"}`))
		if !errors.Is(err, registry.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
