package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"botregistry/internal/models"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "state.json"))
}

func TestStoreLoad(t *testing.T) {
	t.Run("missing file initializes empty registry", func(t *testing.T) {
		store := tempStore(t)

		state, err := store.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(state.Bots) != 0 {
			t.Errorf("expected empty registry, got %d bots", len(state.Bots))
		}

		// Первый запуск сразу создает файл
		if _, err := os.Stat(store.Path()); err != nil {
			t.Errorf("expected state file created on first run: %v", err)
		}
	})

	t.Run("round-trips saved state", func(t *testing.T) {
		store := tempStore(t)

		state := models.NewState()
		state.Bots["bot-1"] = &models.Bot{
			BotID:    "bot-1",
			Name:     "DCA",
			Exchange: "binance",
			Listeners: map[string]models.Listener{
				"l-1": {Service: "TradingView", Secret: "s", Msg: "{}"},
			},
		}
		if err := store.Save(state); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		loaded, err := store.Load()
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}

		bot, ok := loaded.Bots["bot-1"]
		if !ok {
			t.Fatal("expected bot-1 in loaded state")
		}
		if bot.Name != "DCA" || bot.Exchange != "binance" {
			t.Errorf("bot fields lost in round-trip: %+v", bot)
		}
		if l, ok := bot.Listeners["l-1"]; !ok || l.Secret != "s" {
			t.Error("listener (including secret) must survive persistence")
		}
	})

	t.Run("corrupt file is an error, not an empty registry", func(t *testing.T) {
		store := tempStore(t)
		if err := os.WriteFile(store.Path(), []byte("{not json"), 0o600); err != nil {
			t.Fatal(err)
		}

		_, err := store.Load()
		if !errors.Is(err, ErrParse) {
			t.Errorf("expected ErrParse, got %v", err)
		}
	})

	t.Run("fixes up missing bots map", func(t *testing.T) {
		store := tempStore(t)
		if err := os.WriteFile(store.Path(), []byte(`{}`), 0o600); err != nil {
			t.Fatal(err)
		}

		state, err := store.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if state.Bots == nil {
			t.Error("expected initialized bots map")
		}
	})

	t.Run("fixes up missing listeners maps", func(t *testing.T) {
		store := tempStore(t)
		// Файл, записанный сторонним инструментом: у bot-1 ключа listeners
		// нет вовсе, у bot-2 он явный null
		doc := `{"bots": {
			"bot-1": {"bot_id": "bot-1", "name": "DCA", "exchange": "binance"},
			"bot-2": {"bot_id": "bot-2", "name": "Grid", "exchange": "bybit", "listeners": null}
		}}`
		if err := os.WriteFile(store.Path(), []byte(doc), 0o600); err != nil {
			t.Fatal(err)
		}

		state, err := store.Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, id := range []string{"bot-1", "bot-2"} {
			bot, ok := state.Bots[id]
			if !ok {
				t.Fatalf("expected %s in loaded state", id)
			}
			if bot.Listeners == nil {
				t.Errorf("expected initialized listeners map for %s", id)
			}
		}
	})
}

func TestStoreSave(t *testing.T) {
	t.Run("write failure is reported", func(t *testing.T) {
		// Путь внутри несуществующего каталога
		store := NewStore(filepath.Join(t.TempDir(), "missing", "state.json"))

		err := store.Save(models.NewState())
		if !errors.Is(err, ErrFileWrite) {
			t.Errorf("expected ErrFileWrite, got %v", err)
		}
	})

	t.Run("state file is not world-readable", func(t *testing.T) {
		store := tempStore(t)
		if err := store.Save(models.NewState()); err != nil {
			t.Fatal(err)
		}

		info, err := os.Stat(store.Path())
		if err != nil {
			t.Fatal(err)
		}
		// Файл содержит секреты ботов
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("expected mode 0600, got %o", perm)
		}
	})
}
