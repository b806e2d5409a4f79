package websocket

import (
	"context"
	"os"
	"testing"
	"time"

	"botregistry/pkg/utils"
)

func TestMain(m *testing.M) {
	utils.SetGlobalLogger(utils.InitLogger(utils.LogConfig{Level: "fatal"}))
	os.Exit(m.Run())
}

// fakeClient регистрирует клиента без реального WebSocket соединения.
func fakeClient(hub *Hub) *Client {
	c := &Client{hub: hub, send: make(chan []byte, clientSendBufferSize)}
	hub.register <- c
	return c
}

func runHub(t *testing.T, hub *Hub) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.After(time.Second)
	for hub.ClientCount() != want {
		select {
		case <-deadline:
			t.Fatalf("expected %d clients, got %d", want, hub.ClientCount())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	runHub(t, hub)

	c := fakeClient(hub)
	waitForClients(t, hub, 1)

	hub.unregister <- c
	waitForClients(t, hub, 0)

	// Канал клиента закрывается при отмене регистрации
	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected closed send channel")
		}
	case <-time.After(time.Second):
		t.Error("send channel was not closed")
	}
}

func TestHubBroadcastRegistryEvent(t *testing.T) {
	hub := NewHub()
	runHub(t, hub)

	c := fakeClient(hub)
	waitForClients(t, hub, 1)

	hub.BroadcastRegistryEvent("bot_created", "bot-1", "")

	select {
	case raw := <-c.send:
		var msg RegistryEventMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("broadcast is not valid JSON: %v", err)
		}
		if msg.Type != "registryEvent" || msg.Event != "bot_created" || msg.BotID != "bot-1" {
			t.Errorf("unexpected message: %+v", msg)
		}
		if msg.Timestamp.IsZero() {
			t.Error("expected timestamp set")
		}
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestHubBroadcastToAllClients(t *testing.T) {
	hub := NewHub()
	runHub(t, hub)

	a := fakeClient(hub)
	b := fakeClient(hub)
	waitForClients(t, hub, 2)

	hub.BroadcastRegistryEvent("listener_created", "bot-1", "l-1")

	for _, c := range []*Client{a, b} {
		select {
		case <-c.send:
		case <-time.After(time.Second):
			t.Fatal("client did not receive the broadcast")
		}
	}
}

func TestHubStopsOnContextCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	c := fakeClient(hub)
	waitForClients(t, hub, 1)

	cancel()
	waitForClients(t, hub, 0)

	// Оставшиеся клиенты закрываются при остановке hub
	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected closed send channel")
		}
	case <-time.After(time.Second):
		t.Error("send channel was not closed on shutdown")
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub()
	runHub(t, hub)

	c := fakeClient(hub)
	waitForClients(t, hub, 1)

	// Заполняем буфер клиента, не читая из него
	for i := 0; i < clientSendBufferSize+5; i++ {
		hub.BroadcastRegistryEvent("bot_updated", "bot-1", "")
	}

	waitForClients(t, hub, 0)
	_ = c
}
