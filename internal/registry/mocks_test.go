package registry

import (
	"errors"
	"sync"

	"botregistry/internal/models"
)

// ============ Mock Store ============

var errMockDisk = errors.New("mock disk failure")

// mockStore - хранилище в памяти с инъекцией ошибок.
// Считает вызовы Save, чтобы проверять "одна мутация - одна персистенция".
type mockStore struct {
	mu      sync.Mutex
	state   *models.State
	loadErr error
	saveErr error
	saves   int
}

func newMockStore() *mockStore {
	return &mockStore{state: models.NewState()}
}

func (m *mockStore) Load() (*models.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.state, nil
}

func (m *mockStore) Save(state *models.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.state = state
	return nil
}

func (m *mockStore) failSaves()    { m.mu.Lock(); m.saveErr = errMockDisk; m.mu.Unlock() }
func (m *mockStore) restoreSaves() { m.mu.Lock(); m.saveErr = nil; m.mu.Unlock() }

func (m *mockStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// ============ Mock Broadcaster ============

type mockBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (m *mockBroadcaster) BroadcastRegistryEvent(event, botID, listenerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockBroadcaster) lastEvent() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == 0 {
		return ""
	}
	return m.events[len(m.events)-1]
}
