package window

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("window not found")

type Manager struct {
	mu      sync.RWMutex
	windows map[string]*Window
}

func NewManager() *Manager {
	return &Manager{windows: make(map[string]*Window)}
}

func (m *Manager) Create() *Window {
	now := time.Now()
	w := &Window{
		ID:         uuid.New().String(),
		CreatedAt:  now,
		lastActive: now,
		done:       make(chan struct{}),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows[w.ID] = w
	return w
}

func (m *Manager) List() []*Window {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*Window, 0, len(m.windows))
	for _, w := range m.windows {
		list = append(list, w)
	}
	return list
}

func (m *Manager) Get(id string) (*Window, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.windows[id]
	return w, ok
}

func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[id]
	if !ok {
		return ErrNotFound
	}
	close(w.done)
	delete(m.windows, id)
	return nil
}

// Reap closes every window that has had no client for longer than maxIdle,
// such as one whose frontend exited without calling Close. It returns the
// IDs of the closed windows.
func (m *Manager) Reap(maxIdle time.Duration) []string {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	var reaped []string
	for id, w := range m.windows {
		if w.idleBefore(cutoff) {
			close(w.done)
			delete(m.windows, id)
			reaped = append(reaped, id)
		}
	}
	return reaped
}

// Broadcast sends ev to every window with a connected client.
func (m *Manager) Broadcast(ev Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.windows {
		w.notify(ev)
	}
}
