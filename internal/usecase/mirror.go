package usecase

import "sync"

// ActivationMirror is the in-memory set of activated group ids. It is
// advisory only: the gate and the activation flow always read the
// durable store first and refresh the mirror afterwards. Warmed from
// the store once at startup.
type ActivationMirror struct {
	mu     sync.RWMutex
	groups map[int64]struct{}
}

func NewActivationMirror() *ActivationMirror {
	return &ActivationMirror{groups: make(map[int64]struct{})}
}

// Warm replaces the mirror contents with the store's view.
func (m *ActivationMirror) Warm(ids []int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m.groups[id] = struct{}{}
	}
}

func (m *ActivationMirror) Add(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[chatID] = struct{}{}
}

func (m *ActivationMirror) Contains(chatID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.groups[chatID]
	return ok
}
