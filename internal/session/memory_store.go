package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the state in process memory.
type MemoryStore struct {
	mu sync.Mutex
	st State
}

// NewMemoryStore returns a MemoryStore seeded with st.
func NewMemoryStore(st State) *MemoryStore {
	return &MemoryStore{st: st}
}

func (m *MemoryStore) Load(context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.st
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st, nil
}

func (m *MemoryStore) Save(_ context.Context, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st = st
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st = State{}
	return nil
}
