package tokenstore

import (
	"context"
	"sync"
)

// MemoryPersister keeps the refresh token for the lifetime of the process only.
type MemoryPersister struct {
	mu    sync.Mutex
	token string
}

// NewMemoryPersister returns an empty MemoryPersister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (m *MemoryPersister) Load(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.token, nil
}

func (m *MemoryPersister) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token

	return nil
}

func (m *MemoryPersister) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""

	return nil
}
