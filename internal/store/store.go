// Package store holds the client-side purchase-intent state: carts and
// wishlists, keyed by canonical product ID and scoped to one client. State
// survives restarts through an injected persistence port; the catalog layer
// never touches these stores, it only produces the Product values they index.
package store

import (
	"context"
	"sync"
)

// Persistence is the durable-state port behind the cart and wishlist stores:
// read on every access, written on every mutation. Implementations store
// opaque JSON blobs under namespaced keys such as "cart:<clientID>".
type Persistence interface {
	// Load returns the blob stored under key, or (nil, nil) when nothing
	// has been stored yet.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores data under key, replacing any previous value.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the value under key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error
}

// memoryPersistence is a process-local Persistence for tests and for running
// without any durable backend configured.
type memoryPersistence struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryPersistence creates an in-memory persistence backend. State does
// not survive a restart.
func NewMemoryPersistence() Persistence {
	return &memoryPersistence{blobs: make(map[string][]byte)}
}

func (m *memoryPersistence) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *memoryPersistence) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.blobs[key] = stored
	return nil
}

func (m *memoryPersistence) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, key)
	return nil
}
