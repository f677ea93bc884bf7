package identity

import (
	"context"
	"fmt"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	clients map[string]*Client
	order   []*Client
}

// NewMemoryRepository builds an in-memory client store.
func NewMemoryRepository() Repository {
	return &memoryRepository{clients: make(map[string]*Client)}
}

func (r *memoryRepository) Create(_ context.Context, client *Client) error {
	taxID := client.OwnerID()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.clients[taxID]; exists {
		return fmt.Errorf("%w: tax id %s", ErrDuplicateClient, taxID)
	}
	r.clients[taxID] = client
	r.order = append(r.order, client)
	return nil
}

func (r *memoryRepository) FindByTaxID(_ context.Context, taxID string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[taxID]
	if !ok {
		return nil, ErrClientNotFound
	}
	return client, nil
}

func (r *memoryRepository) List(_ context.Context) ([]*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, len(r.order))
	copy(out, r.order)
	return out, nil
}
