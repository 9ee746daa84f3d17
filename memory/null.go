package memory

import (
	"context"

	"github.com/hupe1980/agentrun/core"
)

// Compile time check to ensure NullStore satisfies the MemoryStore interface.
var _ core.MemoryStore = (*NullStore)(nil)

// NullStore discards writes and reports every key as absent. It backs
// agents that must run without persistence, keeping memory-dependent code
// paths exercisable without a real store.
type NullStore struct{}

// NewNullStore creates a store that remembers nothing.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// Put discards the value.
func (NullStore) Put(_ context.Context, _ string, _ any) error {
	return nil
}

// Get reports every key as absent.
func (NullStore) Get(_ context.Context, _ string) (any, bool, error) {
	return nil, false, nil
}

// Search matches nothing.
func (NullStore) Search(_ context.Context, _ string) ([]any, error) {
	return []any{}, nil
}
