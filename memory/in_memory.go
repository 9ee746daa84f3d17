package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/agentrun/core"
)

// Compile time check to ensure InMemoryStore satisfies the MemoryStore interface.
var _ core.MemoryStore = (*InMemoryStore)(nil)

// InMemoryStore is a process-local MemoryStore backed by a plain map.
//
// Concurrency: protected by RWMutex.
// Search: linear scan matching the query as a substring of either the key
// or the value's JSON rendering, results ordered by key. Suitable for tests
// and demos; swap for the redis store or a semantic index for production
// retrieval.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]any)}
}

// Put stores a copy of value under key, replacing any previous value.
func (m *InMemoryStore) Put(_ context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = core.CloneValue(value)
	return nil
}

// Get returns a copy of the value stored under key. Absence is reported
// through the boolean, not an error.
func (m *InMemoryStore) Get(_ context.Context, key string) (any, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return core.CloneValue(value), true, nil
}

// Search returns copies of every value whose key or JSON rendering contains
// the query substring, ordered by key. An empty query matches everything.
func (m *InMemoryStore) Search(_ context.Context, query string) ([]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.entries))
	for key, value := range m.entries {
		if strings.Contains(key, query) || strings.Contains(renderValue(value), query) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	results := make([]any, 0, len(keys))
	for _, key := range keys {
		results = append(results, core.CloneValue(m.entries[key]))
	}
	return results, nil
}

// renderValue produces the JSON text used for value matching in Search.
func renderValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
