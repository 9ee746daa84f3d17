package core

import "context"

// MemoryStore is the key/value + search capability agents use to persist
// and recall information across steps and runs. Get reports absence through
// the boolean rather than an error so "no value yet" stays an ordinary
// outcome. Implementations carry their own synchronization: one handle may
// be shared by several concurrently running agents.
type MemoryStore interface {
	Put(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string) (any, bool, error)
	Search(ctx context.Context, query string) ([]any, error)
}
