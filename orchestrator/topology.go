package orchestrator

import "github.com/hupe1980/agentrun/core"

// MemoryTopology controls whether agents coordinated by one orchestrator
// run against a single shared memory handle or keep their own.
type MemoryTopology struct {
	shared core.MemoryStore
}

// SharedTopology gives every prepared agent context the same memory handle.
// The store must carry its own synchronization.
func SharedTopology(store core.MemoryStore) MemoryTopology {
	return MemoryTopology{shared: store}
}

// IsolatedTopology leaves each agent context's memory handle untouched.
func IsolatedTopology() MemoryTopology {
	return MemoryTopology{}
}

// Shared returns the shared handle and whether the topology is shared.
func (t MemoryTopology) Shared() (core.MemoryStore, bool) {
	return t.shared, t.shared != nil
}
