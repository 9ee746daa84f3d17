// Package memory contains concrete MemoryStore implementations. The store
// interface resides in the core package. Import
// github.com/hupe1980/agentrun/core and depend on core.MemoryStore in your
// code; select an implementation (the in-memory store below, the null
// store, or the redis subpackage) at wiring time.
//
// Rationale: keeps domain contracts centralized while allowing pluggable
// backends (vector databases, embeddings indexes, etc.) to be added without
// introducing dependency cycles.
package memory
