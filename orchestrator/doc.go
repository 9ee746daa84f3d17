// Package orchestrator coordinates multiple named agents over a shared
// message bus and a memory topology.
//
// The orchestrator owns per-agent contexts (stored by name, persisting
// between calls for stateful multi-turn orchestration) and delegates each
// agent run to a control loop. Under a shared topology every prepared
// context receives the same memory handle; under an isolated topology each
// context keeps whatever handle it already had.
package orchestrator
