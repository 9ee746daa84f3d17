// Package core provides the foundational domain types, interfaces and
// execution contexts used by AgentRun. It defines the core abstractions for:
//
//   - Agents (planning + acting units driven by the control loop)
//   - Plans, Steps and StepOutcomes (ordered work and its recorded results)
//   - Retry, fallback and safety policies attached to individual steps
//   - AgentContext (per-run configuration, state and shared memory handle)
//   - Pluggable capabilities for tools, models, memory and message passing
//
// The package intentionally keeps implementation concerns (tool registries,
// executors, concrete agents, storage backends) out of scope, exposing small
// interfaces to enable custom backends and extensions. All exported
// identifiers include concise documentation to aid discoverability and
// external consumption.
package core
