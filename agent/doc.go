// Package agent contains first-class agent implementations for the runtime.
// The package focuses on three concerns:
//
//  1. Identity plumbing shared by every implementation (BaseAgent)
//  2. Deterministic agents for demos, tests and scripted workflows
//     (ScriptedAgent, FuncAgent)
//  3. Model-backed planning and acting (ModelAgent)
//
// Design principles:
//   - Minimal hidden global state; tools and models are injected
//   - Agents implement core.Agent plus whichever lifecycle interfaces
//     (Initializer, Observer, Reflector) their behavior needs
//   - Instruction text resolves dynamically and supports template markers
//     expanded against the run context metadata
//
// Multi-agent coordination intentionally lives in the orchestrator package;
// agents here stay single-run and compose through it.
package agent
