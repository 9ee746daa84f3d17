// Package agentrun provides a high-level façade over the control loop,
// orchestrator and service abstractions (memory, message bus & logging)
// enabling rapid construction of autonomous agent runtimes. Most
// applications interact with this package by:
//  1. Creating a Runtime via New() (optionally overriding default in-memory services)
//  2. Registering one or more agents (model-backed, scripted, custom)
//  3. Running agents synchronously (Run) or messaging between them (Send/Recv)
//
// The façade delegates coordination to orchestrator.Orchestrator while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply durable
// store implementations and a structured logger.
package agentrun

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/agentrun/bus"
	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/logging"
	"github.com/hupe1980/agentrun/orchestrator"
	"github.com/hupe1980/agentrun/runner"
)

// Version is the library version, surfaced by the CLI and audit trails.
const Version = "0.1.0"

// Options configures the Runtime instance.
type Options struct {
	// Mode selects the control loop strategy applied to every run.
	// Defaults to deterministic.
	Mode runner.ControlMode

	// Delay pauses the control loop between iterations when non-zero.
	// Useful for rate-limiting model-backed agents.
	Delay time.Duration

	// SharedMemory, when set, is injected into every registered agent
	// context so agents observe each other's writes. Leave nil to keep
	// each agent's memory isolated.
	SharedMemory core.MemoryStore

	// Bus carries messages between agents (defaults to an in-process bus
	// if not provided).
	Bus core.MessageBus

	// Hooks observe run and step lifecycle points. Optional.
	Hooks *runner.Hooks

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Runtime is the high-level façade aggregating the orchestrator and services.
type Runtime struct {
	opts         Options
	orchestrator *orchestrator.Orchestrator
}

// New creates a new Runtime instance with optional overrides. Any unset
// service is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Runtime {
	opts := Options{
		Mode:   runner.ModeDeterministic,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Bus == nil {
		opts.Bus = bus.NewInMemoryBus()
	}

	loop := runner.NewControlLoop(func(o *runner.Options) {
		o.Mode = opts.Mode
		o.Delay = opts.Delay
		o.Hooks = opts.Hooks
		o.Logger = opts.Logger
	})

	topology := orchestrator.IsolatedTopology()
	if opts.SharedMemory != nil {
		topology = orchestrator.SharedTopology(opts.SharedMemory)
	}

	orch := orchestrator.New(opts.Bus, func(o *orchestrator.Options) {
		o.Topology = topology
		o.Loop = loop
		o.Logger = opts.Logger
	})

	return &Runtime{opts: opts, orchestrator: orch}
}

// RegisterAgent adds a named agent to the underlying orchestrator.
func (r *Runtime) RegisterAgent(name string, agent core.Agent) {
	r.orchestrator.Register(name, agent)
}

// RegisterContext installs the context used for the named agent's runs,
// replacing the default-constructed one.
func (r *Runtime) RegisterContext(name string, actx *core.AgentContext) {
	r.orchestrator.RegisterContext(name, actx)
}

// Run executes the named agent synchronously through the control loop and
// returns a run ID for correlation alongside the ordered step outcomes.
// The agent's context persists between calls, so a second Run for the same
// name resumes from the state the first left behind.
func (r *Runtime) Run(ctx context.Context, agentName string) (string, []core.StepOutcome, error) {
	runID := uuid.NewString()

	r.opts.Logger.Info("run starting", "run_id", runID, "agent", agentName)

	outcomes, err := r.orchestrator.CallAgent(ctx, agentName)

	r.opts.Logger.Info("run finished",
		"run_id", runID, "agent", agentName, "steps", len(outcomes), "error", err)

	return runID, outcomes, err
}

// Send queues a message for the named agent on the bus.
func (r *Runtime) Send(ctx context.Context, to string, msg map[string]any) error {
	return r.orchestrator.Send(ctx, to, msg)
}

// Recv pops the oldest message queued for the named agent. The boolean
// reports whether a message was waiting.
func (r *Runtime) Recv(ctx context.Context, name string) (map[string]any, bool, error) {
	return r.orchestrator.Recv(ctx, name)
}
