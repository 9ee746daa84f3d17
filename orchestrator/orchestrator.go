package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/logging"
	"github.com/hupe1980/agentrun/runner"
)

// DefaultMaxIterations bounds runs of default-constructed agent contexts.
// Contexts registered explicitly carry their own budget.
const DefaultMaxIterations = 10

// Options configures an Orchestrator instance using the functional options
// pattern.
type Options struct {
	// Topology selects shared or isolated memory. Defaults to isolated.
	Topology MemoryTopology

	// Loop runs the registered agents. Defaults to a deterministic control
	// loop sharing the orchestrator's logger.
	Loop *runner.ControlLoop

	// Logger receives orchestration diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Orchestrator runs named agents over a message bus with a configurable
// memory topology. Agent contexts are stored by name and persist between
// calls, so consecutive CallAgent invocations for one name continue from
// the same state.
//
// All methods are safe for concurrent use; distinct agents may run
// concurrently and interact only through the shared memory handle and the
// bus.
type Orchestrator struct {
	mu       sync.Mutex
	bus      core.MessageBus
	topology MemoryTopology
	loop     *runner.ControlLoop
	logger   logging.Logger
	agents   map[string]core.Agent
	contexts map[string]*core.AgentContext
}

// New creates an Orchestrator around the given bus.
func New(bus core.MessageBus, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Topology: IsolatedTopology(),
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Loop == nil {
		opts.Loop = runner.NewControlLoop(func(o *runner.Options) {
			o.Logger = opts.Logger
		})
	}

	return &Orchestrator{
		bus:      bus,
		topology: opts.Topology,
		loop:     opts.Loop,
		logger:   opts.Logger,
		agents:   make(map[string]core.Agent),
		contexts: make(map[string]*core.AgentContext),
	}
}

// Register adds a named agent. Registering the same name again replaces the
// previous agent.
func (o *Orchestrator) Register(name string, agent core.Agent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.agents[name] = agent
}

// RegisterContext installs the context used for the named agent's runs,
// replacing any previous one.
func (o *Orchestrator) RegisterContext(name string, actx *core.AgentContext) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.contexts[name] = actx
}

// PrepareContext returns the named agent's context, default-constructing
// and registering one when absent. Under a shared topology the shared
// memory handle is injected; an isolated topology leaves the context's
// handle untouched.
func (o *Orchestrator) PrepareContext(name string) *core.AgentContext {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.prepareContextLocked(name)
}

func (o *Orchestrator) prepareContextLocked(name string) *core.AgentContext {
	actx, ok := o.contexts[name]
	if !ok {
		actx = core.NewAgentContext(core.AgentConfig{
			Name:          name,
			MaxIterations: DefaultMaxIterations,
		})
		o.contexts[name] = actx
	}

	if store, shared := o.topology.Shared(); shared {
		actx.Memory = store
	}

	return actx
}

// CallAgent runs the named agent through the control loop against its
// prepared context. The mutated context stays registered, so a later call
// for the same name resumes from the state this run left behind.
func (o *Orchestrator) CallAgent(ctx context.Context, name string) ([]core.StepOutcome, error) {
	o.mu.Lock()
	agent, ok := o.agents[name]
	if !ok {
		o.mu.Unlock()
		return nil, core.NewValidationError(fmt.Sprintf("agent not registered: %s", name))
	}
	actx := o.prepareContextLocked(name)
	o.mu.Unlock()

	o.logger.Debug("calling agent", "agent", name, "mode", string(o.loop.Mode()))

	return o.loop.Run(ctx, agent, actx)
}

// Send queues a message for the named recipient on the bus.
func (o *Orchestrator) Send(ctx context.Context, to string, msg map[string]any) error {
	return o.bus.Send(ctx, to, msg)
}

// Recv pops the oldest message queued for the named recipient. The boolean
// reports whether a message was waiting.
func (o *Orchestrator) Recv(ctx context.Context, name string) (map[string]any, bool, error) {
	return o.bus.Recv(ctx, name)
}
