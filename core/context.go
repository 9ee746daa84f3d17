package core

// AgentConfig holds the immutable per-agent settings read by the control
// loop. It must not change once a run has started.
type AgentConfig struct {
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	MaxIterations int         `json:"max_iterations"`
	RetryPolicy   RetryPolicy `json:"retry_policy"`
}

// AgentState is the mutable portion of an agent's context. Only the control
// loop and the owning agent's hooks touch it during a run.
type AgentState struct {
	Plan        *ExecutablePlan `json:"plan,omitempty"`
	MemoryKeys  []string        `json:"memory_keys,omitempty"`
	Iteration   int             `json:"iteration"`
	StepHistory []StepOutcome   `json:"step_history"`
	Thought     *ChainOfThought `json:"-"`
}

// AddThoughtNote appends a chain-of-thought note to the run scratchpad.
func (s *AgentState) AddThoughtNote(note string) {
	if s.Thought == nil {
		s.Thought = NewChainOfThought()
	}
	s.Thought.Push(note)
}

// ToolPermissions lists tool names an agent may or may not use. An empty
// allow list permits everything not explicitly denied.
type ToolPermissions struct {
	Allowed []string `json:"allowed,omitempty"`
	Denied  []string `json:"denied,omitempty"`
}

// Permits reports whether the named tool passes the allow/deny lists.
func (p ToolPermissions) Permits(name string) bool {
	for _, d := range p.Denied {
		if d == name {
			return false
		}
	}
	if len(p.Allowed) == 0 {
		return true
	}
	for _, a := range p.Allowed {
		if a == name {
			return true
		}
	}
	return false
}

// AgentContext composes configuration, state, free-form metadata, an
// optional shared memory handle and tool permissions for one run. It is
// passed by pointer through a single run and never shared across concurrent
// runs. The memory handle may be shared between agents; the MemoryStore
// implementation carries its own synchronization.
type AgentContext struct {
	Config          AgentConfig     `json:"config"`
	State           AgentState      `json:"state"`
	Metadata        map[string]any  `json:"metadata,omitempty"`
	Memory          MemoryStore     `json:"-"`
	ToolPermissions ToolPermissions `json:"-"`
}

// NewAgentContext creates a context around the given config with empty
// state and metadata.
func NewAgentContext(cfg AgentConfig) *AgentContext {
	return &AgentContext{
		Config:   cfg,
		State:    AgentState{},
		Metadata: map[string]any{},
	}
}
