package core

// Plan is an ordered sequence of steps toward a goal. Agents produce a fresh
// Plan each time they think; the control loop consumes it through an
// ExecutablePlan cursor.
type Plan struct {
	Goal     string         `json:"goal"`
	Steps    []Step         `json:"steps"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Executable wraps the plan in a cursor that yields each step exactly once.
func (p Plan) Executable() *ExecutablePlan {
	return &ExecutablePlan{Plan: p, Current: 0}
}

// ExecutablePlan is a Plan plus a consumption cursor. It is the only
// plan-consumption primitive: both deterministic and procedural control
// modes pull steps through Next.
type ExecutablePlan struct {
	Plan    Plan `json:"plan"`
	Current int  `json:"current"`
}

// Next returns the next unconsumed step in order, or false once the plan is
// exhausted. Returned steps are clones, so callers may mutate them freely.
func (ep *ExecutablePlan) Next() (Step, bool) {
	if ep.Current < len(ep.Plan.Steps) {
		step := ep.Plan.Steps[ep.Current].Clone()
		ep.Current++
		return step, true
	}
	return Step{}, false
}

// Remaining reports how many steps have not been consumed yet.
func (ep *ExecutablePlan) Remaining() int {
	if ep.Current >= len(ep.Plan.Steps) {
		return 0
	}
	return len(ep.Plan.Steps) - ep.Current
}

// Step is one unit of work inside a plan, optionally bound to a named tool.
// Steps are value types: they are cloned when retried or substituted during
// fallback so no state leaks across attempts.
type Step struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Tool        string          `json:"tool,omitempty"`
	Args        map[string]any  `json:"args,omitempty"`
	Subtasks    []Subtask       `json:"subtasks,omitempty"`
	Policies    StepPolicies    `json:"policies"`
	Thought     *ChainOfThought `json:"-"`
}

// Subtask records a smaller piece of work discovered while executing a step.
type Subtask struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// WithTool binds the step to a tool with the given arguments and returns the
// step for chaining.
func (s Step) WithTool(tool string, args map[string]any) Step {
	s.Tool = tool
	s.Args = args
	return s
}

// Clone deep-copies the step including argument payloads, subtasks and
// chain-of-thought notes.
func (s Step) Clone() Step {
	cp := s
	cp.Args = CloneMap(s.Args)
	if s.Subtasks != nil {
		cp.Subtasks = make([]Subtask, len(s.Subtasks))
		copy(cp.Subtasks, s.Subtasks)
	}
	if s.Thought != nil {
		cp.Thought = s.Thought.clone()
	}
	cp.Policies = s.Policies.clone()
	return cp
}

// AddThoughtNote appends a chain-of-thought note, allocating the container
// on first use.
func (s *Step) AddThoughtNote(note string) {
	if s.Thought == nil {
		s.Thought = NewChainOfThought()
	}
	s.Thought.Push(note)
}

// RecordSubtask appends a subtask entry to the step.
func (s *Step) RecordSubtask(id, description string) {
	s.Subtasks = append(s.Subtasks, Subtask{ID: id, Description: description})
}

// ChainOfThought collects free-form reasoning notes accumulated while
// planning or executing.
type ChainOfThought struct {
	notes []string
}

// NewChainOfThought creates an empty note container.
func NewChainOfThought() *ChainOfThought {
	return &ChainOfThought{}
}

// Push appends a note.
func (c *ChainOfThought) Push(note string) {
	c.notes = append(c.notes, note)
}

// Notes returns the recorded notes in insertion order.
func (c *ChainOfThought) Notes() []string {
	return c.notes
}

func (c *ChainOfThought) clone() *ChainOfThought {
	return &ChainOfThought{notes: copyStrings(c.notes)}
}
