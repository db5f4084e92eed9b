// Package state holds the immutable conversational/reasoning/plan record
// that strategies advance one snapshot at a time.
//
// OWNERSHIP MODEL:
//   - Every State is a value; no method mutates the receiver.
//   - Each withX method returns a new State sharing the parts that did not
//     change (copy-on-write, not structural sharing — conversations here run
//     tens to hundreds of messages, not millions).
package state

import (
	"encoding/json"
	"fmt"

	"github.com/kadirpekel/agentcore/pkg/llm"
)

// PlanStatus is the lifecycle of a single PlanStep.
type PlanStatus string

const (
	PlanPending   PlanStatus = "pending"
	PlanRunning   PlanStatus = "running"
	PlanCompleted PlanStatus = "completed"
	PlanFailed    PlanStatus = "failed"
)

// PlanStep is one element of a decoded plan. DependsOn references only
// step ids appearing earlier in the plan; Status transitions monotonically
// along pending -> running -> {completed, failed}.
type PlanStep struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Tool        string     `json:"tool,omitempty"`
	DependsOn   []string   `json:"dependsOn,omitempty"`
	Status      PlanStatus `json:"status"`
}

// withStatus returns a copy of the step with a new status.
func (p PlanStep) withStatus(s PlanStatus) PlanStep {
	p.Status = s
	return p
}

// State is an immutable snapshot of one execution's conversation,
// reasoning trace, plan, and metadata.
type State struct {
	messages  []llm.Message
	step      int
	reasoning []string
	plan      []PlanStep
	hasPlan   bool
	metadata  map[string]interface{}
}

// Initial returns the zero-value starting snapshot for a new execution.
func Initial() State {
	return State{}
}

// Messages returns the message sequence. Callers must not mutate the
// returned slice; State never aliases it back out for writing.
func (s State) Messages() []llm.Message {
	out := make([]llm.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Step returns the current step counter.
func (s State) Step() int { return s.step }

// Reasoning returns the reasoning-trace sequence.
func (s State) Reasoning() []string {
	out := make([]string, len(s.reasoning))
	copy(out, s.reasoning)
	return out
}

// Plan returns the plan steps and whether a plan has been set at all
// (an empty plan and "no plan" are distinct per the structural-equivalence
// invariant: presence matters, not just length).
func (s State) Plan() ([]PlanStep, bool) {
	if !s.hasPlan {
		return nil, false
	}
	out := make([]PlanStep, len(s.plan))
	copy(out, s.plan)
	return out, true
}

// Metadata returns a copy of the metadata map.
func (s State) Metadata() map[string]interface{} {
	out := make(map[string]interface{}, len(s.metadata))
	for k, v := range s.metadata {
		out[k] = v
	}
	return out
}

// MetadataValue returns a single metadata value and whether it was present.
func (s State) MetadataValue(key string) (interface{}, bool) {
	v, ok := s.metadata[key]
	return v, ok
}

// WithMessage appends a single message.
func (s State) WithMessage(m llm.Message) State {
	return s.WithMessages([]llm.Message{m})
}

// WithMessages appends a sequence of messages.
func (s State) WithMessages(ms []llm.Message) State {
	next := s
	next.messages = append(append([]llm.Message{}, s.messages...), ms...)
	return next
}

// WithStep sets the step counter. Callers are responsible for the
// monotonic-non-decreasing invariant; WithStep itself does not enforce it,
// it is a plain setter used by the strategy's common step procedure.
func (s State) WithStep(n int) State {
	next := s
	next.step = n
	return next
}

// WithReasoning appends one reasoning-trace entry.
func (s State) WithReasoning(r string) State {
	next := s
	next.reasoning = append(append([]string{}, s.reasoning...), r)
	return next
}

// WithPlan replaces the plan wholesale (used after the planning phase
// decodes and truncates a new step list, and after each step transition).
func (s State) WithPlan(p []PlanStep) State {
	next := s
	next.plan = append([]PlanStep{}, p...)
	next.hasPlan = true
	return next
}

// WithPlanStepStatus returns a copy with the named step's status updated.
func (s State) WithPlanStepStatus(id string, status PlanStatus) State {
	if !s.hasPlan {
		return s
	}
	next := s
	next.plan = append([]PlanStep{}, s.plan...)
	for i, step := range next.plan {
		if step.ID == id {
			next.plan[i] = step.withStatus(status)
			break
		}
	}
	return next
}

// WithMetadata sets a single metadata key.
func (s State) WithMetadata(key string, value interface{}) State {
	next := s
	next.metadata = make(map[string]interface{}, len(s.metadata)+1)
	for k, v := range s.metadata {
		next.metadata[k] = v
	}
	next.metadata[key] = value
	return next
}

// jsonLayout mirrors the wire contract between the runtime and any
// persistence backend (checkpoint storage).
type jsonLayout struct {
	Messages  []llm.Message          `json:"messages"`
	Step      int                    `json:"step"`
	Reasoning []string               `json:"reasoning"`
	Plan      *[]PlanStep            `json:"plan,omitempty"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// ToJSON serializes the snapshot per the runtime/persistence wire contract.
func (s State) ToJSON() ([]byte, error) {
	layout := jsonLayout{
		Messages:  s.messages,
		Step:      s.step,
		Reasoning: s.reasoning,
		Metadata:  s.metadata,
	}
	if s.hasPlan {
		plan := s.plan
		layout.Plan = &plan
	}
	return json.Marshal(layout)
}

// FromJSON rehydrates a snapshot previously produced by ToJSON.
func FromJSON(data []byte) (State, error) {
	var layout jsonLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return State{}, fmt.Errorf("state: decode snapshot: %w", err)
	}
	s := State{
		messages:  layout.Messages,
		step:      layout.Step,
		reasoning: layout.Reasoning,
		metadata:  layout.Metadata,
	}
	if layout.Plan != nil {
		s.plan = *layout.Plan
		s.hasPlan = true
	}
	return s, nil
}

// StructurallyEqual reports whether two states agree on step, message
// count, reasoning sequence, and plan length/presence. Exact metadata
// values are deliberately excluded from the comparison.
func StructurallyEqual(a, b State) bool {
	if a.step != b.step {
		return false
	}
	if len(a.messages) != len(b.messages) {
		return false
	}
	if len(a.reasoning) != len(b.reasoning) {
		return false
	}
	for i := range a.reasoning {
		if a.reasoning[i] != b.reasoning[i] {
			return false
		}
	}
	if a.hasPlan != b.hasPlan {
		return false
	}
	if a.hasPlan && len(a.plan) != len(b.plan) {
		return false
	}
	return true
}
