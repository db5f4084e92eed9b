// Package events defines the tagged event union strategies emit on the
// stream path: provider-level (UPP) events passed through opaque, and
// runtime-level (UAP) events marking step/action/observation/plan
// lifecycle.
package events

import "github.com/kadirpekel/agentcore/pkg/llm"

// UAPType enumerates the runtime event types a strategy may emit.
type UAPType string

const (
	StepStart      UAPType = "step_start"
	StepEnd        UAPType = "step_end"
	Action         UAPType = "action"
	Observation    UAPType = "observation"
	PlanCreated    UAPType = "plan_created"
	PlanStepStart  UAPType = "plan_step_start"
	PlanStepEnd    UAPType = "plan_step_end"
	SubagentStart  UAPType = "subagent_start"
	SubagentInner  UAPType = "subagent_inner"
	SubagentEnd    UAPType = "subagent_end"
)

// UAP is one runtime-level event.
type UAP struct {
	Type    UAPType
	Step    int
	AgentID string
	Data    interface{}
}

// Source distinguishes a provider event from a runtime event.
type Source string

const (
	SourceUPP Source = "upp"
	SourceUAP Source = "uap"
)

// Event is the tagged union yielded on an AgentStreamResult.
type Event struct {
	Source Source
	UPP    *llm.StreamEvent
	UAP    *UAP
}

// NewUPP wraps a provider event for passthrough.
func NewUPP(e llm.StreamEvent) Event {
	return Event{Source: SourceUPP, UPP: &e}
}

// NewUAP wraps a runtime event.
func NewUAP(u UAP) Event {
	return Event{Source: SourceUAP, UAP: &u}
}
