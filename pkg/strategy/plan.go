package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kadirpekel/agentcore/pkg/events"
	"github.com/kadirpekel/agentcore/pkg/llm"
	"github.com/kadirpekel/agentcore/pkg/state"
	"github.com/mitchellh/mapstructure"
)

// PlanOptions configures the plan strategy.
type PlanOptions struct {
	// MaxPlanSteps truncates a decoded plan. Zero means unbounded.
	MaxPlanSteps int
}

// Plan runs a three-phase discipline: a planning call decoded into an
// ordered step list, truncation to MaxPlanSteps with every step starting
// pending, then an execution loop that advances one ready step per outer
// iteration until no pending steps remain.
//
// A planner/executor separation, with plan decoding done via mapstructure
// since providers here return either structured Data or raw text depending
// on their capabilities.
type Plan struct {
	Options PlanOptions
}

func NewPlan(opts PlanOptions) *Plan {
	return &Plan{Options: opts}
}

func (p *Plan) Name() string { return "plan" }

type planStepInput struct {
	ID          string   `json:"id" mapstructure:"id"`
	Description string   `json:"description" mapstructure:"description"`
	Tool        string   `json:"tool" mapstructure:"tool"`
	DependsOn   []string `json:"dependsOn" mapstructure:"dependsOn"`
}

// planResponseBody is the decoded shape of a planning call's output:
// {"steps": [...]}, not a bare array.
type planResponseBody struct {
	Steps []planStepInput `json:"steps" mapstructure:"steps"`
}

// decodePlanSteps prefers turn.Response.Data (a provider that already
// decoded structured output) and falls back to locating a {"steps": [...]}
// object in the response text when the provider only returned text.
func decodePlanSteps(turn llm.Turn) ([]planStepInput, error) {
	if turn.Response.Data != nil {
		var body planResponseBody
		if err := mapstructure.Decode(turn.Response.Data, &body); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPlanDecode, err)
		}
		if body.Steps == nil {
			return nil, fmt.Errorf("%w: structured data has no steps array", ErrPlanDecode)
		}
		return body.Steps, nil
	}

	obj, ok := findStepsObject(turn.Response.Text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object with a steps array found in response", ErrPlanDecode)
	}

	var body planResponseBody
	if err := json.Unmarshal(obj, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanDecode, err)
	}
	return body.Steps, nil
}

// findStepsObject scans text for the first balanced {...} substring that
// decodes with a non-nil "steps" array, so surrounding prose brackets or an
// unrelated array elsewhere in the text can't be mistaken for the plan.
func findStepsObject(text string) ([]byte, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		end := matchingBrace(text, i)
		if end < 0 {
			continue
		}
		candidate := text[i : end+1]
		var probe struct {
			Steps json.RawMessage `json:"steps"`
		}
		if err := json.Unmarshal([]byte(candidate), &probe); err == nil && probe.Steps != nil {
			return []byte(candidate), true
		}
	}
	return nil, false
}

// matchingBrace returns the index of the '}' that closes the '{' at start,
// or -1 if the braces never balance.
func matchingBrace(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (p *Plan) buildPlan(turn llm.Turn) ([]state.PlanStep, error) {
	inputs, err := decodePlanSteps(turn)
	if err != nil {
		return nil, err
	}
	if p.Options.MaxPlanSteps > 0 && len(inputs) > p.Options.MaxPlanSteps {
		inputs = inputs[:p.Options.MaxPlanSteps]
	}

	steps := make([]state.PlanStep, 0, len(inputs))
	for _, in := range inputs {
		steps = append(steps, state.PlanStep{
			ID:          in.ID,
			Description: in.Description,
			Tool:        in.Tool,
			DependsOn:   in.DependsOn,
			Status:      state.PlanPending,
		})
	}
	return steps, nil
}

// nextReadyStep returns the first pending step whose dependencies are all
// completed, and whether any pending step remains at all (used to tell
// "done" apart from "stuck").
func nextReadyStep(steps []state.PlanStep) (state.PlanStep, bool, bool) {
	completed := make(map[string]bool, len(steps))
	for _, s := range steps {
		if s.Status == state.PlanCompleted {
			completed[s.ID] = true
		}
	}

	anyPending := false
	for _, s := range steps {
		if s.Status != state.PlanPending {
			continue
		}
		anyPending = true
		ready := true
		for _, dep := range s.DependsOn {
			if !completed[dep] {
				ready = false
				break
			}
		}
		if ready {
			return s, true, anyPending
		}
	}
	return state.PlanStep{}, false, anyPending
}

func (p *Plan) iterate(ctx context.Context, ec ExecutionContext, emit emitter, s state.State, iteration int) (llm.Turn, state.State, error) {
	if steps, hasPlan := s.Plan(); !hasPlan {
		turn, err := ec.LLM.Generate(ctx, s.Messages(), toolDefinitions(ec.Tools))
		if err != nil {
			return llm.Turn{}, s, err
		}

		planned, err := p.buildPlan(*turn)
		if err != nil {
			return llm.Turn{}, s, err
		}

		s = s.WithPlan(planned)
		emit.emit(events.NewUAP(events.UAP{Type: events.PlanCreated, Step: iteration, AgentID: ec.Agent.ID, Data: planned}))
		return *turn, s, nil
	} else {
		step, ok, anyPending := nextReadyStep(steps)
		if !ok {
			if anyPending {
				return llm.Turn{}, s, ErrPlanStuck
			}
			// No pending steps left; nothing to execute this iteration.
			return llm.Turn{}, s, nil
		}

		s = s.WithPlanStepStatus(step.ID, state.PlanRunning)
		emit.emit(events.NewUAP(events.UAP{Type: events.PlanStepStart, Step: iteration, AgentID: ec.Agent.ID, Data: step}))

		messages := append(s.Messages(), llm.Message{Role: "user", Content: step.Description})
		turn, err := ec.LLM.Generate(ctx, messages, toolDefinitions(ec.Tools))
		if err != nil {
			s = s.WithPlanStepStatus(step.ID, state.PlanFailed)
			emit.emit(events.NewUAP(events.UAP{Type: events.PlanStepEnd, Step: iteration, AgentID: ec.Agent.ID, Data: step}))
			return llm.Turn{}, s, err
		}

		resolved := runToolCalls(ctx, ec, *turn)
		s = s.WithPlanStepStatus(step.ID, state.PlanCompleted)
		emit.emit(events.NewUAP(events.UAP{Type: events.PlanStepEnd, Step: iteration, AgentID: ec.Agent.ID, Data: step}))
		return resolved, s, nil
	}
}

func (p *Plan) terminate(turn llm.Turn, s state.State, iteration int) bool {
	steps, hasPlan := s.Plan()
	if !hasPlan {
		return false
	}
	_, ready, anyPending := nextReadyStep(steps)
	return !ready && !anyPending
}

func (p *Plan) Execute(ctx context.Context, ec ExecutionContext) (Result, error) {
	return execute(ctx, ec, p.iterate, p.terminate)
}

func (p *Plan) Stream(ctx context.Context, ec ExecutionContext) (*StreamResult, error) {
	return stream(ctx, ec, p.iterate, p.terminate)
}
