package strategy

import (
	"context"

	"github.com/kadirpekel/agentcore/pkg/llm"
	"github.com/kadirpekel/agentcore/pkg/state"
)

// ReactOptions configures the react strategy.
type ReactOptions struct {
	// MaxSteps bounds the number of ReAct steps. Zero means unbounded.
	MaxSteps int
}

// React runs a two-phase reasoning-then-action cycle per step: a
// reasoning call captured into State.Reasoning(), followed by an action
// call that may carry tool calls. Each ReAct step advances State.Step()
// by exactly one.
//
// A dedicated reasoning-phase call whose text is captured separately from
// the conversation, before the action phase runs.
type React struct {
	Options ReactOptions
}

func NewReact(opts ReactOptions) *React {
	return &React{Options: opts}
}

func (r *React) Name() string { return "react" }

func (r *React) iterate(ctx context.Context, ec ExecutionContext, emit emitter, s state.State, iteration int) (llm.Turn, state.State, error) {
	reasoningTurn, err := ec.LLM.Generate(ctx, s.Messages(), nil)
	if err != nil {
		return llm.Turn{}, s, err
	}
	s = s.WithReasoning(reasoningTurn.Response.Text)

	actionTurn, err := ec.LLM.Generate(ctx, s.Messages(), toolDefinitions(ec.Tools))
	if err != nil {
		return llm.Turn{}, s, err
	}
	return runToolCalls(ctx, ec, *actionTurn), s, nil
}

func (r *React) terminate(turn llm.Turn, s state.State, iteration int) bool {
	if !turn.Response.HasToolCalls {
		return true
	}
	if r.Options.MaxSteps > 0 && iteration >= r.Options.MaxSteps {
		return true
	}
	return false
}

func (r *React) Execute(ctx context.Context, ec ExecutionContext) (Result, error) {
	return execute(ctx, ec, r.iterate, r.terminate)
}

func (r *React) Stream(ctx context.Context, ec ExecutionContext) (*StreamResult, error) {
	return stream(ctx, ec, r.iterate, r.terminate)
}
