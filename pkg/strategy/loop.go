package strategy

import (
	"context"

	"github.com/kadirpekel/agentcore/pkg/llm"
	"github.com/kadirpekel/agentcore/pkg/state"
)

// LoopOptions configures the loop strategy.
type LoopOptions struct {
	// MaxIterations bounds the number of outer iterations. Zero means
	// unbounded: stop only when the LLM stops requesting tool calls.
	MaxIterations int
}

// Loop is the simplest strategy: one outer iteration is the common case,
// since the model itself may run an internal tool loop inside a single
// Generate call. Multi-iteration use is for externally driven tool loops.
//
// An iterate-until-no-tool-calls shape, matching a chain-of-thought
// strategy's outer loop.
type Loop struct {
	Options LoopOptions
}

func NewLoop(opts LoopOptions) *Loop {
	return &Loop{Options: opts}
}

func (l *Loop) Name() string { return "loop" }

func (l *Loop) iterate(ctx context.Context, ec ExecutionContext, emit emitter, s state.State, iteration int) (llm.Turn, state.State, error) {
	turn, err := ec.LLM.Generate(ctx, s.Messages(), toolDefinitions(ec.Tools))
	if err != nil {
		return llm.Turn{}, s, err
	}
	return runToolCalls(ctx, ec, *turn), s, nil
}

func (l *Loop) terminate(turn llm.Turn, s state.State, iteration int) bool {
	if !turn.Response.HasToolCalls {
		return true
	}
	if l.Options.MaxIterations > 0 && iteration >= l.Options.MaxIterations {
		return true
	}
	return false
}

func (l *Loop) Execute(ctx context.Context, ec ExecutionContext) (Result, error) {
	return execute(ctx, ec, l.iterate, l.terminate)
}

func (l *Loop) Stream(ctx context.Context, ec ExecutionContext) (*StreamResult, error) {
	return stream(ctx, ec, l.iterate, l.terminate)
}
