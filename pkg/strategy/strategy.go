// Package strategy implements the pluggable execution disciplines —
// loop, react, plan — that drive an LLM through multi-step reasoning and
// tool invocation over an immutable State, with dual execute/stream entry
// points that must produce structurally equivalent final states.
//
// Every strategy implements a single iteration procedure parameterised on
// an emitter capability: Execute supplies a no-op emitter, Stream supplies
// a channel-backed one, instead of duplicating the iteration loop between
// an execute-shaped and a stream-shaped caller.
package strategy

import (
	"context"
	"errors"

	"github.com/kadirpekel/agentcore/pkg/checkpoint"
	"github.com/kadirpekel/agentcore/pkg/events"
	"github.com/kadirpekel/agentcore/pkg/llm"
	"github.com/kadirpekel/agentcore/pkg/state"
	"github.com/kadirpekel/agentcore/pkg/tool"
)

// Sentinel errors for the runtime's error kinds.
var (
	ErrAborted         = errors.New("aborted")
	ErrNoTurnGenerated = errors.New("no_turn_generated")
	ErrPlanDecode      = errors.New("plan_decode_error")
	ErrPlanStuck       = errors.New("plan_stuck")
)

// AgentInfo identifies the agent driving an execution.
type AgentInfo struct {
	ID     string
	System string
}

// Hooks are the optional strategy hooks invoked synchronously within a
// step. Every hook failure propagates as an execution error, except
// OnError's: its returned error is ignored and the original error is kept.
type Hooks struct {
	OnStepStart   func(step int, s state.State) error
	OnStepEnd     func(step int, turn llm.Turn, s state.State) error
	OnAct         func(step int, toolCalls []llm.ToolCall) error
	OnObserve     func(step int, toolExecutions []llm.ToolExecution) error
	OnComplete    func(result Result) error
	OnError       func(err error, s state.State) error
	StopCondition func(s state.State) bool
}

// ExecutionContext binds everything one strategy invocation needs.
type ExecutionContext struct {
	Agent   AgentInfo
	LLM     llm.Provider
	Input   string
	State   state.State
	Tools   map[string]tool.Tool
	Hooks   Hooks
	Signal  <-chan struct{} // closed to signal abort
	Checkpoints        checkpoint.Checkpointer
	SessionID          string
	CheckpointInterval int // default 1: checkpoint every step
}

func (ec ExecutionContext) aborted() bool {
	if ec.Signal == nil {
		return false
	}
	select {
	case <-ec.Signal:
		return true
	default:
		return false
	}
}

func (ec ExecutionContext) checkpointInterval() int {
	if ec.CheckpointInterval <= 0 {
		return 1
	}
	return ec.CheckpointInterval
}

// Result is a strategy's terminal output: the last Turn produced and the
// final State.
type Result struct {
	Turn  llm.Turn
	State state.State
}

// StreamResult is what Strategy.Stream returns: an event sequence, a
// handle resolving to the terminal Result once the stream ends, and an
// abort primitive.
type StreamResult struct {
	Events <-chan events.Event
	result func(ctx context.Context) (Result, error)
	abort  func()
}

// Result blocks until the stream terminates and returns the final Result,
// or the error the execution surfaced.
func (s *StreamResult) Result(ctx context.Context) (Result, error) {
	return s.result(ctx)
}

// Abort signals cancellation to the in-flight execution.
func (s *StreamResult) Abort() {
	s.abort()
}

// NewStreamResult builds a StreamResult from its three parts. It exists so
// callers outside this package (the middleware chain, composing a new
// result func around an inner stream) can construct one without the
// unexported fields.
func NewStreamResult(events <-chan events.Event, result func(ctx context.Context) (Result, error), abort func()) *StreamResult {
	return &StreamResult{Events: events, result: result, abort: abort}
}

// Strategy is one pluggable iteration discipline.
type Strategy interface {
	Name() string
	Execute(ctx context.Context, ec ExecutionContext) (Result, error)
	Stream(ctx context.Context, ec ExecutionContext) (*StreamResult, error)
}
