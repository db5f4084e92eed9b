package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kadirpekel/agentcore/pkg/events"
	"github.com/kadirpekel/agentcore/pkg/llm"
	"github.com/kadirpekel/agentcore/pkg/state"
)

// emitter is the capability every strategy's single iteration procedure is
// parameterised on: Execute supplies noopEmitter, Stream supplies
// chanEmitter. This is the one place execute/stream share code instead of
// duplicating the per-iteration procedure.
type emitter interface {
	emit(events.Event)
}

type noopEmitter struct{}

func (noopEmitter) emit(events.Event) {}

type chanEmitter struct {
	ch chan events.Event
}

func (c chanEmitter) emit(e events.Event) {
	c.ch <- e
}

// iterateFunc performs the strategy-specific LLM invocation(s) for one
// outer iteration. It returns the Turn produced and the State to absorb
// turn.Messages onto (already carrying any strategy-specific side effects,
// e.g. react's reasoning entry). emit lets a strategy raise additional
// events (e.g. plan's plan_step_start/plan_step_end) from inside its own
// iteration logic.
type iterateFunc func(ctx context.Context, ec ExecutionContext, emit emitter, s state.State, iteration int) (llm.Turn, state.State, error)

// terminateFunc is the strategy-specific termination check evaluated after
// the common step procedure and the generic stopCondition hook.
type terminateFunc func(turn llm.Turn, s state.State, iteration int) bool

// runIterations executes the shared step procedure until terminate or
// Hooks.StopCondition fires, or the context/signal aborts.
func runIterations(ctx context.Context, ec ExecutionContext, emit emitter, iterate iterateFunc, terminate terminateFunc) (Result, error) {
	s := ec.State
	iteration := s.Step()
	var lastTurn llm.Turn
	ranAny := false

	for {
		if ctx.Err() != nil || ec.aborted() {
			err := ErrAborted
			if ec.Hooks.OnError != nil {
				_ = ec.Hooks.OnError(err, s)
			}
			return Result{}, err
		}

		iteration++
		s = s.WithStep(iteration)

		if ec.Hooks.OnStepStart != nil {
			if err := ec.Hooks.OnStepStart(iteration, s); err != nil {
				return failStep(ec, s, err)
			}
		}
		emit.emit(events.NewUAP(events.UAP{Type: events.StepStart, Step: iteration, AgentID: ec.Agent.ID}))

		turn, nextState, err := iterate(ctx, ec, emit, s, iteration)
		if err != nil {
			return failStep(ec, s, err)
		}
		ranAny = true
		s = nextState.WithMessages(turn.Messages)
		lastTurn = turn

		if turn.Response.HasToolCalls {
			if ec.Hooks.OnAct != nil {
				if err := ec.Hooks.OnAct(iteration, turn.Response.ToolCalls); err != nil {
					return failStep(ec, s, err)
				}
			}
			emit.emit(events.NewUAP(events.UAP{Type: events.Action, Step: iteration, AgentID: ec.Agent.ID, Data: turn.Response.ToolCalls}))
		}

		if len(turn.ToolExecutions) > 0 {
			if ec.Hooks.OnObserve != nil {
				if err := ec.Hooks.OnObserve(iteration, turn.ToolExecutions); err != nil {
					return failStep(ec, s, err)
				}
			}
			emit.emit(events.NewUAP(events.UAP{Type: events.Observation, Step: iteration, AgentID: ec.Agent.ID, Data: turn.ToolExecutions}))
		}

		if ec.Hooks.OnStepEnd != nil {
			if err := ec.Hooks.OnStepEnd(iteration, turn, s); err != nil {
				return failStep(ec, s, err)
			}
		}
		emit.emit(events.NewUAP(events.UAP{Type: events.StepEnd, Step: iteration, AgentID: ec.Agent.ID}))

		maybeCheckpoint(ctx, ec, iteration, s)

		stop := terminate(turn, s, iteration)
		if ec.Hooks.StopCondition != nil && ec.Hooks.StopCondition(s) {
			stop = true
		}
		if stop {
			break
		}
	}

	if !ranAny {
		return Result{}, ErrNoTurnGenerated
	}

	result := Result{Turn: lastTurn, State: s}
	if ec.Hooks.OnComplete != nil {
		if err := ec.Hooks.OnComplete(result); err != nil {
			return failStep(ec, s, err)
		}
	}
	return result, nil
}

func failStep(ec ExecutionContext, s state.State, err error) (Result, error) {
	if ec.Hooks.OnError != nil {
		_ = ec.Hooks.OnError(err, s)
	}
	return Result{}, err
}

// maybeCheckpoint fires a checkpoint save at the configured interval.
// Failures are logged and swallowed; checkpointing never fails a step and
// is not serialized across concurrent saves within a session.
func maybeCheckpoint(ctx context.Context, ec ExecutionContext, iteration int, s state.State) {
	if ec.Checkpoints == nil || ec.SessionID == "" {
		return
	}
	if iteration%ec.checkpointInterval() != 0 {
		return
	}
	snapshot, err := s.ToJSON()
	if err != nil {
		slog.Warn("checkpoint: failed to serialize state", "session_id", ec.SessionID, "error", err)
		return
	}
	go func() {
		if err := ec.Checkpoints.Save(ctx, ec.SessionID, snapshot); err != nil {
			slog.Warn("checkpoint: save failed", "session_id", ec.SessionID, "step", iteration, "error", err)
		}
	}()
}

// execute/stream share this single entry that wires up the emitter and,
// for streaming, the background goroutine + result/abort plumbing.
func execute(ctx context.Context, ec ExecutionContext, iterate iterateFunc, terminate terminateFunc) (Result, error) {
	return runIterations(ctx, ec, noopEmitter{}, iterate, terminate)
}

func stream(ctx context.Context, ec ExecutionContext, iterate iterateFunc, terminate terminateFunc) (*StreamResult, error) {
	execCtx, cancel := context.WithCancel(ctx)

	ch := make(chan events.Event, 16)
	resultCh := make(chan struct {
		res Result
		err error
	}, 1)

	go func() {
		defer close(ch)
		res, err := runIterations(execCtx, ec, chanEmitter{ch: ch}, iterate, terminate)
		resultCh <- struct {
			res Result
			err error
		}{res, err}
	}()

	return &StreamResult{
		Events: ch,
		result: func(waitCtx context.Context) (Result, error) {
			select {
			case r := <-resultCh:
				return r.res, r.err
			case <-waitCtx.Done():
				return Result{}, fmt.Errorf("strategy: waiting for result: %w", waitCtx.Err())
			}
		},
		abort: cancel,
	}, nil
}
