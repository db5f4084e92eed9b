// Package middleware wraps a strategy.Strategy in an onion of cross-cutting
// concerns: Before hooks run in registration order before the wrapped
// strategy executes, After and OnError hooks run in reverse registration
// order once it returns.
//
// The ordered-registration composition idiom is generalized here from
// component lifecycle hooks to the strategy execute/stream path.
package middleware

import (
	"context"

	"github.com/kadirpekel/agentcore/pkg/events"
	"github.com/kadirpekel/agentcore/pkg/strategy"
)

// Middleware is one cross-cutting concern. Before may replace the context
// and ExecutionContext seen by the rest of the pipeline (e.g. injecting a
// trace span into ctx); it may also short-circuit by returning an error.
// After observes the terminal Result/error pair; OnError gets first refusal
// at recovering a failed execution — the first OnError that returns a
// non-nil Result wins, later OnError hooks are skipped, and every After
// hook still runs.
type Middleware struct {
	Name    string
	Before  func(ctx context.Context, ec strategy.ExecutionContext) (context.Context, strategy.ExecutionContext, error)
	After   func(ctx context.Context, res strategy.Result, err error) strategy.Result
	OnError func(ctx context.Context, err error) (*strategy.Result, error)
}

// Chain composes an ordered list of middleware around a Strategy.
type Chain struct {
	strategy strategy.Strategy
	mws      []Middleware
}

// Wrap returns a Strategy whose Execute/Stream run the onion around the
// inner strategy's own Execute/Stream.
func Wrap(inner strategy.Strategy, mws ...Middleware) *Chain {
	return &Chain{strategy: inner, mws: mws}
}

func (c *Chain) Name() string { return c.strategy.Name() }

func (c *Chain) runBefore(ctx context.Context, ec strategy.ExecutionContext) (context.Context, strategy.ExecutionContext, error) {
	for _, mw := range c.mws {
		if mw.Before == nil {
			continue
		}
		var err error
		ctx, ec, err = mw.Before(ctx, ec)
		if err != nil {
			return ctx, ec, err
		}
	}
	return ctx, ec, nil
}

// runAfter walks middleware in reverse registration order. If err is
// non-nil, each OnError gets a chance to recover it; the first one that
// returns a Result wins and the remaining OnError calls are skipped (res
// and err take the values that OnError returned, normally a nil error).
// After runs for every middleware regardless, in the same reverse order,
// and may transform the result.
func (c *Chain) runAfter(ctx context.Context, res strategy.Result, err error) (strategy.Result, error) {
	caught := false
	for i := len(c.mws) - 1; i >= 0; i-- {
		mw := c.mws[i]
		if err != nil && !caught && mw.OnError != nil {
			if recovered, rerr := mw.OnError(ctx, err); recovered != nil {
				res, err, caught = *recovered, rerr, true
			}
		}
		if mw.After != nil {
			res = mw.After(ctx, res, err)
		}
	}
	return res, err
}

// stampName tags ctx with the wrapped strategy's name for any middleware
// (e.g. the metrics Recording middleware) that labels by it, unless the
// caller already stamped a name of their own.
func (c *Chain) stampName(ctx context.Context) context.Context {
	if _, ok := ctx.Value(strategyNameKey{}).(string); ok {
		return ctx
	}
	return WithStrategyName(ctx, c.Name())
}

func (c *Chain) Execute(ctx context.Context, ec strategy.ExecutionContext) (strategy.Result, error) {
	ctx = c.stampName(ctx)
	ctx, ec, err := c.runBefore(ctx, ec)
	if err != nil {
		return c.runAfter(ctx, strategy.Result{}, err)
	}
	res, err := c.strategy.Execute(ctx, ec)
	return c.runAfter(ctx, res, err)
}

func (c *Chain) Stream(ctx context.Context, ec strategy.ExecutionContext) (*strategy.StreamResult, error) {
	ctx = c.stampName(ctx)
	ctx, ec, err := c.runBefore(ctx, ec)
	var handle *strategy.StreamResult
	if err == nil {
		handle, err = c.strategy.Stream(ctx, ec)
	}
	if err != nil {
		res, aerr := c.runAfter(ctx, strategy.Result{}, err)
		if aerr != nil {
			return nil, aerr
		}
		// Recovered before any event: a closed stream resolving to res.
		done := make(chan events.Event)
		close(done)
		return strategy.NewStreamResult(done, func(context.Context) (strategy.Result, error) { return res, nil }, func() {}), nil
	}

	return strategy.NewStreamResult(handle.Events,
		func(waitCtx context.Context) (strategy.Result, error) {
			res, err := handle.Result(waitCtx)
			return c.runAfter(ctx, res, err)
		},
		handle.Abort,
	), nil
}
