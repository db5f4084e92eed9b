package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result carries the outcome of one executed call.
type Result struct {
	ToolCallID string
	ToolName   string
	Arguments  map[string]interface{}
	Result     string
	Duration   time.Duration
	IsError    bool
	Error      string
}

// ExecuteOrderedToolCalls runs OrderToolCalls over calls, then executes
// each group's calls concurrently via runner, awaiting the whole group
// before advancing to the next. A runner error becomes an error Result;
// it never cancels sibling calls in the same group, and subsequent groups
// still run.
func ExecuteOrderedToolCalls(ctx context.Context, calls []OrderedToolCall, tools map[string]ToolDescriptor, runner ToolRunner) []Result {
	groups := OrderToolCalls(calls, tools)

	results := make([]Result, 0, len(calls))
	var mu sync.Mutex

	for _, group := range groups {
		g, gctx := errgroup.WithContext(ctx)
		for _, call := range group.Calls {
			call := call
			g.Go(func() error {
				res := executeOne(gctx, call, tools, runner)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
				return nil // errors are captured in the Result, not propagated
			})
		}
		// errgroup's own error is always nil here (runner errors never
		// escape executeOne), but awaiting it still blocks until every
		// call in the group has finished, which is the barrier contract.
		_ = g.Wait()
	}

	return results
}

func executeOne(ctx context.Context, call OrderedToolCall, tools map[string]ToolDescriptor, runner ToolRunner) Result {
	start := time.Now()
	tool, known := tools[call.ToolName]

	if !known {
		return Result{
			ToolCallID: call.ToolCallID,
			ToolName:   call.ToolName,
			Arguments:  call.Arguments,
			Duration:   time.Since(start),
			IsError:    true,
			Error:      fmt.Sprintf("tool %q not found", call.ToolName),
		}
	}

	run := runner
	if run == nil && tool.Run != nil {
		run = tool.Run
	}
	if run == nil {
		return Result{
			ToolCallID: call.ToolCallID,
			ToolName:   call.ToolName,
			Arguments:  call.Arguments,
			Duration:   time.Since(start),
			IsError:    true,
			Error:      fmt.Sprintf("tool %q not found", call.ToolName),
		}
	}

	out, err := run(ctx, call.ToolCall)
	if err != nil {
		return Result{
			ToolCallID: call.ToolCallID,
			ToolName:   call.ToolName,
			Arguments:  call.Arguments,
			Duration:   time.Since(start),
			IsError:    true,
			Error:      err.Error(),
		}
	}

	return Result{
		ToolCallID: call.ToolCallID,
		ToolName:   call.ToolName,
		Arguments:  call.Arguments,
		Result:     out,
		Duration:   time.Since(start),
	}
}
