// Package scheduler computes execution-order batches over a set of tool
// calls, honoring both tool-declared (Sequential, DependsOn) and
// call-declared (After) orderings. It is a best-effort orderer: cyclic
// input still produces every call, just without ordering guarantees for
// the unresolved tail.
//
// Batches are computed wave by wave with Kahn's algorithm: each wave is
// every call whose dependencies are already satisfied, synchronously
// collected into a Group rather than streamed one completion at a time.
package scheduler

import (
	"context"
	"log/slog"
)

// ToolCall is one invocation requested by the model.
type ToolCall struct {
	ToolCallID string
	ToolName   string
	Arguments  map[string]interface{}
}

// OrderedToolCall extends ToolCall with an optional explicit predecessor
// list: this call cannot enter a group until every referenced call has
// already landed in an earlier group.
type OrderedToolCall struct {
	ToolCall
	After []string
}

// ToolRunner executes a tool call and returns its textual result.
type ToolRunner func(ctx context.Context, call ToolCall) (string, error)

// ToolDescriptor is the static metadata the scheduler needs about a tool.
type ToolDescriptor struct {
	Name       string
	Sequential bool
	DependsOn  []string
	Run        ToolRunner
}

// Group is one scheduler output unit. Calls within a non-barrier group run
// concurrently; a barrier group runs alone, with no concurrent predecessor
// or successor group.
type Group struct {
	Calls     []OrderedToolCall
	IsBarrier bool
}

// HasToolDependencies reports whether any tool declares Sequential or a
// non-empty DependsOn — strategies can use this to skip the scheduler
// entirely when a batch is trivially parallel.
func HasToolDependencies(tools map[string]ToolDescriptor) bool {
	for _, t := range tools {
		if t.Sequential || len(t.DependsOn) > 0 {
			return true
		}
	}
	return false
}

// HasCallDependencies reports whether any call declares a non-empty After.
func HasCallDependencies(calls []OrderedToolCall) bool {
	for _, c := range calls {
		if len(c.After) > 0 {
			return true
		}
	}
	return false
}

func lookupTool(tools map[string]ToolDescriptor, name string) ToolDescriptor {
	if t, ok := tools[name]; ok {
		return t
	}
	// Unknown tools are dependency-free.
	return ToolDescriptor{Name: name}
}

// OrderToolCalls computes the execution-order batches for calls given
// tools' declared dependencies. The output contains exactly the input
// calls, with no drop and no duplication, even when the dependency graph
// is cyclic.
func OrderToolCalls(calls []OrderedToolCall, tools map[string]ToolDescriptor) []Group {
	n := len(calls)
	placed := make([]bool, n)
	placedCount := 0

	toolsInBatch := make(map[string]bool, n)
	for _, c := range calls {
		toolsInBatch[c.ToolName] = true
	}

	var groups []Group

	for placedCount < n {
		var ready []int
		for i, c := range calls {
			if placed[i] {
				continue
			}
			if !callReady(i, calls, placed, tools, toolsInBatch) {
				continue
			}
			ready = append(ready, i)
		}

		if len(ready) == 0 {
			// Cycle: no ready call but calls remain. Emit everything left
			// as one terminal group with no ordering guarantees, and keep
			// the run making forward progress instead of deadlocking.
			var remaining []OrderedToolCall
			var ids []string
			for i, c := range calls {
				if !placed[i] {
					remaining = append(remaining, c)
					ids = append(ids, c.ToolCallID)
					placed[i] = true
					placedCount++
				}
			}
			slog.Warn("scheduler: dependency cycle detected, emitting remaining calls unordered",
				"component", "scheduler", "call_ids", ids)
			groups = append(groups, Group{Calls: remaining, IsBarrier: false})
			continue
		}

		// If any ready call is for a sequential tool, it runs alone as its
		// own barrier group (one barrier per sequential call, not one
		// shared barrier for every call to that tool in the batch).
		seqIdx := -1
		for _, i := range ready {
			if lookupTool(tools, calls[i].ToolName).Sequential {
				seqIdx = i
				break
			}
		}
		if seqIdx != -1 {
			groups = append(groups, Group{Calls: []OrderedToolCall{calls[seqIdx]}, IsBarrier: true})
			placed[seqIdx] = true
			placedCount++
			continue
		}

		batch := make([]OrderedToolCall, 0, len(ready))
		for _, i := range ready {
			batch = append(batch, calls[i])
			placed[i] = true
			placedCount++
		}
		groups = append(groups, Group{Calls: batch, IsBarrier: false})
	}

	return groups
}

func callReady(i int, calls []OrderedToolCall, placed []bool, tools map[string]ToolDescriptor, toolsInBatch map[string]bool) bool {
	call := calls[i]

	// Call-declared predecessors: an id not present in this batch at all
	// is treated as vacuous (do not block).
	for _, afterID := range call.After {
		found := false
		for j, other := range calls {
			if other.ToolCallID != afterID {
				continue
			}
			found = true
			if !placed[j] {
				return false
			}
		}
		_ = found // absent ids are vacuous by construction (loop just skips)
	}

	// Tool-declared predecessors: vacuous if the prerequisite tool isn't
	// called anywhere in this batch.
	for _, prereq := range lookupTool(tools, call.ToolName).DependsOn {
		if !toolsInBatch[prereq] {
			continue
		}
		satisfied := false
		for j, other := range calls {
			if other.ToolName == prereq && placed[j] {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}

	return true
}
