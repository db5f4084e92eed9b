package scheduler

import (
	"context"
	"testing"
)

func call(id, tool string, after ...string) OrderedToolCall {
	return OrderedToolCall{
		ToolCall: ToolCall{ToolCallID: id, ToolName: tool},
		After:    after,
	}
}

func TestOrderToolCalls_Diamond(t *testing.T) {
	tools := map[string]ToolDescriptor{
		"A": {Name: "A"},
		"B": {Name: "B"},
		"D": {Name: "D", DependsOn: []string{"A", "B"}},
	}
	calls := []OrderedToolCall{call("a", "A"), call("b", "B"), call("d", "D")}

	groups := OrderToolCalls(calls, tools)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if len(groups[0].Calls) != 2 || groups[0].IsBarrier {
		t.Fatalf("expected group 0 = {a,b} parallel, got %+v", groups[0])
	}
	if len(groups[1].Calls) != 1 || groups[1].Calls[0].ToolCallID != "d" {
		t.Fatalf("expected group 1 = {d}, got %+v", groups[1])
	}
}

func TestOrderToolCalls_DiamondWithSequential(t *testing.T) {
	tools := map[string]ToolDescriptor{
		"A": {Name: "A", Sequential: true},
		"B": {Name: "B"},
		"D": {Name: "D", DependsOn: []string{"A", "B"}},
	}
	calls := []OrderedToolCall{call("a", "A"), call("b", "B"), call("d", "D")}

	groups := OrderToolCalls(calls, tools)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if !groups[0].IsBarrier || len(groups[0].Calls) != 1 || groups[0].Calls[0].ToolCallID != "a" {
		t.Fatalf("expected group 0 = {a} barrier, got %+v", groups[0])
	}
	if groups[1].IsBarrier || len(groups[1].Calls) != 1 || groups[1].Calls[0].ToolCallID != "b" {
		t.Fatalf("expected group 1 = {b}, got %+v", groups[1])
	}
	if len(groups[2].Calls) != 1 || groups[2].Calls[0].ToolCallID != "d" {
		t.Fatalf("expected group 2 = {d}, got %+v", groups[2])
	}
}

func TestOrderToolCalls_NoDropNoDuplicate(t *testing.T) {
	tools := map[string]ToolDescriptor{}
	calls := []OrderedToolCall{call("x", "X"), call("y", "Y", "x"), call("z", "Z", "missing-id")}

	groups := OrderToolCalls(calls, tools)
	seen := map[string]int{}
	for _, g := range groups {
		for _, c := range g.Calls {
			seen[c.ToolCallID]++
		}
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 distinct calls, got %v", seen)
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("call %s appeared %d times", id, count)
		}
	}
}

func TestOrderToolCalls_VacuousAfter(t *testing.T) {
	calls := []OrderedToolCall{call("z", "Z", "does-not-exist")}
	groups := OrderToolCalls(calls, map[string]ToolDescriptor{})
	if len(groups) != 1 || len(groups[0].Calls) != 1 {
		t.Fatalf("expected a single immediate group, got %+v", groups)
	}
}

func TestOrderToolCalls_CycleStillEmitsAll(t *testing.T) {
	calls := []OrderedToolCall{call("a", "A", "b"), call("b", "B", "a")}
	groups := OrderToolCalls(calls, map[string]ToolDescriptor{})

	total := 0
	for _, g := range groups {
		total += len(g.Calls)
	}
	if total != 2 {
		t.Fatalf("expected both cyclic calls to appear, got %d", total)
	}
}

func TestOrderToolCalls_SingleSequentialToolIsBarrier(t *testing.T) {
	tools := map[string]ToolDescriptor{"S": {Name: "S", Sequential: true}}
	calls := []OrderedToolCall{call("s1", "S")}
	groups := OrderToolCalls(calls, tools)
	if len(groups) != 1 || !groups[0].IsBarrier {
		t.Fatalf("expected one barrier group, got %+v", groups)
	}
}

func TestOrderToolCalls_Idempotent(t *testing.T) {
	tools := map[string]ToolDescriptor{
		"A": {Name: "A"},
		"B": {Name: "B"},
		"D": {Name: "D", DependsOn: []string{"A", "B"}},
	}
	calls := []OrderedToolCall{call("a", "A"), call("b", "B"), call("d", "D")}
	groups := OrderToolCalls(calls, tools)

	var flattened []OrderedToolCall
	for _, g := range groups {
		flattened = append(flattened, g.Calls...)
	}
	again := OrderToolCalls(flattened, tools)

	totalA, totalB := 0, 0
	for _, g := range groups {
		totalA += len(g.Calls)
	}
	for _, g := range again {
		totalB += len(g.Calls)
	}
	if totalA != totalB {
		t.Fatalf("expected idempotent call count, got %d vs %d", totalA, totalB)
	}
}

func TestExecuteOrderedToolCalls_MissingToolNotFound(t *testing.T) {
	calls := []OrderedToolCall{call("a", "ghost")}
	results := ExecuteOrderedToolCalls(context.Background(), calls, map[string]ToolDescriptor{}, nil)
	if len(results) != 1 || !results[0].IsError {
		t.Fatalf("expected one error result, got %+v", results)
	}
	if results[0].Error == "" {
		t.Fatal("expected non-empty error message")
	}
}

func TestExecuteOrderedToolCalls_SiblingsNotCancelled(t *testing.T) {
	tools := map[string]ToolDescriptor{"A": {Name: "A"}, "B": {Name: "B"}}
	calls := []OrderedToolCall{call("a", "A"), call("b", "B")}

	runner := func(ctx context.Context, c ToolCall) (string, error) {
		if c.ToolName == "A" {
			return "", context.DeadlineExceeded
		}
		return "ok", nil
	}

	results := ExecuteOrderedToolCalls(context.Background(), calls, tools, runner)
	if len(results) != 2 {
		t.Fatalf("expected both calls to complete, got %d", len(results))
	}
	var okSeen, errSeen bool
	for _, r := range results {
		if r.IsError {
			errSeen = true
		} else {
			okSeen = true
		}
	}
	if !okSeen || !errSeen {
		t.Fatalf("expected one error and one success, got %+v", results)
	}
}
