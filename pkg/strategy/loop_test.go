package strategy

import (
	"context"
	"testing"

	"github.com/kadirpekel/agentcore/pkg/llm"
	"github.com/kadirpekel/agentcore/pkg/state"
	"github.com/kadirpekel/agentcore/pkg/tool"
)

func TestLoop_NoTools(t *testing.T) {
	provider := &fakeProvider{turns: []llm.Turn{
		{Response: llm.Response{Text: "hello"}},
	}}
	l := NewLoop(LoopOptions{})
	ec := ExecutionContext{Agent: AgentInfo{ID: "a1"}, LLM: provider, State: state.Initial()}

	res, err := l.Execute(context.Background(), ec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.State.Step() != 1 {
		t.Fatalf("expected step 1, got %d", res.State.Step())
	}
	if res.Turn.Response.Text != "hello" {
		t.Fatalf("unexpected turn text: %q", res.Turn.Response.Text)
	}
}

func TestLoop_OneToolRoundTrip(t *testing.T) {
	provider := &fakeProvider{turns: []llm.Turn{
		{Response: llm.Response{
			HasToolCalls: true,
			ToolCalls:    []llm.ToolCall{{ID: "1", Name: "echo", Arguments: map[string]interface{}{"msg": "hi"}}},
		}},
		{Response: llm.Response{Text: "done"}},
	}}

	called := false
	tools := map[string]tool.Tool{
		"echo": {
			Name: "echo",
			Run: func(ctx context.Context, call llm.ToolCall) (string, error) {
				called = true
				return "hi back", nil
			},
		},
	}

	l := NewLoop(LoopOptions{})
	ec := ExecutionContext{Agent: AgentInfo{ID: "a1"}, LLM: provider, State: state.Initial(), Tools: tools}

	res, err := l.Execute(context.Background(), ec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("expected tool to be called")
	}
	if res.Turn.Response.Text != "done" {
		t.Fatalf("unexpected final turn: %+v", res.Turn)
	}
	if res.State.Step() != 2 {
		t.Fatalf("expected step 2, got %d", res.State.Step())
	}
}

func TestLoop_MaxIterations(t *testing.T) {
	provider := &fakeProvider{turns: []llm.Turn{
		{Response: llm.Response{HasToolCalls: true, ToolCalls: []llm.ToolCall{{ID: "1", Name: "noop"}}}},
	}}
	tools := map[string]tool.Tool{
		"noop": {Name: "noop", Run: func(ctx context.Context, call llm.ToolCall) (string, error) { return "ok", nil }},
	}

	l := NewLoop(LoopOptions{MaxIterations: 3})
	ec := ExecutionContext{Agent: AgentInfo{ID: "a1"}, LLM: provider, State: state.Initial(), Tools: tools}

	res, err := l.Execute(context.Background(), ec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.State.Step() != 3 {
		t.Fatalf("expected exactly 3 iterations, got step %d", res.State.Step())
	}
}

func TestLoop_HookInvocationCounts(t *testing.T) {
	provider := &fakeProvider{turns: []llm.Turn{
		{Response: llm.Response{Text: "hello"}},
	}}
	var stepStarts, stepEnds, completes int
	l := NewLoop(LoopOptions{})
	ec := ExecutionContext{
		Agent: AgentInfo{ID: "a1"}, LLM: provider, State: state.Initial(),
		Hooks: Hooks{
			OnStepStart: func(step int, s state.State) error { stepStarts++; return nil },
			OnStepEnd:   func(step int, turn llm.Turn, s state.State) error { stepEnds++; return nil },
			OnComplete:  func(r Result) error { completes++; return nil },
		},
	}

	if _, err := l.Execute(context.Background(), ec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stepStarts != 1 || stepEnds != 1 || completes != 1 {
		t.Fatalf("expected 1 each, got starts=%d ends=%d completes=%d", stepStarts, stepEnds, completes)
	}
}

func TestLoop_Stream_MatchesExecute(t *testing.T) {
	newProvider := func() *fakeProvider {
		return &fakeProvider{turns: []llm.Turn{
			{Response: llm.Response{
				HasToolCalls: true,
				ToolCalls:    []llm.ToolCall{{ID: "1", Name: "echo"}},
			}},
			{Response: llm.Response{Text: "done"}},
		}}
	}
	tools := map[string]tool.Tool{
		"echo": {Name: "echo", Run: func(ctx context.Context, call llm.ToolCall) (string, error) { return "ok", nil }},
	}

	l := NewLoop(LoopOptions{})

	execEc := ExecutionContext{Agent: AgentInfo{ID: "a1"}, LLM: newProvider(), State: state.Initial(), Tools: tools}
	execRes, err := l.Execute(context.Background(), execEc)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	streamEc := ExecutionContext{Agent: AgentInfo{ID: "a1"}, LLM: newProvider(), State: state.Initial(), Tools: tools}
	handle, err := l.Stream(context.Background(), streamEc)
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	for range handle.Events {
	}
	streamRes, err := handle.Result(context.Background())
	if err != nil {
		t.Fatalf("stream result failed: %v", err)
	}

	if !state.StructurallyEqual(execRes.State, streamRes.State) {
		t.Fatalf("execute and stream states diverged: %+v vs %+v", execRes.State, streamRes.State)
	}
}
