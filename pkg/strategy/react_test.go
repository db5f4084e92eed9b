package strategy

import (
	"context"
	"testing"

	"github.com/kadirpekel/agentcore/pkg/llm"
	"github.com/kadirpekel/agentcore/pkg/state"
)

func TestReact_OneCycle(t *testing.T) {
	provider := &fakeProvider{turns: []llm.Turn{
		{Response: llm.Response{Text: "I should just answer directly"}}, // reasoning phase
		{Response: llm.Response{Text: "final answer"}},                  // action phase
	}}

	r := NewReact(ReactOptions{})
	ec := ExecutionContext{Agent: AgentInfo{ID: "a1"}, LLM: provider, State: state.Initial()}

	res, err := r.Execute(context.Background(), ec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.State.Step() != 1 {
		t.Fatalf("expected step 1, got %d", res.State.Step())
	}
	reasoning := res.State.Reasoning()
	if len(reasoning) != 1 || reasoning[0] != "I should just answer directly" {
		t.Fatalf("unexpected reasoning trace: %+v", reasoning)
	}
	if res.Turn.Response.Text != "final answer" {
		t.Fatalf("unexpected final turn: %+v", res.Turn)
	}
}

func TestReact_MaxSteps(t *testing.T) {
	provider := &fakeProvider{turns: []llm.Turn{
		{Response: llm.Response{Text: "thinking"}},
		{Response: llm.Response{HasToolCalls: true, ToolCalls: []llm.ToolCall{{ID: "1", Name: "noop"}}}},
	}}

	r := NewReact(ReactOptions{MaxSteps: 2})
	ec := ExecutionContext{Agent: AgentInfo{ID: "a1"}, LLM: provider, State: state.Initial()}

	res, err := r.Execute(context.Background(), ec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.State.Step() != 2 {
		t.Fatalf("expected exactly 2 react steps, got %d", res.State.Step())
	}
	if len(res.State.Reasoning()) != 2 {
		t.Fatalf("expected 2 reasoning entries, got %d", len(res.State.Reasoning()))
	}
}
