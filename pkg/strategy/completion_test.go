package strategy

import (
	"context"
	"testing"

	"github.com/kadirpekel/agentcore/pkg/llm"
	"github.com/kadirpekel/agentcore/pkg/state"
)

func TestAssessTaskCompletion_ParsesJSON(t *testing.T) {
	provider := &fakeProvider{turns: []llm.Turn{
		{Response: llm.Response{Text: `{"is_complete":true,"confidence":0.9,"missing_actions":[],"quality":"good","recommendation":"stop","reasoning":"done"}`}},
	}}

	assessment, err := AssessTaskCompletion(context.Background(), provider, "do the thing", "did the thing")
	if err != nil {
		t.Fatalf("AssessTaskCompletion returned error: %v", err)
	}
	if !assessment.IsComplete || assessment.Recommendation != "stop" {
		t.Errorf("got %+v, want IsComplete=true, Recommendation=stop", assessment)
	}
}

func TestAssessTaskCompletion_FallsBackOnUnparsableResponse(t *testing.T) {
	provider := &fakeProvider{turns: []llm.Turn{
		{Response: llm.Response{Text: "not json"}},
	}}

	assessment, err := AssessTaskCompletion(context.Background(), provider, "q", "r")
	if err != nil {
		t.Fatalf("AssessTaskCompletion returned error: %v", err)
	}
	if !assessment.IsComplete || assessment.Recommendation != "stop" {
		t.Errorf("expected fallback-to-complete assessment, got %+v", assessment)
	}
}

func TestNewCompletionStopCondition_StopsOnRecommendation(t *testing.T) {
	provider := &fakeProvider{turns: []llm.Turn{
		{Response: llm.Response{Text: `{"is_complete":true,"confidence":0.9,"missing_actions":[],"quality":"good","recommendation":"stop","reasoning":"done"}`}},
	}}

	stop := NewCompletionStopCondition(context.Background(), provider, "do the thing")
	s := state.Initial().WithMessage(llm.Message{Role: "assistant", Content: "did the thing"})

	if !stop(s) {
		t.Error("expected stop condition to report true on a stop recommendation")
	}
}

func TestNewCompletionStopCondition_ContinuesOnRecommendation(t *testing.T) {
	provider := &fakeProvider{turns: []llm.Turn{
		{Response: llm.Response{Text: `{"is_complete":false,"confidence":0.4,"missing_actions":["send email"],"quality":"needs_improvement","recommendation":"continue","reasoning":"partial"}`}},
	}}

	stop := NewCompletionStopCondition(context.Background(), provider, "do two things")
	s := state.Initial().WithMessage(llm.Message{Role: "assistant", Content: "did one thing"})

	if stop(s) {
		t.Error("expected stop condition to report false on a continue recommendation")
	}
}
