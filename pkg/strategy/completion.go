package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kadirpekel/agentcore/pkg/llm"
	"github.com/kadirpekel/agentcore/pkg/state"
)

// CompletionAssessment is the LLM's structured judgment of whether a task
// is truly finished, rather than trusting "no tool calls" alone.
type CompletionAssessment struct {
	IsComplete     bool     `json:"is_complete"`
	Confidence     float64  `json:"confidence"`
	MissingActions []string `json:"missing_actions"`
	Quality        string   `json:"quality"`
	Recommendation string   `json:"recommendation"`
	Reasoning      string   `json:"reasoning"`
}

// fallbackAssessment is returned whenever the assessment call itself
// cannot be trusted (decode failure, provider error): assume complete
// rather than loop forever on an unreadable answer.
func fallbackAssessment(reason string) *CompletionAssessment {
	return &CompletionAssessment{
		IsComplete:     true,
		Confidence:     0.7,
		MissingActions: []string{},
		Quality:        "good",
		Recommendation: "stop",
		Reasoning:      reason,
	}
}

// AssessTaskCompletion asks the model whether originalQuery has been fully
// addressed by assistantResponse, returning a fallback "complete" assessment
// if the call or the decode fails.
func AssessTaskCompletion(ctx context.Context, provider llm.Provider, originalQuery, assistantResponse string) (*CompletionAssessment, error) {
	messages := []llm.Message{{Role: "user", Content: completionPrompt(originalQuery, assistantResponse)}}

	turn, err := provider.Generate(ctx, messages, nil)
	if err != nil {
		return fallbackAssessment("error during assessment; assuming complete"), nil
	}

	var assessment CompletionAssessment
	if err := json.Unmarshal([]byte(turn.Response.Text), &assessment); err != nil {
		return fallbackAssessment("failed to parse assessment; assuming complete"), nil
	}
	return &assessment, nil
}

func completionPrompt(originalQuery, assistantResponse string) string {
	return fmt.Sprintf(`You are evaluating whether an AI agent has fully completed a user's request.

Original request:
%s

Agent's response:
%s

Assess whether the request is truly satisfied. Reply as JSON with fields
is_complete, confidence, missing_actions, quality ("excellent"|"good"|
"needs_improvement"), recommendation ("stop"|"continue"|"clarify"), reasoning.`, originalQuery, assistantResponse)
}

// NewCompletionStopCondition adapts AssessTaskCompletion into a
// Hooks.StopCondition: it reads the last assistant message out of the
// state, asks the model to assess completion, and stops exactly when the
// recommendation is "stop" (Confidence is not consulted). Assessment errors
// default to stopping,
// matching AssessTaskCompletion's own fallback.
func NewCompletionStopCondition(ctx context.Context, provider llm.Provider, originalQuery string) func(s state.State) bool {
	return func(s state.State) bool {
		messages := s.Messages()
		last := ""
		for i := len(messages) - 1; i >= 0; i-- {
			if messages[i].Role == "assistant" {
				last = messages[i].Content
				break
			}
		}
		assessment, _ := AssessTaskCompletion(ctx, provider, originalQuery, last)
		return assessment.Recommendation == "stop"
	}
}
