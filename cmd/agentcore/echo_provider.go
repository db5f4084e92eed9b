package main

import (
	"context"

	"github.com/kadirpekel/agentcore/pkg/llm"
)

// echoProvider is a deterministic in-process stand-in for a real model
// backend: it never calls tools and just reflects the last user message
// back prefixed with "echo: ". There is no concrete LLM provider in this
// core's scope, so the CLI demo needs something to drive strategies with.
type echoProvider struct{}

func newEchoProvider() *echoProvider {
	return &echoProvider{}
}

func (p *echoProvider) Generate(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition) (*llm.Turn, error) {
	last := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			last = messages[i].Content
			break
		}
	}
	return &llm.Turn{Response: llm.Response{Text: "echo: " + last}}, nil
}

func (p *echoProvider) Stream(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition) (*llm.StreamHandle, error) {
	turn, err := p.Generate(ctx, messages, tools)
	if err != nil {
		return nil, err
	}
	ch := make(chan llm.StreamEvent, 1)
	ch <- llm.StreamEvent{Type: "text", Text: turn.Response.Text}
	close(ch)
	return &llm.StreamHandle{
		Events: ch,
		Turn:   func(ctx context.Context) (*llm.Turn, error) { return turn, nil },
	}, nil
}
