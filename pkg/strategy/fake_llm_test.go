package strategy

import (
	"context"

	"github.com/kadirpekel/agentcore/pkg/llm"
)

// fakeProvider replays a fixed sequence of Turns, one per Generate call. It
// is the in-process stand-in every strategy test drives — there is no real
// model backend in this package.
type fakeProvider struct {
	turns []llm.Turn
	calls int
}

func (f *fakeProvider) Generate(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition) (*llm.Turn, error) {
	if f.calls >= len(f.turns) {
		turn := f.turns[len(f.turns)-1]
		f.calls++
		return &turn, nil
	}
	turn := f.turns[f.calls]
	f.calls++
	return &turn, nil
}

func (f *fakeProvider) Stream(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition) (*llm.StreamHandle, error) {
	turn, _ := f.Generate(ctx, messages, tools)
	ch := make(chan llm.StreamEvent)
	close(ch)
	return &llm.StreamHandle{
		Events: ch,
		Turn:   func(ctx context.Context) (*llm.Turn, error) { return turn, nil },
	}, nil
}
