// Package agentcore binds a model, tool set, execution strategy,
// middleware chain, and checkpoint backend into the single object calling
// code drives: generate, stream, ask, and query.
//
// The Agent owns its config plus the services it drives, generating a
// uuid.New() id at construction.
package agentcore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kadirpekel/agentcore/pkg/checkpoint"
	"github.com/kadirpekel/agentcore/pkg/llm"
	"github.com/kadirpekel/agentcore/pkg/state"
	"github.com/kadirpekel/agentcore/pkg/strategy"
	"github.com/kadirpekel/agentcore/pkg/tool"
)

// Strategy is the subset of strategy.Strategy (or a middleware.Chain
// wrapping one) the facade drives. Kept as an interface here so the
// facade doesn't care whether middleware is wrapped in.
type Strategy interface {
	Name() string
	Execute(ctx context.Context, ec strategy.ExecutionContext) (strategy.Result, error)
	Stream(ctx context.Context, ec strategy.ExecutionContext) (*strategy.StreamResult, error)
}

// Options configures a new Agent.
type Options struct {
	System             string
	LLM                llm.Provider
	Tools              map[string]tool.Tool
	Strategy           Strategy
	Hooks              strategy.Hooks
	Checkpoints        checkpoint.Checkpointer
	CheckpointInterval int
}

// Agent is the bound runtime entity: one model, one tool set, one
// strategy, driven through generate/stream/ask/query.
type Agent struct {
	id       string
	system   string
	llm      llm.Provider
	tools    map[string]tool.Tool
	strategy Strategy
	hooks    strategy.Hooks

	checkpoints        checkpoint.Checkpointer
	checkpointInterval int
}

// New constructs an Agent with a freshly generated UUIDv4 id.
func New(opts Options) *Agent {
	return &Agent{
		id:                 uuid.New().String(),
		system:             opts.System,
		llm:                opts.LLM,
		tools:              opts.Tools,
		strategy:           opts.Strategy,
		hooks:              opts.Hooks,
		checkpoints:        opts.Checkpoints,
		checkpointInterval: opts.CheckpointInterval,
	}
}

// ID returns the agent's UUIDv4 identity.
func (a *Agent) ID() string { return a.id }

// sessionID returns sessionID unchanged if non-empty; otherwise, if
// checkpoints are configured, it mints a fresh UUIDv4 so generate/stream
// always checkpoint under a stable id for the duration of one call.
func (a *Agent) sessionID(sessionID string) string {
	if sessionID != "" {
		return sessionID
	}
	if a.checkpoints == nil {
		return ""
	}
	return uuid.New().String()
}

func (a *Agent) buildExecutionContext(input string, s state.State, sessionID string) strategy.ExecutionContext {
	if input != "" {
		s = s.WithMessage(llm.Message{Role: "user", Content: input})
	}
	return strategy.ExecutionContext{
		Agent:              strategy.AgentInfo{ID: a.id, System: a.system},
		LLM:                a.llm,
		Input:              input,
		State:              s,
		Tools:              a.tools,
		Hooks:              a.hooks,
		Checkpoints:        a.checkpoints,
		SessionID:          a.sessionID(sessionID),
		CheckpointInterval: a.checkpointInterval,
	}
}

// Generate runs one strategy.Execute call: normalize input, delegate, and
// return the resulting Turn and State.
func (a *Agent) Generate(ctx context.Context, input string, s state.State, sessionID string) (strategy.Result, error) {
	ec := a.buildExecutionContext(input, s, sessionID)
	res, err := a.strategy.Execute(ctx, ec)
	if err != nil {
		return strategy.Result{}, fmt.Errorf("agentcore: generate: %w", err)
	}
	return res, nil
}

// Stream runs one strategy.Stream call with the same input normalization
// generate uses.
func (a *Agent) Stream(ctx context.Context, input string, s state.State, sessionID string) (*strategy.StreamResult, error) {
	ec := a.buildExecutionContext(input, s, sessionID)
	handle, err := a.strategy.Stream(ctx, ec)
	if err != nil {
		return nil, fmt.Errorf("agentcore: stream: %w", err)
	}
	return handle, nil
}

// Ask is an alias for Generate: the input is appended to State as a user
// message before the strategy runs, and the strategy appends the response.
func (a *Agent) Ask(ctx context.Context, input string, s state.State, sessionID string) (strategy.Result, error) {
	return a.Generate(ctx, input, s, sessionID)
}

// Query is a one-shot convenience over Generate starting from a fresh
// State, returning only the Turn.
func (a *Agent) Query(ctx context.Context, input string) (llm.Turn, error) {
	res, err := a.Generate(ctx, input, state.Initial(), "")
	if err != nil {
		return llm.Turn{}, err
	}
	return res.Turn, nil
}
