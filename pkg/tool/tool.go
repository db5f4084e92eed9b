// Package tool defines the tool descriptor shape strategies and the
// scheduler operate over: a name, a JSON-schema parameter description, a
// runner, and the ordering metadata the scheduler consumes.
package tool

import (
	"context"

	"github.com/kadirpekel/agentcore/pkg/llm"
	"github.com/kadirpekel/agentcore/pkg/scheduler"
)

// Runner executes a tool call and returns its textual result.
type Runner func(ctx context.Context, call llm.ToolCall) (string, error)

// Tool is the full descriptor: {name, description, parameters, run,
// sequential?, dependsOn?}.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
	Run         Runner
	Sequential  bool
	DependsOn   []string
}

// Definition projects the tool into the shape an LLM provider expects.
func (t Tool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
	}
}

// Definitions projects a tool set into provider-facing definitions, in a
// deterministic order given a name list (callers typically pass a sorted
// key list so prompts are stable across runs).
func Definitions(tools map[string]Tool, names []string) []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(names))
	for _, name := range names {
		if t, ok := tools[name]; ok {
			defs = append(defs, t.Definition())
		}
	}
	return defs
}

// SchedulerDescriptors projects a tool set into the scheduler's view: the
// ordering metadata plus an adapted runner (left nil when the tool has no
// Run, so the scheduler reports an error result for calls to it).
func SchedulerDescriptors(tools map[string]Tool) map[string]scheduler.ToolDescriptor {
	out := make(map[string]scheduler.ToolDescriptor, len(tools))
	for name, t := range tools {
		desc := scheduler.ToolDescriptor{
			Name:       t.Name,
			Sequential: t.Sequential,
			DependsOn:  t.DependsOn,
		}
		if run := t.Run; run != nil {
			desc.Run = func(ctx context.Context, call scheduler.ToolCall) (string, error) {
				return run(ctx, llm.ToolCall{ID: call.ToolCallID, Name: call.ToolName, Arguments: call.Arguments})
			}
		}
		out[name] = desc
	}
	return out
}
