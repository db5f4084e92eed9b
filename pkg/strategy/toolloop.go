package strategy

import (
	"context"
	"sort"

	"github.com/kadirpekel/agentcore/pkg/llm"
	"github.com/kadirpekel/agentcore/pkg/scheduler"
	"github.com/kadirpekel/agentcore/pkg/tool"
)

// toolDefinitions projects ec.Tools into provider-facing definitions in a
// stable (sorted-by-name) order.
func toolDefinitions(tools map[string]tool.Tool) []llm.ToolDefinition {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return tool.Definitions(tools, names)
}

// runToolCalls executes a Turn's requested tool calls through the
// scheduler when the provider reported calls but did not already resolve
// them internally (an externally driven tool loop). If the provider
// already populated ToolExecutions (its own internal tool loop ran), the
// turn passes through unchanged.
func runToolCalls(ctx context.Context, ec ExecutionContext, turn llm.Turn) llm.Turn {
	if !turn.Response.HasToolCalls || len(turn.ToolExecutions) > 0 || len(ec.Tools) == 0 {
		return turn
	}

	calls := make([]scheduler.OrderedToolCall, 0, len(turn.Response.ToolCalls))
	for _, tc := range turn.Response.ToolCalls {
		calls = append(calls, scheduler.OrderedToolCall{
			ToolCall: scheduler.ToolCall{ToolCallID: tc.ID, ToolName: tc.Name, Arguments: tc.Arguments},
		})
	}

	descriptors := tool.SchedulerDescriptors(ec.Tools)
	results := scheduler.ExecuteOrderedToolCalls(ctx, calls, descriptors, nil)

	executions := make([]llm.ToolExecution, 0, len(results))
	messages := make([]llm.Message, 0, len(results))
	for _, r := range results {
		executions = append(executions, llm.ToolExecution{
			ToolCallID: r.ToolCallID,
			ToolName:   r.ToolName,
			Result:     r.Result,
			IsError:    r.IsError,
			Error:      r.Error,
		})
		content := r.Result
		if r.IsError {
			content = r.Error
		}
		messages = append(messages, llm.Message{
			Role:       "tool",
			Content:    content,
			ToolCallID: r.ToolCallID,
			Name:       r.ToolName,
		})
	}

	turn.ToolExecutions = executions
	turn.Messages = append(turn.Messages, messages...)
	return turn
}
