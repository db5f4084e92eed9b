// Package llm defines the provider contract the runtime drives: messages,
// tool calls, and the generate/stream operations a model backend must offer.
// Concrete providers (OpenAI, Anthropic, Gemini, ...) are external
// collaborators; this package only specifies the shape they must satisfy.
package llm

import "context"

// Message is one entry in a conversation: user, assistant, or tool-result.
type Message struct {
	Role       string     `json:"role"` // "user", "assistant", "system", "tool"
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolDefinition describes a callable tool as surfaced to the model.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
	RawArgs   string                 `json:"raw_args,omitempty"`
}

// Response is the model's answer for one Turn.
type Response struct {
	Text         string
	ToolCalls    []ToolCall
	HasToolCalls bool
	Data         interface{} // structured output, when the provider decoded one
}

// ToolExecution records one tool call's outcome within a Turn.
type ToolExecution struct {
	ToolCallID string
	ToolName   string
	Result     string
	IsError    bool
	Error      string
}

// Usage reports token accounting for a Turn. The runtime passes usage
// through without interpreting it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Turn is the result of one LLM invocation, including any tool loop the
// provider ran internally before returning.
type Turn struct {
	Response       Response
	Messages       []Message
	ToolExecutions []ToolExecution
	Usage          Usage
	Cycles         int
}

// StreamEvent is one opaque event from a provider's streaming response.
// The runtime passes these through as UPP events; it never inspects them.
type StreamEvent struct {
	Type string
	Text string
	Err  error
}

// StreamHandle is a live streaming invocation: an event channel plus a
// promise for the final Turn once the stream terminates.
type StreamHandle struct {
	Events <-chan StreamEvent
	Turn   func(ctx context.Context) (*Turn, error)
}

// Provider is the contract a model backend must satisfy.
type Provider interface {
	// Generate runs one non-streaming invocation.
	Generate(ctx context.Context, messages []Message, tools []ToolDefinition) (*Turn, error)

	// Stream runs one streaming invocation.
	Stream(ctx context.Context, messages []Message, tools []ToolDefinition) (*StreamHandle, error)
}
