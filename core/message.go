package core

// Conversation roles understood by chat-completion style APIs.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCallFunction describes the concrete function target of a tool call.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"` // Serialized argument payload (JSON)
}

// ToolCall represents a function call request surfaced by a model provider.
// Unified across vendors so downstream logic does not need per-provider branching.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"` // "function"
	Function ToolCallFunction `json:"function"`
}

// Message is a single conversational turn in a scope's working memory.
// Messages are ephemeral: they belong to exactly one scope and may be cleared
// as a whole, never partially rewritten or reordered. The JSON shape matches
// what chat-completion style APIs expect.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // Links a tool turn to the assistant turn that requested it
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // Requests an assistant turn is waiting on
	Name       string     `json:"name,omitempty"`
}

// NewSystemMessage creates a system-role message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user-role message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant-role message, optionally carrying
// pending tool call requests.
func NewAssistantMessage(content string, toolCalls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: toolCalls}
}

// NewToolMessage creates a tool-role response bound to the originating call id.
func NewToolMessage(toolCallID, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: toolCallID}
}

// HasToolCalls reports whether this is an assistant turn waiting on tool responses.
func (m Message) HasToolCalls() bool {
	return m.Role == RoleAssistant && len(m.ToolCalls) > 0
}

// ToolCallIDs returns the call ids requested by this turn in original order.
func (m Message) ToolCallIDs() []string {
	if len(m.ToolCalls) == 0 {
		return nil
	}
	ids := make([]string, 0, len(m.ToolCalls))
	for _, tc := range m.ToolCalls {
		ids = append(ids, tc.ID)
	}
	return ids
}

// copyMessages returns a shallow copy of the slice so callers cannot mutate
// store-internal state through a returned view.
func copyMessages(messages []Message) []Message {
	if messages == nil {
		return nil
	}
	out := make([]Message, len(messages))
	copy(out, messages)
	return out
}
