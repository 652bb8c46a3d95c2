package tool

import (
	"context"

	"github.com/hupe1980/scopemesh/command"
)

// ContextToolName is the function name under which the context tool is
// exposed to models.
const ContextToolName = "ctx"

const contextToolDescription = `Context management CLI. Use this to manage your working memory and episodic memory.

COMMANDS:

  note -m "<text>"
    Save current reasoning state. Clears working memory, stores the text as episodic memory.
    WHEN TO USE: After completing a subtask, before context gets too large.
    Example: ctx note -m "Identified bug in JSON parser, root cause is unescaped quotes"

  scope <name> -m "<text>"
    Create a new isolated scope and switch to it. The text explains what you'll do there.
    WHEN TO USE: Starting a new isolated subtask that should not pollute current context.
    Example: ctx scope fix-parser -m "Going to fix the JSON parser bug"

  goto <name> -m "<text>"
    Switch to an existing scope. The text explains the transition.
    WHEN TO USE: Returning to previous work, e.g. goto main after finishing a subtask.
    Example: ctx goto main -m "Parser fixed, all tests pass"

  scopes
    List all scopes with note and message counts.

  notes [scope]
    Show the note log for the current scope, or a named one.

WORKFLOW:
1. Work on a task, accumulating messages in working memory
2. When a subtask is complete, record a note with a meaningful summary
3. For new isolated subtasks, create a scope with a transition note
4. Return with goto, summarizing what you accomplished`

// ContextTool exposes a command dispatcher as a callable tool so models
// can manage their own context through the command grammar.
type ContextTool struct {
	dispatcher *command.Dispatcher
}

// NewContextTool creates a tool wrapping the given dispatcher.
func NewContextTool(dispatcher *command.Dispatcher) *ContextTool {
	return &ContextTool{dispatcher: dispatcher}
}

// Name returns the unique identifier for this tool.
func (t *ContextTool) Name() string { return ContextToolName }

// Description returns the usage guidance provided to the LLM.
func (t *ContextTool) Description() string { return contextToolDescription }

// Parameters returns a JSON schema describing the expected input format.
func (t *ContextTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"command": map[string]any{
				"type":        "string",
				"description": `The command to execute, e.g. 'note -m "summary"' or 'scope research -m "explore options"'`,
			},
		},
		"required": []string{"command"},
	}
}

// Call dispatches the command and returns the textual result. Command
// failures are reported in the result text, never as an error, so the
// model always receives feedback it can react to.
func (t *ContextTool) Call(_ context.Context, args map[string]any) (any, error) {
	raw, ok := args["command"].(string)
	if !ok {
		return nil, &ToolError{
			Tool:    ContextToolName,
			Message: "expected a string 'command' argument",
			Code:    CodeValidationError,
		}
	}

	result, _ := t.dispatcher.Dispatch(raw)

	return result, nil
}
