// Package agent implements a tool-calling agent loop that manages its
// own context through the ctx command grammar. The agent composes its
// prompt from the store's current scope, lets the model record notes and
// switch scopes, and executes user supplied tools.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hupe1980/scopemesh/command"
	"github.com/hupe1980/scopemesh/compose"
	"github.com/hupe1980/scopemesh/core"
	"github.com/hupe1980/scopemesh/logging"
	"github.com/hupe1980/scopemesh/model"
	"github.com/hupe1980/scopemesh/policy"
	"github.com/hupe1980/scopemesh/token"
	"github.com/hupe1980/scopemesh/tool"
)

// ErrMaxIterations is returned when the agent loop exceeds its
// iteration budget without producing a final response.
var ErrMaxIterations = errors.New("max iterations reached")

// DefaultSystemPrompt instructs the model on how and when to use the
// ctx tool.
const DefaultSystemPrompt = `You are an AI assistant with context management capabilities.

You have access to ctx, a tool for managing your working memory and episodic memory.
Use it proactively to keep your context clean and focused.

## Context Management Guidelines

1. **Record NOTES frequently**: After completing any subtask, record a note.
   This clears working memory but preserves learning in episodic memory.

2. **Use SCOPES for new tasks**: When starting a distinct task, create a new scope.
   Always include a transition note explaining what you'll do.

3. **Return with GOTO**: When a subtask is done, go back to the previous scope
   with a note summarizing what you accomplished.

## Token Management

Your context has a limit. ctx helps you stay under it:
- Working messages (current scope) = RAM
- Notes = Episodic memory (recent notes are shown automatically)
- When you record a note, working messages are cleared but summarized in the note

## Best Practices

- A note should capture the KEY INSIGHT or DECISION, not just "did X"
- Good: "Identified root cause: SQL injection in user input validation"
- Bad: "Analyzed the code"

- Scope transition notes should state the INTENTION for the new scope
- Good: "Going to implement input sanitization using parameterized queries"
- Bad: "Working on fix"

You are encouraged to use ctx proactively. Don't wait for the context to overflow.`

// Options configure an Agent.
type Options struct {
	// SystemPrompt is prepended to every composed context.
	SystemPrompt string
	// MaxIterations bounds the tool-calling loop.
	MaxIterations int
	// TokenWarningThreshold triggers a log warning when the composed
	// context exceeds this estimated size.
	TokenWarningThreshold int
	// KeepMessagesOnNote leaves working messages in place when the model
	// records a note.
	KeepMessagesOnNote bool
	// NoteLimit is the number of recent notes shown in the episodic
	// memory block.
	NoteLimit int
	// Policies optionally evaluates context hygiene rules each
	// iteration.
	Policies *policy.Engine
	// Logger receives loop diagnostics.
	Logger logging.Logger
}

// Agent drives a model through a tool-calling loop backed by a context
// store. The ctx tool is always registered; additional tools extend the
// agent's capabilities.
type Agent struct {
	mdl        model.Model
	store      *core.Store
	dispatcher *command.Dispatcher
	tools      map[string]tool.Tool
	defs       []model.ToolDefinition
	tracker    *token.Tracker
	logger     logging.Logger
	opts       Options
}

// New creates an agent for the given model and tools.
func New(mdl model.Model, tools []tool.Tool, optFns ...func(o *Options)) *Agent {
	opts := Options{
		SystemPrompt:          DefaultSystemPrompt,
		MaxIterations:         50,
		TokenWarningThreshold: 50000,
		NoteLimit:             compose.DefaultNoteLimit,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	logger := logging.OrNoOp(opts.Logger)

	store := core.NewStore()
	dispatcher := command.NewDispatcher(store, func(o *command.Options) {
		o.KeepMessagesOnNote = opts.KeepMessagesOnNote
		o.Logger = logger
	})

	registry := make(map[string]tool.Tool, len(tools)+1)
	ctxTool := tool.NewContextTool(dispatcher)
	registry[ctxTool.Name()] = ctxTool
	for _, t := range tools {
		registry[t.Name()] = t
	}

	defs := make([]model.ToolDefinition, 0, len(registry))
	defs = append(defs, toolDefinition(ctxTool))
	for _, t := range tools {
		defs = append(defs, toolDefinition(t))
	}

	return &Agent{
		mdl:        mdl,
		store:      store,
		dispatcher: dispatcher,
		tools:      registry,
		defs:       defs,
		tracker:    token.NewTracker(mdl.Info().Name),
		logger:     logger,
		opts:       opts,
	}
}

// Store exposes the underlying context store, e.g. for inspection after
// a run.
func (a *Agent) Store() *core.Store { return a.store }

// Run executes the agent loop for a user message. The agent calls tools
// and manages its context until the model produces a plain response or
// the iteration budget is exhausted.
func (a *Agent) Run(ctx context.Context, userMessage string) (string, error) {
	a.store.AddMessage(core.NewUserMessage(userMessage))

	for iteration := 1; iteration <= a.opts.MaxIterations; iteration++ {
		a.applyPolicies()

		messages := compose.Compose(a.store, a.opts.SystemPrompt, func(o *compose.Options) {
			o.NoteLimit = a.opts.NoteLimit
		})

		// Policy advisories ride along for this request only; they are
		// never stored.
		if a.opts.Policies != nil {
			for _, advisory := range a.opts.Policies.SystemMessages(a.store) {
				messages = append(messages, core.NewSystemMessage(advisory))
			}
		}

		if estimate := a.tracker.UpdateContext(messages); estimate > a.opts.TokenWarningThreshold {
			a.logger.Warn("agent.token_warning", "estimated_tokens", estimate, "threshold", a.opts.TokenWarningThreshold)
		}

		a.logger.Debug("agent.iteration", "n", iteration, "messages", len(messages))

		resp, err := a.mdl.Generate(ctx, model.Request{Messages: messages, Tools: a.defs})
		if err != nil {
			return "", fmt.Errorf("generate: %w", err)
		}

		if resp.Usage != nil {
			a.tracker.AddUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		}

		if len(resp.ToolCalls) == 0 {
			a.store.AddMessage(core.NewAssistantMessage(resp.Content))
			return resp.Content, nil
		}

		a.store.AddMessage(core.NewAssistantMessage(resp.Content, resp.ToolCalls...))

		for _, tc := range resp.ToolCalls {
			result := a.handleToolCall(ctx, tc)
			a.store.AddMessage(core.NewToolMessage(tc.ID, result))
		}
	}

	return "", ErrMaxIterations
}

// TokenStats returns the tracker's usage counters.
func (a *Agent) TokenStats() token.Stats { return a.tracker.Stats() }

// applyPolicies records a forced note when a strict policy demands one.
func (a *Agent) applyPolicies() {
	if a.opts.Policies == nil {
		return
	}

	if forced, note := a.opts.Policies.ShouldForceNote(a.store); forced {
		result, _ := a.dispatcher.Dispatch(fmt.Sprintf("note -m %q", note))
		a.logger.Info("agent.policy_note", "result", result)
	}
}

func (a *Agent) handleToolCall(ctx context.Context, tc core.ToolCall) string {
	name := tc.Function.Name

	t, ok := a.tools[name]
	if !ok {
		a.logger.Warn("agent.unknown_tool", "tool", name)
		return fmt.Sprintf("Error: Unknown tool '%s'", name)
	}

	args := map[string]any{}
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return fmt.Sprintf("Error: invalid tool arguments: %v", err)
		}
	}

	a.logger.Debug("agent.tool_call", "tool", name, "args", tc.Function.Arguments)

	result, err := t.Call(ctx, args)
	if err != nil {
		a.logger.Error("agent.tool_error", "tool", name, "error", err.Error())
		return fmt.Sprintf("Error: %v", err)
	}

	return fmt.Sprintf("%v", result)
}

func toolDefinition(t tool.Tool) model.ToolDefinition {
	return model.ToolDefinition{
		Type: "function",
		Function: model.FunctionDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		},
	}
}
