package policy

import (
	"fmt"

	"github.com/hupe1980/scopemesh/core"
	"github.com/hupe1980/scopemesh/token"
)

// Action is the kind of intervention a triggered policy asks for.
type Action string

const (
	// ActionWarn adds an advisory system message to the context.
	ActionWarn Action = "warn"
	// ActionSuggestNote asks the agent to record a note soon.
	ActionSuggestNote Action = "suggest_note"
	// ActionForceNote records a note on the agent's behalf.
	ActionForceNote Action = "force_note"
	// ActionBlock prevents adding more messages until a note is recorded.
	ActionBlock Action = "block"
)

// Result is the outcome of evaluating a single policy.
type Result struct {
	Triggered bool
	Action    Action
	Message   string
	AutoNote  string
}

// Policy inspects a store and decides whether intervention is needed.
type Policy interface {
	// Name returns a stable identifier for the policy.
	Name() string

	// Evaluate checks the store's current scope against the policy.
	Evaluate(store *core.Store) Result
}

// MaxMessages triggers when the working message count of the current
// scope crosses a threshold.
type MaxMessages struct {
	// Max is the message count at which the policy triggers.
	Max int
	// WarnAt is the count at which a softer warning fires.
	WarnAt int
	// Action taken when Max is reached. Defaults to ActionSuggestNote.
	Action Action
}

// NewMaxMessages creates a MaxMessages policy with default thresholds.
func NewMaxMessages(optFns ...func(p *MaxMessages)) *MaxMessages {
	p := &MaxMessages{
		Max:    20,
		WarnAt: 15,
		Action: ActionSuggestNote,
	}

	for _, fn := range optFns {
		fn(p)
	}

	return p
}

// Name returns a stable identifier for the policy.
func (p *MaxMessages) Name() string { return "max_messages" }

// Evaluate checks the store's current scope against the policy.
func (p *MaxMessages) Evaluate(store *core.Store) Result {
	sc, ok := store.Scope(store.CurrentScope())
	if !ok {
		return Result{}
	}

	count := len(sc.Messages)

	if count >= p.Max {
		return Result{
			Triggered: true,
			Action:    p.Action,
			Message: fmt.Sprintf("[POLICY] Working memory has %d messages (max: %d). "+
				"Consider recording a note to preserve your reasoning.", count, p.Max),
			AutoNote: fmt.Sprintf("Auto-note: %d messages accumulated", count),
		}
	}

	if count >= p.WarnAt {
		return Result{
			Triggered: true,
			Action:    ActionWarn,
			Message:   fmt.Sprintf("[POLICY] Working memory approaching limit: %d/%d messages.", count, p.Max),
		}
	}

	return Result{}
}

// MaxTokens triggers when the estimated token size of the current
// scope's working messages crosses a threshold.
type MaxTokens struct {
	// Max is the estimated token count at which the policy triggers.
	Max int
	// WarnAt is the count at which a softer warning fires.
	WarnAt int
	// Action taken when Max is reached. Defaults to ActionSuggestNote.
	Action Action
}

// NewMaxTokens creates a MaxTokens policy with default thresholds.
func NewMaxTokens(optFns ...func(p *MaxTokens)) *MaxTokens {
	p := &MaxTokens{
		Max:    50000,
		WarnAt: 40000,
		Action: ActionSuggestNote,
	}

	for _, fn := range optFns {
		fn(p)
	}

	return p
}

// Name returns a stable identifier for the policy.
func (p *MaxTokens) Name() string { return "max_tokens" }

// Evaluate checks the store's current scope against the policy.
func (p *MaxTokens) Evaluate(store *core.Store) Result {
	sc, ok := store.Scope(store.CurrentScope())
	if !ok {
		return Result{}
	}

	estimated := token.ContextTokens(sc.Messages)

	if estimated >= p.Max {
		return Result{
			Triggered: true,
			Action:    p.Action,
			Message: fmt.Sprintf("[POLICY] Context has ~%d tokens (max: %d). "+
				"Record a note now to avoid overflow.", estimated, p.Max),
			AutoNote: fmt.Sprintf("Auto-note: ~%d tokens accumulated", estimated),
		}
	}

	if estimated >= p.WarnAt {
		return Result{
			Triggered: true,
			Action:    ActionWarn,
			Message:   fmt.Sprintf("[POLICY] Context approaching limit: ~%d/%d tokens.", estimated, p.Max),
		}
	}

	return Result{}
}

// SinceLastNote triggers when the current scope keeps accumulating
// messages without recording new notes. It only fires for scopes that
// already have at least one note, encouraging regular checkpointing.
type SinceLastNote struct {
	// Max is the message count since the last note that triggers.
	Max int
}

// NewSinceLastNote creates a SinceLastNote policy with default thresholds.
func NewSinceLastNote(optFns ...func(p *SinceLastNote)) *SinceLastNote {
	p := &SinceLastNote{Max: 10}

	for _, fn := range optFns {
		fn(p)
	}

	return p
}

// Name returns a stable identifier for the policy.
func (p *SinceLastNote) Name() string { return "since_last_note" }

// Evaluate checks the store's current scope against the policy.
func (p *SinceLastNote) Evaluate(store *core.Store) Result {
	sc, ok := store.Scope(store.CurrentScope())
	if !ok {
		return Result{}
	}

	count := len(sc.Messages)

	if count >= p.Max && len(sc.Notes) > 0 {
		return Result{
			Triggered: true,
			Action:    ActionSuggestNote,
			Message: fmt.Sprintf("[POLICY] %d messages since last note. "+
				"Consider recording a note to checkpoint your progress.", count),
			AutoNote: fmt.Sprintf("Checkpoint: %d messages since last note", count),
		}
	}

	return Result{}
}

// NoNote warns when a scope has accumulated messages but never recorded
// a note, so work is saved before switching scopes.
type NoNote struct {
	// Min is the message count at which the warning fires.
	Min int
}

// NewNoNote creates a NoNote policy with default thresholds.
func NewNoNote(optFns ...func(p *NoNote)) *NoNote {
	p := &NoNote{Min: 5}

	for _, fn := range optFns {
		fn(p)
	}

	return p
}

// Name returns a stable identifier for the policy.
func (p *NoNote) Name() string { return "no_note" }

// Evaluate checks the store's current scope against the policy.
func (p *NoNote) Evaluate(store *core.Store) Result {
	sc, ok := store.Scope(store.CurrentScope())
	if !ok {
		return Result{}
	}

	if len(sc.Notes) == 0 && len(sc.Messages) >= p.Min {
		return Result{
			Triggered: true,
			Action:    ActionWarn,
			Message: fmt.Sprintf("[POLICY] Scope '%s' has no notes yet. "+
				"Consider recording one before switching scopes.", store.CurrentScope()),
		}
	}

	return Result{}
}
