package policy

import "github.com/hupe1980/scopemesh/core"

// Engine evaluates a set of policies against a store and aggregates
// their results.
type Engine struct {
	policies []Policy
	disabled map[string]bool
}

// NewEngine creates an engine. Without arguments it installs the
// default policy set.
func NewEngine(policies ...Policy) *Engine {
	if len(policies) == 0 {
		policies = []Policy{
			NewMaxMessages(),
			NewMaxTokens(),
			NewSinceLastNote(),
			NewNoNote(),
		}
	}

	return &Engine{
		policies: policies,
		disabled: make(map[string]bool),
	}
}

// Add appends a policy to the engine.
func (e *Engine) Add(policy Policy) {
	e.policies = append(e.policies, policy)
}

// Disable turns off a policy by name. It returns false if no policy
// with that name is installed.
func (e *Engine) Disable(name string) bool {
	for _, p := range e.policies {
		if p.Name() == name {
			e.disabled[name] = true
			return true
		}
	}

	return false
}

// Enable turns a disabled policy back on.
func (e *Engine) Enable(name string) bool {
	for _, p := range e.policies {
		if p.Name() == name {
			delete(e.disabled, name)
			return true
		}
	}

	return false
}

// Evaluate runs all enabled policies and returns the triggered results.
func (e *Engine) Evaluate(store *core.Store) []Result {
	var results []Result

	for _, p := range e.policies {
		if e.disabled[p.Name()] {
			continue
		}

		if result := p.Evaluate(store); result.Triggered {
			results = append(results, result)
		}
	}

	return results
}

// SystemMessages returns the advisory messages of triggered warn and
// suggest-note policies, ready to inject into the context.
func (e *Engine) SystemMessages(store *core.Store) []string {
	var messages []string

	for _, r := range e.Evaluate(store) {
		if r.Message == "" {
			continue
		}

		if r.Action == ActionWarn || r.Action == ActionSuggestNote {
			messages = append(messages, r.Message)
		}
	}

	return messages
}

// ShouldForceNote reports whether any triggered policy demands an
// automatic note, and the note text to use.
func (e *Engine) ShouldForceNote(store *core.Store) (bool, string) {
	for _, r := range e.Evaluate(store) {
		if r.Action == ActionForceNote {
			return true, r.AutoNote
		}
	}

	return false, ""
}

// ShouldBlock reports whether any triggered policy blocks adding more
// messages.
func (e *Engine) ShouldBlock(store *core.Store) (bool, string) {
	for _, r := range e.Evaluate(store) {
		if r.Action == ActionBlock {
			return true, r.Message
		}
	}

	return false, ""
}

// Conservative returns an engine tuned for tight token budgets.
func Conservative() *Engine {
	return NewEngine(
		NewMaxMessages(func(p *MaxMessages) { p.Max, p.WarnAt = 15, 10 }),
		NewMaxTokens(func(p *MaxTokens) { p.Max, p.WarnAt = 30000, 20000 }),
		NewSinceLastNote(func(p *SinceLastNote) { p.Max = 5 }),
		NewNoNote(func(p *NoNote) { p.Min = 3 }),
	)
}

// Relaxed returns an engine tuned for large context windows.
func Relaxed() *Engine {
	return NewEngine(
		NewMaxMessages(func(p *MaxMessages) { p.Max, p.WarnAt = 50, 40 }),
		NewMaxTokens(func(p *MaxTokens) { p.Max, p.WarnAt = 100000, 80000 }),
		NewSinceLastNote(func(p *SinceLastNote) { p.Max = 20 }),
		NewNoNote(func(p *NoNote) { p.Min = 10 }),
	)
}

// Strict returns an engine that forces notes automatically when limits
// are reached.
func Strict() *Engine {
	return NewEngine(
		NewMaxMessages(func(p *MaxMessages) { p.Max, p.WarnAt, p.Action = 10, 7, ActionForceNote }),
		NewMaxTokens(func(p *MaxTokens) { p.Max, p.WarnAt, p.Action = 20000, 15000, ActionForceNote }),
		NewSinceLastNote(func(p *SinceLastNote) { p.Max = 5 }),
		NewNoNote(func(p *NoNote) { p.Min = 3 }),
	)
}
