// Package token provides lightweight token accounting for conversation
// contexts. Counts are heuristic estimates, roughly four characters per
// token, which is close enough to drive policies and usage warnings
// without pulling in a model-specific tokenizer.
package token

import (
	"fmt"
	"strings"

	"github.com/hupe1980/scopemesh/core"
)

// Per-message structure overhead and reply priming, matching the
// chat-markup framing tokens OpenAI documents for its chat models.
const (
	messageOverhead = 4
	replyPriming    = 3
)

// Estimate returns a rough token count for a piece of text.
func Estimate(text string) int {
	if n := len(text) / 4; n > 1 {
		return n
	}

	return 1
}

// MessageTokens estimates the token cost of a single message, including
// role and tool call payloads.
func MessageTokens(message core.Message) int {
	var sb strings.Builder

	sb.WriteString(message.Content)
	sb.WriteString(message.Role)
	sb.WriteString(message.Name)

	for _, tc := range message.ToolCalls {
		sb.WriteString(tc.Function.Name)
		sb.WriteString(tc.Function.Arguments)
	}

	return Estimate(sb.String()) + messageOverhead
}

// ContextTokens estimates the total token cost of a message list,
// including the reply priming overhead.
func ContextTokens(messages []core.Message) int {
	total := replyPriming

	for _, m := range messages {
		total += MessageTokens(m)
	}

	return total
}

// ContextLimit returns the context window size for a model name. Unknown
// models fall back to a 128k window.
func ContextLimit(model string) int {
	limits := map[string]int{
		"gpt-4o":          128000,
		"gpt-4o-mini":     128000,
		"gpt-4-turbo":     128000,
		"gpt-4":           8192,
		"gpt-3.5-turbo":   16385,
		"claude-3-opus":   200000,
		"claude-3-sonnet": 200000,
		"claude-3-haiku":  200000,
		"claude-sonnet-4": 200000,
		"claude-opus-4":   200000,
	}

	lower := strings.ToLower(model)
	for key, limit := range limits {
		if strings.Contains(lower, key) {
			return limit
		}
	}

	return 128000
}

// Stats summarizes a tracker's token accounting.
type Stats struct {
	Model          string  `json:"model"`
	ContextLimit   int     `json:"contextLimit"`
	CurrentContext int     `json:"currentContext"`
	UsagePercent   float64 `json:"usagePercent"`
	Remaining      int     `json:"remaining"`
	TotalInput     int     `json:"totalInput"`
	TotalOutput    int     `json:"totalOutput"`
	Total          int     `json:"total"`
}

// Tracker accumulates token usage across a conversation and reports how
// close the current context is to the model's window.
type Tracker struct {
	model          string
	contextLimit   int
	totalInput     int
	totalOutput    int
	currentContext int
}

// NewTracker creates a tracker for the given model name.
func NewTracker(model string) *Tracker {
	return &Tracker{
		model:        model,
		contextLimit: ContextLimit(model),
	}
}

// UpdateContext recomputes the current context size from a message list.
func (t *Tracker) UpdateContext(messages []core.Message) int {
	t.currentContext = ContextTokens(messages)
	return t.currentContext
}

// AddUsage records reported input and output token counts.
func (t *Tracker) AddUsage(input, output int) {
	t.totalInput += input
	t.totalOutput += output
}

// UsagePercent returns the current context size as a fraction of the
// model's window, in percent.
func (t *Tracker) UsagePercent() float64 {
	return float64(t.currentContext) / float64(t.contextLimit) * 100
}

// Remaining returns the tokens left in the context window.
func (t *Tracker) Remaining() int {
	return t.contextLimit - t.currentContext
}

// NearLimit reports whether context usage has crossed the given
// threshold, e.g. 0.8 for 80 percent.
func (t *Tracker) NearLimit(threshold float64) bool {
	return t.UsagePercent() >= threshold*100
}

// Stats returns a snapshot of the tracker's counters.
func (t *Tracker) Stats() Stats {
	return Stats{
		Model:          t.model,
		ContextLimit:   t.contextLimit,
		CurrentContext: t.currentContext,
		UsagePercent:   t.UsagePercent(),
		Remaining:      t.Remaining(),
		TotalInput:     t.totalInput,
		TotalOutput:    t.totalOutput,
		Total:          t.totalInput + t.totalOutput,
	}
}

// String implements the fmt.Stringer interface.
func (t *Tracker) String() string {
	return fmt.Sprintf("Tracker(model=%s, context=%d/%d (%.1f%%), total=%d)",
		t.model, t.currentContext, t.contextLimit, t.UsagePercent(), t.totalInput+t.totalOutput)
}
