package core

import "fmt"

// Tool-call chain validation.
//
// Chat APIs that support tool calling require that any assistant message
// requesting tool calls is immediately followed, before any other message, by
// tool-role responses matching every requested call id. Two places can break
// that pairing: a scope transition in the middle of a pending call, and
// context composition over a working memory that still contains an unfinished
// chain. The helpers here are pure functions over message slices consulted by
// both the store (on scope switches) and the composer (on output).

// ToolChainIntegrityError reports an unrecoverable message ordering violation:
// an incomplete chain in the interior of a sequence, or a tool response with
// no preceding assistant request.
type ToolChainIntegrityError struct {
	Index  int    // Position of the offending message
	Reason string
}

func (e *ToolChainIntegrityError) Error() string {
	return fmt.Sprintf("tool chain integrity violation at message %d: %s", e.Index, e.Reason)
}

// PendingChain returns the trailing suffix of messages representing an
// assistant tool-call request with responses still outstanding, or nil when
// the sequence ends in a settled state.
func PendingChain(messages []Message) []Message {
	start := pendingChainStart(messages)
	if start < 0 {
		return nil
	}
	return copyMessages(messages[start:])
}

// SplitPendingChain separates messages into the retained prefix and the
// pending trailing chain. The pending part is what a scope transition carries
// into the destination so a tool call in flight is never silently dropped.
func SplitPendingChain(messages []Message) (retained, pending []Message) {
	start := pendingChainStart(messages)
	if start < 0 {
		return messages, nil
	}
	return messages[:start], messages[start:]
}

// StripIncomplete removes chain fragments that would violate the API
// contract: interior incomplete chains (together with their partial
// responses) and orphaned tool responses. A trailing incomplete chain is left
// intact since the caller is expected to supply the missing tool response
// next. The input slice is not modified.
func StripIncomplete(messages []Message) []Message {
	out := make([]Message, 0, len(messages))
	i := 0
	for i < len(messages) {
		m := messages[i]
		if m.Role == RoleTool {
			// Orphaned response: no assistant request consumed it.
			i++
			continue
		}
		if !m.HasToolCalls() {
			out = append(out, m)
			i++
			continue
		}
		j := i + 1
		responded := map[string]bool{}
		for j < len(messages) && messages[j].Role == RoleTool {
			responded[messages[j].ToolCallID] = true
			j++
		}
		if chainComplete(m, responded) || j == len(messages) {
			out = append(out, messages[i:j]...)
		}
		i = j
	}
	return out
}

// Check reports the first ordering violation StripIncomplete would repair by
// removal. Useful for diagnostics; composition itself never fails.
func Check(messages []Message) error {
	i := 0
	for i < len(messages) {
		m := messages[i]
		if m.Role == RoleTool {
			return &ToolChainIntegrityError{Index: i, Reason: "tool response without preceding assistant request"}
		}
		if !m.HasToolCalls() {
			i++
			continue
		}
		j := i + 1
		responded := map[string]bool{}
		for j < len(messages) && messages[j].Role == RoleTool {
			responded[messages[j].ToolCallID] = true
			j++
		}
		if !chainComplete(m, responded) && j < len(messages) {
			return &ToolChainIntegrityError{Index: i, Reason: "incomplete tool-call chain in message interior"}
		}
		i = j
	}
	return nil
}

// pendingChainStart returns the index where a trailing pending chain begins,
// or -1 when the sequence ends settled.
func pendingChainStart(messages []Message) int {
	i := len(messages) - 1
	responded := map[string]bool{}
	for i >= 0 && messages[i].Role == RoleTool {
		responded[messages[i].ToolCallID] = true
		i--
	}
	if i < 0 || !messages[i].HasToolCalls() {
		return -1
	}
	if chainComplete(messages[i], responded) {
		return -1
	}
	return i
}

func chainComplete(request Message, responded map[string]bool) bool {
	for _, id := range request.ToolCallIDs() {
		if !responded[id] {
			return false
		}
	}
	return true
}
