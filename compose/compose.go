// Package compose produces the exact message sequence submitted to a model
// from the state of a context store. Composition is a pure read: calling it
// twice with no intervening mutation yields identical output.
package compose

import (
	"fmt"
	"strings"

	"github.com/hupe1980/scopemesh/core"
)

// DefaultNoteLimit is the number of most recent notes injected as episodic memory.
const DefaultNoteLimit = 5

// Options configure composition.
type Options struct {
	// NoteLimit caps how many recent notes appear in the episodic memory
	// block. Zero or negative falls back to DefaultNoteLimit.
	NoteLimit int
}

// Compose builds the ordered message list for the current scope:
//
//  1. the system prompt, if non-empty
//  2. one synthetic system message carrying the most recent notes. This is
//     the only place episodic memory enters model context; note snapshots
//     never do
//  3. the scope's working messages with incomplete interior tool-call chains
//     stripped (a trailing incomplete chain stays, its response comes next)
func Compose(store *core.Store, systemPrompt string, optFns ...func(o *Options)) []core.Message {
	opts := Options{NoteLimit: DefaultNoteLimit}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.NoteLimit <= 0 {
		opts.NoteLimit = DefaultNoteLimit
	}

	sc, ok := store.Scope(store.CurrentScope())
	if !ok {
		panic(fmt.Sprintf("scopemesh: current scope '%s' missing from store", store.CurrentScope()))
	}

	var out []core.Message
	if systemPrompt != "" {
		out = append(out, core.NewSystemMessage(systemPrompt))
	}
	if len(sc.Notes) > 0 {
		out = append(out, core.NewSystemMessage(episodicBlock(sc.Notes, opts.NoteLimit)))
	}
	out = append(out, core.StripIncomplete(sc.Messages)...)
	return out
}

// episodicBlock renders the most recent notes, oldest first.
func episodicBlock(notes []core.Note, limit int) string {
	if len(notes) > limit {
		notes = notes[len(notes)-limit:]
	}
	var b strings.Builder
	b.WriteString("[EPISODIC MEMORY - Recent notes in this scope]")
	for _, n := range notes {
		fmt.Fprintf(&b, "\n- [%s] %s", n.ShortHash(), n.Message)
	}
	return b.String()
}
