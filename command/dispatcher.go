package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/scopemesh/core"
	"github.com/hupe1980/scopemesh/logging"
)

// Options configures a Dispatcher.
type Options struct {
	// KeepMessagesOnNote leaves working memory intact after a note command.
	// By default the note compresses and clears it; keeping messages defers
	// the token-bounding benefit to the next scope switch.
	KeepMessagesOnNote bool

	// Logger receives per-command debug output. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Dispatcher applies parsed commands to a context store. It is the single
// boundary between the agent's tool channel and the engine: Dispatch always
// returns a result string, even for malformed input or rejected operations,
// so the calling loop can keep the conversation alive.
type Dispatcher struct {
	store  *core.Store
	logger logging.Logger
	opts   Options
}

// NewDispatcher creates a dispatcher bound to the given store.
func NewDispatcher(store *core.Store, optFns ...func(o *Options)) *Dispatcher {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Dispatcher{store: store, logger: logging.OrNoOp(opts.Logger), opts: opts}
}

// Store returns the underlying context store.
func (d *Dispatcher) Store() *core.Store { return d.store }

// Dispatch parses and executes one command. It returns the human-readable
// result for the model plus the event emitted by a mutating command (nil for
// read-only commands and failures).
func (d *Dispatcher) Dispatch(raw string) (string, *core.Event) {
	cmd, err := Parse(raw)
	if err != nil {
		d.logger.Warn("command.rejected", "command", raw, "error", err.Error())
		return errorResult(err), nil
	}

	switch c := cmd.(type) {
	case ScopeCommand:
		return d.createScope(raw, c)
	case GotoCommand:
		return d.gotoScope(raw, c)
	case NoteCommand:
		return d.recordNote(raw, c)
	case ListScopesCommand:
		return d.listScopes(raw)
	case ListNotesCommand:
		return d.listNotes(raw, c)
	default:
		// Unreachable: Parse returns only the closed variant set above.
		return errorResult(&SyntaxError{Input: raw, Reason: "unsupported command"}), nil
	}
}

func (d *Dispatcher) createScope(raw string, c ScopeCommand) (string, *core.Event) {
	origin := d.store.CurrentScope()
	if _, err := d.store.CreateScope(c.Name, c.Note); err != nil {
		d.logger.Warn("command.failed", "command", raw, "error", err.Error())
		return errorResult(err), nil
	}
	d.store.RecordCommand(raw)
	d.logger.Info("scope.created", "scope", c.Name, "from", origin)
	return fmt.Sprintf("Switched to new scope '%s' (from '%s')", c.Name, origin), d.lastEvent()
}

func (d *Dispatcher) gotoScope(raw string, c GotoCommand) (string, *core.Event) {
	if _, err := d.store.GotoScope(c.Name, c.Note); err != nil {
		d.logger.Warn("command.failed", "command", raw, "error", err.Error())
		return errorResult(err), nil
	}
	d.store.RecordCommand(raw)
	d.logger.Info("scope.entered", "scope", c.Name)
	return fmt.Sprintf("Switched to scope '%s'", c.Name), d.lastEvent()
}

func (d *Dispatcher) recordNote(raw string, c NoteCommand) (string, *core.Event) {
	current := d.store.CurrentScope()
	sc, _ := d.store.Scope(current)

	n, err := d.store.RecordNote(current, c.Note, sc.Messages)
	if err != nil {
		d.logger.Warn("command.failed", "command", raw, "error", err.Error())
		return errorResult(err), nil
	}
	cleared := false
	if !d.opts.KeepMessagesOnNote {
		if err := d.store.ClearMessages(current); err != nil {
			return errorResult(err), nil
		}
		cleared = true
	}
	d.store.RecordCommand(raw)
	d.logger.Info("note.recorded", "scope", current, "hash", n.Hash, "messages_cleared", cleared)
	return fmt.Sprintf("[%s] %s", n.ShortHash(), n.Message), d.lastEvent()
}

func (d *Dispatcher) listScopes(raw string) (string, *core.Event) {
	var b strings.Builder
	current := d.store.CurrentScope()
	for i, name := range d.store.ScopeNames() {
		sc, _ := d.store.Scope(name)
		prefix := "  "
		if name == current {
			prefix = "* "
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s%s (%d notes, %d working messages)", prefix, name, len(sc.Notes), len(sc.Messages))
	}
	d.store.RecordCommand(raw)
	return b.String(), nil
}

func (d *Dispatcher) listNotes(raw string, c ListNotesCommand) (string, *core.Event) {
	name := c.Name
	if name == "" {
		name = d.store.CurrentScope()
	}
	sc, ok := d.store.Scope(name)
	if !ok {
		err := &core.ScopeNotFoundError{Name: name}
		d.logger.Warn("command.failed", "command", raw, "error", err.Error())
		return errorResult(err), nil
	}
	d.store.RecordCommand(raw)

	if len(sc.Notes) == 0 {
		return fmt.Sprintf("No notes in scope '%s' yet.", name), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Notes for scope '%s':", name)
	for _, n := range sc.Notes {
		fmt.Fprintf(&b, "\n  [%s] %s", n.ShortHash(), n.Message)
		fmt.Fprintf(&b, "\n    %s", n.Timestamp.Format(time.RFC3339))
	}
	return b.String(), nil
}

func (d *Dispatcher) lastEvent() *core.Event {
	ev, ok := d.store.LastEvent()
	if !ok {
		return nil
	}
	return &ev
}

func errorResult(err error) string {
	return "error: " + err.Error()
}
