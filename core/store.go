package core

import (
	"fmt"
	"strings"
	"time"
)

// MainScope is the root scope created at store initialization. It exists for
// the lifetime of the store and is never removed.
const MainScope = "main"

// Store is the aggregate root of the engine: a mapping from scope name to
// Scope, the name of the scope currently in focus, an append-only event log
// (one record per mutating command) and the raw command history.
//
// Contract:
//   - MainScope exists from construction onward
//   - the current scope name always resolves to an existing scope
//   - note hashes are unique across the whole store
//   - note logs are append-only; message lists are appended to or fully
//     cleared, never partially rewritten or reordered
//
// Accessors return defensive copies so callers cannot mutate internal state;
// all mutation goes through the primitives below. A violated invariant is a
// bug in the engine itself, not caller misuse, and panics.
type Store struct {
	scopes  map[string]*Scope
	order   []string // scope names in creation order
	current string
	events  []Event
	history []string
	noteSeq uint64
}

// NewStore creates a store holding only the main scope, which is also current.
func NewStore() *Store {
	s := &Store{scopes: map[string]*Scope{}}
	s.insertScope(MainScope)
	s.current = MainScope
	return s
}

// CurrentScope returns the name of the scope currently in focus.
func (s *Store) CurrentScope() string { return s.current }

// Scope returns a snapshot of the named scope.
func (s *Store) Scope(name string) (Scope, bool) {
	sc, ok := s.scopes[name]
	if !ok {
		return Scope{}, false
	}
	return sc.snapshot(), true
}

// ScopeNames returns all scope names in creation order.
func (s *Store) ScopeNames() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Events returns a copy of the full event log.
func (s *Store) Events() []Event {
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

// LastEvent returns the most recent event, if any.
func (s *Store) LastEvent() (Event, bool) {
	if len(s.events) == 0 {
		return Event{}, false
	}
	return s.events[len(s.events)-1], true
}

// CommandHistory returns a copy of the raw command strings applied so far.
func (s *Store) CommandHistory() []string {
	history := make([]string, len(s.history))
	copy(history, s.history)
	return history
}

// RecordCommand appends a raw command string to the history.
func (s *Store) RecordCommand(raw string) {
	s.history = append(s.history, raw)
}

// CreateScope inserts a new empty scope and switches into it. The transition
// note is appended to the origin scope before the switch: it explains why the
// agent is leaving and is not visible from the new scope. The origin keeps
// its working memory except for a pending tool-call chain, which moves into
// the new scope so the call in flight can be answered there.
func (s *Store) CreateScope(name, note string) (*Note, error) {
	if _, exists := s.scopes[name]; exists {
		return nil, &DuplicateScopeError{Name: name}
	}
	origin := s.mustCurrent()
	n := s.appendNote(origin, fmt.Sprintf("[→%s] %s", name, note), nil)

	dest := s.insertScope(name)
	carried := s.carryPendingChain(origin, dest)
	dest.HeadNote = fmt.Sprintf("[From %s] %s", origin.Name, note)
	s.current = name

	s.emit(EventScope, origin.Name, map[string]any{
		"name":      name,
		"from":      origin.Name,
		"note":      note,
		"note_hash": n.Hash,
		"carried":   carried,
	})
	return n, nil
}

// GotoScope switches into an existing scope. The supplied note is appended to
// the destination after the switch: it explains what the agent brings back,
// not why it left. A pending tool-call chain in the origin moves along.
func (s *Store) GotoScope(name, note string) (*Note, error) {
	dest, ok := s.scopes[name]
	if !ok {
		return nil, &ScopeNotFoundError{Name: name}
	}
	origin := s.mustCurrent()
	carried := 0
	if dest != origin {
		carried = s.carryPendingChain(origin, dest)
	}
	s.current = name

	n := s.appendNote(dest, fmt.Sprintf("[←%s] %s", origin.Name, note), nil)
	dest.HeadNote = fmt.Sprintf("[From %s] %s", origin.Name, note)

	s.emit(EventGoto, name, map[string]any{
		"from":      origin.Name,
		"note":      note,
		"note_hash": n.Hash,
		"carried":   carried,
	})
	return n, nil
}

// RecordNote appends an immutable note to the named scope's log. The snapshot
// preserves the working memory being compressed for later reconstruction; it
// is never sent to the model by default. Recording never clears messages:
// callers opt into that separately via ClearMessages.
func (s *Store) RecordNote(scopeName, message string, snapshot []Message) (*Note, error) {
	sc, ok := s.scopes[scopeName]
	if !ok {
		return nil, &ScopeNotFoundError{Name: scopeName}
	}
	n := s.appendNote(sc, message, copyMessages(snapshot))
	s.emit(EventNote, scopeName, map[string]any{
		"message":        message,
		"hash":           n.Hash,
		"messages_count": len(snapshot),
	})
	return n, nil
}

// ClearMessages empties the working memory of a scope. This realizes the
// token-bounding benefit after a note has been recorded; callers may instead
// keep messages until the next scope switch.
func (s *Store) ClearMessages(scopeName string) error {
	sc, ok := s.scopes[scopeName]
	if !ok {
		return &ScopeNotFoundError{Name: scopeName}
	}
	sc.Messages = nil
	return nil
}

// AppendMessage appends a conversational turn to the named scope.
func (s *Store) AppendMessage(scopeName string, message Message) error {
	sc, ok := s.scopes[scopeName]
	if !ok {
		return &ScopeNotFoundError{Name: scopeName}
	}
	sc.Messages = append(sc.Messages, message)
	return nil
}

// AddMessage appends a conversational turn to the current scope. This is the
// entry point for the external agent loop recording user/assistant/tool turns.
func (s *Store) AddMessage(message Message) {
	sc := s.mustCurrent()
	sc.Messages = append(sc.Messages, message)
}

// Status renders a human-readable summary of the current scope.
func (s *Store) Status() string {
	sc := s.mustCurrent()
	var b strings.Builder
	fmt.Fprintf(&b, "On scope: %s\n", s.current)
	fmt.Fprintf(&b, "Working messages: %d\n", len(sc.Messages))
	fmt.Fprintf(&b, "Notes: %d", len(sc.Notes))
	if sc.HeadNote != "" {
		fmt.Fprintf(&b, "\nHead note: %s", sc.HeadNote)
	}
	if n, ok := sc.LastNote(); ok {
		fmt.Fprintf(&b, "\nLast note: [%s] %s", n.ShortHash(), n.Message)
	}
	return b.String()
}

// History returns up to limit most recent raw commands, oldest first.
func (s *Store) History(limit int) []string {
	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}
	out := make([]string, limit)
	copy(out, s.history[len(s.history)-limit:])
	return out
}

// Snapshot is a JSON-serializable view of the store's audit state, exposed so
// external callers can persist events and command history at session end.
type Snapshot struct {
	CurrentScope   string   `json:"current_scope"`
	Scopes         []Scope  `json:"scopes"`
	Events         []Event  `json:"events"`
	CommandHistory []string `json:"command_history"`
}

// Snapshot returns a deep copy of the store state for serialization or audit.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		CurrentScope:   s.current,
		Scopes:         make([]Scope, 0, len(s.order)),
		Events:         s.Events(),
		CommandHistory: s.CommandHistory(),
	}
	for _, name := range s.order {
		snap.Scopes = append(snap.Scopes, s.scopes[name].snapshot())
	}
	return snap
}

// insertScope allocates and registers a new scope.
func (s *Store) insertScope(name string) *Scope {
	sc := newScope(name)
	s.scopes[name] = sc
	s.order = append(s.order, name)
	return sc
}

// appendNote creates a note with a store-unique hash chained to the scope's
// previous note and appends it to the scope's log.
func (s *Store) appendNote(sc *Scope, message string, snapshot []Message) *Note {
	s.noteSeq++
	now := time.Now().UTC()
	parent := sc.lastNoteHash()
	n := Note{
		Hash:             noteHash(message, parent, s.noteSeq, now),
		Message:          message,
		Timestamp:        now,
		ParentHash:       parent,
		MessagesSnapshot: snapshot,
	}
	sc.Notes = append(sc.Notes, n)
	return &sc.Notes[len(sc.Notes)-1]
}

// carryPendingChain moves (not copies) a pending tool-call chain from origin
// to dest and returns the number of messages carried.
func (s *Store) carryPendingChain(origin, dest *Scope) int {
	retained, pending := SplitPendingChain(origin.Messages)
	if len(pending) == 0 {
		return 0
	}
	origin.Messages = retained
	dest.Messages = append(dest.Messages, pending...)
	return len(pending)
}

func (s *Store) emit(eventType, scope string, payload map[string]any) {
	s.events = append(s.events, newEvent(eventType, scope, payload))
}

// mustCurrent resolves the current scope. A failed lookup means a corrupted
// store invariant and panics: this is a bug in the engine, not caller misuse.
func (s *Store) mustCurrent() *Scope {
	sc, ok := s.scopes[s.current]
	if !ok {
		panic(fmt.Sprintf("scopemesh: current scope '%s' missing from store", s.current))
	}
	return sc
}
