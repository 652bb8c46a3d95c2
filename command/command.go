package command

import (
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// Command is the closed set of parsed agent commands. Concrete variants
// implement the unexported isCommand marker.
type Command interface{ isCommand() }

// ScopeCommand creates a new scope and switches into it.
type ScopeCommand struct {
	Name string
	Note string // Transition note recorded on the origin scope
}

func (ScopeCommand) isCommand() {}

// GotoCommand switches to an existing scope.
type GotoCommand struct {
	Name string
	Note string // Arrival note recorded on the destination scope
}

func (GotoCommand) isCommand() {}

// NoteCommand records a note in the current scope.
type NoteCommand struct {
	Note string
}

func (NoteCommand) isCommand() {}

// ListScopesCommand lists all scopes with note and message counts.
type ListScopesCommand struct{}

func (ListScopesCommand) isCommand() {}

// ListNotesCommand shows the note log of a scope (current scope when Name is empty).
type ListNotesCommand struct {
	Name string
}

func (ListNotesCommand) isCommand() {}

// SyntaxError reports malformed or incomplete command text. It is rendered
// into a result string at the dispatch boundary, never surfaced as a crash.
type SyntaxError struct {
	Input  string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.Reason)
}

// Parse turns a raw command string into a Command variant. Quoting follows
// shell rules so note text can contain spaces.
func Parse(raw string) (Command, error) {
	tokens, err := shlex.Split(strings.TrimSpace(raw))
	if err != nil {
		return nil, &SyntaxError{Input: raw, Reason: fmt.Sprintf("cannot tokenize command: %v", err)}
	}
	if len(tokens) == 0 {
		return nil, &SyntaxError{Input: raw, Reason: "empty command"}
	}

	// Models often echo the tool name, as in "ctx note -m ...".
	if strings.ToLower(tokens[0]) == "ctx" && len(tokens) > 1 {
		tokens = tokens[1:]
	}

	verb := strings.ToLower(tokens[0])
	rest := tokens[1:]

	switch verb {
	case "scope":
		name, note := nameAndMessage(rest)
		if name == "" {
			return nil, &SyntaxError{Input: raw, Reason: "scope requires a name"}
		}
		if note == "" {
			return nil, &SyntaxError{Input: raw, Reason: `scope requires -m "<text>" (transition note is mandatory)`}
		}
		return ScopeCommand{Name: name, Note: note}, nil

	case "goto":
		name, note := nameAndMessage(rest)
		if name == "" {
			return nil, &SyntaxError{Input: raw, Reason: "goto requires a scope name"}
		}
		if note == "" {
			return nil, &SyntaxError{Input: raw, Reason: `goto requires -m "<text>" (transition note is mandatory)`}
		}
		return GotoCommand{Name: name, Note: note}, nil

	case "note":
		name, note := nameAndMessage(rest)
		if name != "" {
			return nil, &SyntaxError{Input: raw, Reason: fmt.Sprintf("note takes no positional argument, got '%s'", name)}
		}
		if note == "" {
			return nil, &SyntaxError{Input: raw, Reason: `note requires -m "<text>"`}
		}
		return NoteCommand{Note: note}, nil

	case "scopes":
		if len(rest) != 0 {
			return nil, &SyntaxError{Input: raw, Reason: "scopes takes no arguments"}
		}
		return ListScopesCommand{}, nil

	case "notes":
		name, note := nameAndMessage(rest)
		if note != "" {
			return nil, &SyntaxError{Input: raw, Reason: "notes takes no -m flag"}
		}
		return ListNotesCommand{Name: name}, nil

	default:
		return nil, &SyntaxError{Input: raw, Reason: fmt.Sprintf("unknown command '%s'", verb)}
	}
}

// nameAndMessage scans tokens for the first positional name and the -m flag
// value. A later -m wins, matching lenient shell-style parsing.
func nameAndMessage(tokens []string) (name, message string) {
	for i := 0; i < len(tokens); i++ {
		switch {
		case tokens[i] == "-m":
			if i+1 < len(tokens) {
				message = tokens[i+1]
				i++
			}
		case name == "" && !strings.HasPrefix(tokens[i], "-"):
			name = tokens[i]
		}
	}
	return name, message
}
