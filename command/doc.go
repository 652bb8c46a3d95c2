// Package command parses and applies the textual commands a conversational
// agent issues to manage its own context. The grammar is deliberately small:
//
//	scope <name> -m "<text>"   create an isolated scope and switch into it
//	goto  <name> -m "<text>"   switch to an existing scope
//	note        -m "<text>"    record a semantic summary of recent reasoning
//	scopes                     list all scopes
//	notes [<name>]             show a scope's note log
//
// Parsing produces a closed tagged-variant set before any mutation is
// attempted, so the dispatcher operates over an exhaustively matched type
// rather than re-parsing strings. Dispatch never fails across the tool
// boundary: every outcome, including malformed input, becomes a result string
// the caller can relay back to the model as a tool response.
package command
