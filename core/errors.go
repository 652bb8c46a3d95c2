package core

import "fmt"

// ScopeNotFoundError is returned when an operation references a scope name
// that does not exist in the store.
type ScopeNotFoundError struct {
	Name string
}

func (e *ScopeNotFoundError) Error() string {
	return fmt.Sprintf("scope '%s' does not exist", e.Name)
}

// DuplicateScopeError is returned when scope creation names an existing
// scope. Creation is always rejected, never silently reused; the caller
// recovers by switching into the existing scope instead.
type DuplicateScopeError struct {
	Name string
}

func (e *DuplicateScopeError) Error() string {
	return fmt.Sprintf("scope '%s' already exists", e.Name)
}
