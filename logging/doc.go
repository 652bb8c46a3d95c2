// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while letting users plug in any
// structured logger. Core engine packages stay silent; the dispatcher, agent
// loop and policy engine log through this interface.
package logging
