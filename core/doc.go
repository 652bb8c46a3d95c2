// Package core provides the versioned-state engine at the heart of scopemesh:
//
//   - Messages (ephemeral conversational turns, working memory)
//   - Notes (immutable, hash-chained semantic summaries, episodic memory)
//   - Scopes (named, isolated reasoning partitions)
//   - Store (the aggregate root owning all scopes, events and command history)
//   - Tool-call chain helpers preserving assistant/tool message pairing
//
// A Store is confined to a single goroutine: it performs no I/O, spawns no
// background work and holds no locks. Applications serving multiple agent
// sessions give each session its own Store instance (see the session package)
// rather than synchronizing a shared one.
package core
