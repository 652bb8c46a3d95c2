// Package scopemesh provides a high-level façade over the context store,
// command dispatcher and composer, enabling multi-session context
// management for LLM agents. Most applications interact with this
// package by:
//  1. Creating a ScopeMesh via New() (optionally overriding defaults)
//  2. Executing ctx commands per session (Execute)
//  3. Composing provider-ready message lists per session (Context)
//
// The façade keeps one isolated store per session and lazily creates
// sessions on first use. All defaults are safe for local development
// and testing.
package scopemesh

import (
	"sync"

	"github.com/hupe1980/scopemesh/command"
	"github.com/hupe1980/scopemesh/compose"
	"github.com/hupe1980/scopemesh/core"
	"github.com/hupe1980/scopemesh/logging"
	"github.com/hupe1980/scopemesh/session"
)

// Options configures the ScopeMesh instance.
type Options struct {
	// KeepMessagesOnNote leaves working messages in place when a note
	// command runs. By default notes clear working memory.
	KeepMessagesOnNote bool

	// NoteLimit is the number of recent notes surfaced in the episodic
	// memory block of composed contexts.
	NoteLimit int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// ScopeMesh is the high-level façade aggregating per-session stores and
// their dispatchers.
type ScopeMesh struct {
	opts     Options
	registry *session.Registry

	mu          sync.Mutex
	dispatchers map[string]*command.Dispatcher
}

// New creates a new ScopeMesh instance with optional overrides.
func New(optFns ...func(o *Options)) *ScopeMesh {
	opts := Options{
		NoteLimit: compose.DefaultNoteLimit,
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &ScopeMesh{
		opts:        opts,
		registry:    session.NewRegistry(),
		dispatchers: make(map[string]*command.Dispatcher),
	}
}

// Execute runs a ctx command for a session and returns its textual
// result plus the emitted event, if any.
func (m *ScopeMesh) Execute(sessionID, raw string) (string, *core.Event) {
	return m.dispatcher(sessionID).Dispatch(raw)
}

// AddMessage appends a message to the current scope of a session.
func (m *ScopeMesh) AddMessage(sessionID string, message core.Message) {
	m.registry.Get(sessionID).AddMessage(message)
}

// Context composes the provider-ready message list for a session's
// current scope.
func (m *ScopeMesh) Context(sessionID, systemPrompt string) []core.Message {
	return compose.Compose(m.registry.Get(sessionID), systemPrompt, func(o *compose.Options) {
		o.NoteLimit = m.opts.NoteLimit
	})
}

// Store returns the underlying store for a session, creating it on
// first use. The store is single-goroutine; confine it to the session's
// goroutine.
func (m *ScopeMesh) Store(sessionID string) *core.Store {
	return m.registry.Get(sessionID)
}

// RemoveSession drops a session's store and dispatcher. It returns
// false if the session was unknown.
func (m *ScopeMesh) RemoveSession(sessionID string) bool {
	m.mu.Lock()
	delete(m.dispatchers, sessionID)
	m.mu.Unlock()

	return m.registry.Delete(sessionID)
}

func (m *ScopeMesh) dispatcher(sessionID string) *command.Dispatcher {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.dispatchers[sessionID]
	if !ok {
		d = command.NewDispatcher(m.registry.Get(sessionID), func(o *command.Options) {
			o.KeepMessagesOnNote = m.opts.KeepMessagesOnNote
			o.Logger = m.opts.Logger
		})
		m.dispatchers[sessionID] = d
	}

	return d
}
