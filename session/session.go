// Package session provides per-session store management. Each session
// owns an isolated store; concurrency is achieved by giving every
// session its own instance rather than sharing one.
package session

import (
	"sync"

	"github.com/hupe1980/scopemesh/core"
)

// Registry maps session IDs to their stores. The registry itself is
// safe for concurrent use; the stores it hands out are not, and must be
// confined to their session's goroutine.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]*core.Store
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*core.Store)}
}

// Get returns the store for a session, creating it on first use.
func (r *Registry) Get(sessionID string) *core.Store {
	r.mu.RLock()
	store, ok := r.stores[sessionID]
	r.mu.RUnlock()

	if ok {
		return store
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok = r.stores[sessionID]; ok {
		return store
	}

	store = core.NewStore()
	r.stores[sessionID] = store

	return store
}

// Delete removes a session's store. It returns false if the session was
// unknown.
func (r *Registry) Delete(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[sessionID]; !ok {
		return false
	}

	delete(r.stores, sessionID)

	return true
}

// IDs returns the known session IDs.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.stores))
	for id := range r.stores {
		ids = append(ids, id)
	}

	return ids
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.stores)
}
