package core

import "time"

// Scope is an isolated reasoning partition: an ordered working-memory message
// list plus an ordered append-only note log. A scope, once created, is never
// destroyed for the lifetime of its store.
type Scope struct {
	Name      string    `json:"name"`
	Messages  []Message `json:"messages"`
	Notes     []Note    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	HeadNote  string    `json:"head_note,omitempty"` // Transition summary recorded on last arrival
}

func newScope(name string) *Scope {
	return &Scope{Name: name, CreatedAt: time.Now().UTC()}
}

// LastNote returns the most recent note, if any.
func (s *Scope) LastNote() (Note, bool) {
	if len(s.Notes) == 0 {
		return Note{}, false
	}
	return s.Notes[len(s.Notes)-1], true
}

// lastNoteHash returns the hash of the most recent note or "" for an empty log.
func (s *Scope) lastNoteHash() string {
	if n, ok := s.LastNote(); ok {
		return n.Hash
	}
	return ""
}

// snapshot returns a defensive copy safe to hand outside the store.
func (s *Scope) snapshot() Scope {
	cp := Scope{Name: s.Name, CreatedAt: s.CreatedAt, HeadNote: s.HeadNote}
	cp.Messages = copyMessages(s.Messages)
	if s.Notes != nil {
		cp.Notes = make([]Note, len(s.Notes))
		copy(cp.Notes, s.Notes)
	}
	return cp
}
