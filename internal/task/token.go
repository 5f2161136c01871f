// Package task provides the shared cancellation token that decides which
// simulation run is allowed to keep drawing.
package task

import (
	"sync"

	"github.com/google/uuid"
)

// Token holds the id of the active run. A loop keeps going only while its
// own id is the active one; starting another run replaces the id, which the
// old loop observes at its next poll.
type Token struct {
	mu     sync.Mutex
	active uuid.UUID
}

func NewToken() *Token {
	return &Token{}
}

// NewID allocates a fresh task id.
func NewID() uuid.UUID {
	return uuid.New()
}

// Begin allocates a fresh id and makes it active.
func (t *Token) Begin() uuid.UUID {
	id := NewID()
	t.Set(id)
	return id
}

func (t *Token) Set(id uuid.UUID) {
	t.mu.Lock()
	t.active = id
	t.mu.Unlock()
}

// Clear deactivates every run.
func (t *Token) Clear() {
	t.Set(uuid.Nil)
}

func (t *Token) Active() uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// IsActive reports whether id is the current run. uuid.Nil is never active.
func (t *Token) IsActive(id uuid.UUID) bool {
	if id == uuid.Nil {
		return false
	}
	return t.Active() == id
}
