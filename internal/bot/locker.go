package bot

import (
	"sync"

	"github.com/balkashynov/times/internal/models"
)

// ownerLocker serializes the read-decide-write cycle per owner so two
// commands from the same user can never interleave their store writes.
// Entries are tiny and never evicted; the population is bounded by the
// number of distinct users.
type ownerLocker struct {
	mu    sync.Mutex
	locks map[models.Owner]*sync.Mutex
}

func newOwnerLocker() *ownerLocker {
	return &ownerLocker{locks: make(map[models.Owner]*sync.Mutex)}
}

// Lock acquires the owner's mutex and returns the matching unlock.
func (l *ownerLocker) Lock(owner models.Owner) func() {
	l.mu.Lock()
	m, ok := l.locks[owner]
	if !ok {
		m = &sync.Mutex{}
		l.locks[owner] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
