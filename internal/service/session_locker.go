package service

import (
	"sync"

	"github.com/google/uuid"
)

// SessionLocker serializes mutations per session. All writers on the same
// id queue behind one mutex; different ids never contend. One instance is
// shared by every service that writes sessions, so a patch and an
// adjustment on the same session cannot interleave. Session creation locks
// on the household id instead, since no session id exists yet.
// Locks are created on first use and kept for the process lifetime, which
// is fine for the handful of sessions a household runs concurrently.
type SessionLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewSessionLocker() *SessionLocker {
	return &SessionLocker{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (l *SessionLocker) Lock(id uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
