package service

import "sync"

// visitorLocks serializes selection read-modify-write per visitor.
// Entries are dropped once no request holds or waits for them.
type visitorLocks struct {
	mu    sync.Mutex
	locks map[string]*visitorLock
}

type visitorLock struct {
	mu   sync.Mutex
	refs int
}

func newVisitorLocks() *visitorLocks {
	return &visitorLocks{locks: make(map[string]*visitorLock)}
}

// Lock blocks until the visitor's lock is held and returns its release
func (l *visitorLocks) Lock(visitorID string) func() {
	l.mu.Lock()
	lock := l.locks[visitorID]
	if lock == nil {
		lock = &visitorLock{}
		l.locks[visitorID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, visitorID)
		}
		l.mu.Unlock()
	}
}

func (l *visitorLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
