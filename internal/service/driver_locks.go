package service

import "sync"

// driverLocks serializes history mutations per driver. Transitions for
// different drivers proceed in parallel; two for the same driver are strictly
// ordered, because each must read the latest history before appending.
type driverLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDriverLocks() *driverLocks {
	return &driverLocks{locks: make(map[string]*sync.Mutex)}
}

// forDriver returns the mutex guarding one driver's history, creating it on
// first use. Locks are never removed; the per-driver footprint is one mutex.
func (l *driverLocks) forDriver(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}
