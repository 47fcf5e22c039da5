package service

import "sync"

// zoneLocks serialises read-modify-write cycles on a single zone.
type zoneLocks struct {
	mu    sync.Mutex
	zones map[int]*sync.Mutex
}

func newZoneLocks() *zoneLocks {
	return &zoneLocks{zones: make(map[int]*sync.Mutex)}
}

// lock blocks until the zone is free and returns its unlock func.
func (l *zoneLocks) lock(zoneID int) func() {
	l.mu.Lock()
	m, ok := l.zones[zoneID]
	if !ok {
		m = &sync.Mutex{}
		l.zones[zoneID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
