package services

import (
	"sync"
)

// KeyedLock serializes work per key. Room assignment uses one lock per group
// so two concurrent assignment calls cannot both pass a stale capacity check.
type KeyedLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedLock() *KeyedLock {
	return &KeyedLock{locks: make(map[string]*sync.Mutex)}
}

// Lock blocks until the key's mutex is held and returns the unlock func.
func (l *KeyedLock) Lock(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
