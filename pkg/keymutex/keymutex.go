// Package keymutex provides mutual exclusion scoped to a string key.
package keymutex

import (
	"sync"

	"github.com/moby/locker"
)

// Map hands out one lock per key. Idle keys are forgotten by the underlying
// locker. The zero value is not usable; call New.
type Map struct {
	l *locker.Locker
}

func New() *Map {
	return &Map{l: locker.New()}
}

// Lock blocks until key is free and returns the function releasing it.
// Calling the returned function more than once has no further effect.
func (m *Map) Lock(key string) (unlock func()) {
	m.l.Lock(key)

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = m.l.Unlock(key)
		})
	}
}
