package keymutex

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// lockWithin reports whether key can be taken before the timeout expires.
func lockWithin(m *Map, key string, d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		unlock := m.Lock(key)
		unlock()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

func TestLock_SameKeySerializes(t *testing.T) {
	m := New()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("tid:1")
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.True(t, lockWithin(m, "tid:1", time.Second), "key is free once every holder released it")
}

func TestLock_DifferentKeysDoNotBlock(t *testing.T) {
	m := New()

	unlockA := m.Lock("tid:1")
	defer unlockA()

	assert.True(t, lockWithin(m, "tid:2", time.Second), "lock on a different key blocked")
	assert.False(t, lockWithin(m, "tid:1", 50*time.Millisecond), "held key must block")
}

func TestUnlock_Idempotent(t *testing.T) {
	m := New()

	unlock := m.Lock("hash:abc")
	unlock()
	unlock()

	assert.True(t, lockWithin(m, "hash:abc", time.Second))
}
