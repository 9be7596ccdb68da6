// Package hwmutex provides the exclusive lock that serializes access to one
// shared hardware resource (typically a counter/timer register set).
//
// A lock is always shared as a *Mutex handle; two callers holding the same
// handle contend on the same underlying state, so there is no way to release
// "via the wrong alias".
package hwmutex

import (
	"sync/atomic"
	"time"
)

// Mutex is a binary mutual-exclusion primitive with bounded-wait acquisition.
//
// New builds the normal blocking variant. NewPolled builds a degraded
// emulation for environments without a scheduler: Acquire never blocks and
// fails fast when the lock is held. The polled variant is only correct on a
// single core without preemption; it exists to mirror the behaviour of
// firmware builds that run before the scheduler is up.
type Mutex struct {
	sem  chan struct{} // nil in polled mode
	held atomic.Bool   // polled mode only
}

// New returns a blocking mutex.
func New() *Mutex {
	return &Mutex{sem: make(chan struct{}, 1)}
}

// NewPolled returns the non-blocking fallback variant.
func NewPolled() *Mutex {
	return &Mutex{}
}

// Acquire obtains exclusive ownership, waiting up to timeout. timeout == 0
// means wait forever. Returns false on timeout.
//
// In polled mode Acquire never waits: it returns false immediately when the
// lock is already held, regardless of timeout.
func (m *Mutex) Acquire(timeout time.Duration) bool {
	if m.sem == nil {
		return m.held.CompareAndSwap(false, true)
	}
	if timeout == 0 {
		m.sem <- struct{}{}
		return true
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case m.sem <- struct{}{}:
		return true
	case <-t.C:
		return false
	}
}

// TryAcquire obtains ownership without waiting. Safe to call from contexts
// that must not block.
func (m *Mutex) TryAcquire() bool {
	if m.sem == nil {
		return m.held.CompareAndSwap(false, true)
	}
	select {
	case m.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release gives up ownership. Returns false if the lock was not held
// (double-release).
func (m *Mutex) Release() bool {
	if m.sem == nil {
		return m.held.CompareAndSwap(true, false)
	}
	select {
	case <-m.sem:
		return true
	default:
		return false
	}
}
