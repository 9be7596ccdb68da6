package hwmutex

import (
	"testing"
	"time"
)

func TestAcquireRelease(t *testing.T) {
	m := New()
	if !m.Acquire(10 * time.Millisecond) {
		t.Fatal("first acquire failed")
	}
	if m.TryAcquire() {
		t.Fatal("second acquire succeeded while held")
	}
	if !m.Release() {
		t.Fatal("release failed")
	}
	if m.Release() {
		t.Fatal("double release reported success")
	}
	if !m.TryAcquire() {
		t.Fatal("acquire after release failed")
	}
}

func TestAcquireTimeout(t *testing.T) {
	m := New()
	if !m.Acquire(0) {
		t.Fatal("acquire failed")
	}
	start := time.Now()
	if m.Acquire(20 * time.Millisecond) {
		t.Fatal("acquire succeeded while held")
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Fatalf("timed out too early: %v", elapsed)
	}
	m.Release()
	if !m.Acquire(20 * time.Millisecond) {
		t.Fatal("acquire after release failed")
	}
}

// Two concurrent acquires on the same lock: exactly one wins, the loser
// times out because the winner never releases.
func TestMutualExclusion(t *testing.T) {
	m := New()
	results := make(chan bool, 2)
	for i := 0; i < 2; i++ {
		go func() {
			results <- m.Acquire(100 * time.Millisecond)
		}()
	}
	a, b := <-results, <-results
	if a == b {
		t.Fatalf("expected exactly one winner, got %v and %v", a, b)
	}
}

func TestBlockedAcquireWakesOnRelease(t *testing.T) {
	m := New()
	m.Acquire(0)
	done := make(chan bool)
	go func() {
		done <- m.Acquire(time.Second)
	}()
	time.Sleep(10 * time.Millisecond)
	m.Release()
	select {
	case ok := <-done:
		if !ok {
			t.Fatal("blocked acquire failed after release")
		}
	case <-time.After(time.Second):
		t.Fatal("blocked acquire never woke")
	}
}

func TestPolledFailFast(t *testing.T) {
	m := NewPolled()
	if !m.Acquire(time.Second) {
		t.Fatal("polled acquire failed on free lock")
	}
	start := time.Now()
	if m.Acquire(time.Second) {
		t.Fatal("polled acquire succeeded while held")
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Fatal("polled acquire blocked; it must fail fast")
	}
	if !m.Release() {
		t.Fatal("polled release failed")
	}
	if m.Release() {
		t.Fatal("polled double release reported success")
	}
}
