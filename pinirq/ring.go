package pinirq

import (
	"sync/atomic"

	"motionhal-go/x/mathx"
)

// Event is one pending interrupt, captured before decoding.
type Event struct {
	Mask uint32
	Edge Edge
}

// eventRing is a single-producer, single-consumer ring of events. The
// producer is the interrupt context, the consumer the queue worker; both
// sides touch only atomics, never locks.
type eventRing struct {
	buf  []Event
	mask uint32
	rd   atomic.Uint32 // consumer index (monotonic)
	wr   atomic.Uint32 // producer index (monotonic)

	readable chan struct{} // coalesced "events pending" signal
}

func newEventRing(size int) *eventRing {
	if size < 2 || !mathx.IsPowerOfTwo(uint32(size)) {
		panic("pinirq: ring size must be power of two >= 2")
	}
	return &eventRing{
		buf:      make([]Event, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
	}
}

// push appends one event. Returns false when the ring is full; it never
// blocks.
func (r *eventRing) push(ev Event) bool {
	rd := r.rd.Load()
	wr := r.wr.Load()
	avail := wr - rd
	if avail >= uint32(len(r.buf)) {
		return false
	}
	r.buf[wr&r.mask] = ev
	r.wr.Store(wr + 1) // release

	select {
	case r.readable <- struct{}{}:
	default:
	}
	return true
}

// pop removes one event. Returns false when the ring is empty.
func (r *eventRing) pop() (Event, bool) {
	rd := r.rd.Load()
	wr := r.wr.Load() // acquire
	if wr == rd {
		return Event{}, false
	}
	ev := r.buf[rd&r.mask]
	r.rd.Store(rd + 1) // release
	return ev, true
}

func (r *eventRing) wake() <-chan struct{} { return r.readable }
