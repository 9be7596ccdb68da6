package pinirq

import (
	"context"
	"sync/atomic"
)

// Queue defers dispatching out of interrupt context. The interrupt handler
// calls Enqueue, which is a non-blocking ring push; a worker goroutine
// drains the ring and runs the registry callbacks in thread context, where
// they may block and take locks.
//
// Events that arrive while the ring is full are counted and dropped. The
// interrupt path is never allowed to wait on the consumer.
type Queue struct {
	reg     *Registry
	ring    *eventRing
	stopped chan struct{}
	drops   atomic.Uint32
}

// DefaultQueueDepth is used when NewQueue is given a non-positive depth.
const DefaultQueueDepth = 64

// NewQueue builds a deferred-dispatch queue over a registry. depth is
// rounded up to the next power of two; non-positive means DefaultQueueDepth.
func NewQueue(reg *Registry, depth int) *Queue {
	if reg == nil {
		panic("pinirq: nil registry")
	}
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	size := 2
	for size < depth {
		size <<= 1
	}
	return &Queue{
		reg:     reg,
		ring:    newEventRing(size),
		stopped: make(chan struct{}),
	}
}

// Enqueue records one interrupt for deferred dispatch. Interrupt-context
// safe: a single atomic ring push, with a drop counter instead of blocking.
func (q *Queue) Enqueue(pinMask uint32, edge Edge) {
	if !q.ring.push(Event{Mask: pinMask, Edge: edge}) {
		q.drops.Add(1)
	}
}

// Start launches the drain worker. It runs until ctx is cancelled; Done
// closes once the worker has exited.
func (q *Queue) Start(ctx context.Context) {
	go func() {
		defer close(q.stopped)
		for {
			select {
			case <-ctx.Done():
				return
			case <-q.ring.wake():
				for {
					ev, ok := q.ring.pop()
					if !ok {
						break
					}
					q.reg.Dispatch(ev.Mask, ev.Edge)
				}
			}
		}
	}()
}

// Done is closed when the drain worker has exited.
func (q *Queue) Done() <-chan struct{} { return q.stopped }

// Drops returns how many events were discarded because the ring was full.
func (q *Queue) Drops() uint32 { return q.drops.Load() }

// Pending returns how many events are waiting in the ring.
func (q *Queue) Pending() int {
	return int(q.ring.wr.Load() - q.ring.rd.Load())
}
