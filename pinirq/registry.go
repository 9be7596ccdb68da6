// Package pinirq routes external pin interrupts to registered callbacks.
//
// The registry has two faces. Mutations (Register, SetEnabled, Unregister)
// run in thread context and serialize through a lock with a short timeout.
// Dispatch runs at interrupt priority and must never block, so each slot is
// published as a single atomic pointer: a dispatch either sees the whole
// {callback, enabled} pair from before a mutation or the whole pair after,
// never a mix.
package pinirq

import (
	"sync/atomic"
	"time"

	"motionhal-go/errcode"
	"motionhal-go/hwmutex"
	"motionhal-go/x/mathx"
)

// Edge identifies the signal transition that raised the interrupt.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	default:
		return "none"
	}
}

// Callback is invoked from Dispatch. It runs at interrupt priority: keep it
// short, never block, and never take the registry lock with a wait.
type Callback func(pin int, edge Edge)

// DecodeFunc maps a hardware pin-mask to a linear pin index. It is static
// platform data: a table lookup, not a search.
type DecodeFunc func(mask uint32) (pin int, ok bool)

// DecodeSingleBit decodes a mask holding exactly one set bit into its bit
// position. Masks with zero or multiple bits, or a bit at or above numPins,
// do not decode.
func DecodeSingleBit(numPins int) DecodeFunc {
	return func(mask uint32) (int, bool) {
		if !mathx.IsPowerOfTwo(mask) {
			return 0, false
		}
		pin := int(mathx.RightmostSetBit(mask))
		if pin >= numPins {
			return 0, false
		}
		return pin, true
	}
}

// lockTimeout bounds mutation-side lock waits; Busy is returned instead of
// stalling, and Dispatch never takes the lock at all.
const lockTimeout = 5 * time.Millisecond

// slot is immutable once published. Mutations build a fresh slot and swap
// the pointer.
type slot struct {
	cb      Callback
	enabled bool
}

// Registry dispatches pin interrupts to callbacks. Construct one per
// interrupt controller instance.
type Registry struct {
	slots  []atomic.Pointer[slot]
	decode DecodeFunc
	lock   *hwmutex.Mutex
	ready  atomic.Bool
}

// New builds a registry for numPins pins. A nil decode falls back to
// single-bit decoding. numPins must be positive.
func New(numPins int, decode DecodeFunc) *Registry {
	if numPins <= 0 {
		panic("pinirq: numPins must be positive")
	}
	if decode == nil {
		decode = DecodeSingleBit(numPins)
	}
	return &Registry{
		slots:  make([]atomic.Pointer[slot], numPins),
		decode: decode,
		lock:   hwmutex.New(),
	}
}

// NumPins returns the registry capacity.
func (r *Registry) NumPins() int { return len(r.slots) }

// Init makes the registry ready. Idempotent: only the first call clears the
// slots, later calls are no-ops.
func (r *Registry) Init() {
	if !r.ready.CompareAndSwap(false, true) {
		return
	}
	for i := range r.slots {
		r.slots[i].Store(nil)
	}
}

func (r *Registry) checkPin(pin int) error {
	if !r.ready.Load() {
		return errcode.Uninitialized
	}
	if pin < 0 || pin >= len(r.slots) {
		return errcode.UnknownPin
	}
	return nil
}

// Register installs a callback for a pin and enables it.
func (r *Registry) Register(pin int, cb Callback) error {
	if err := r.checkPin(pin); err != nil {
		return err
	}
	if cb == nil {
		return errcode.InvalidParams
	}
	if !r.lock.Acquire(lockTimeout) {
		return errcode.Busy
	}
	defer r.lock.Release()
	if r.slots[pin].Load() != nil {
		return errcode.AlreadyRegistered
	}
	r.slots[pin].Store(&slot{cb: cb, enabled: true})
	return nil
}

// Unregister removes the callback for a pin.
func (r *Registry) Unregister(pin int) error {
	if err := r.checkPin(pin); err != nil {
		return err
	}
	if !r.lock.Acquire(lockTimeout) {
		return errcode.Busy
	}
	defer r.lock.Release()
	if r.slots[pin].Load() == nil {
		return errcode.Unregistered
	}
	r.slots[pin].Store(nil)
	return nil
}

// SetEnabled toggles dispatching for a registered pin without removing its
// callback.
func (r *Registry) SetEnabled(pin int, enabled bool) error {
	if err := r.checkPin(pin); err != nil {
		return err
	}
	if !r.lock.Acquire(lockTimeout) {
		return errcode.Busy
	}
	defer r.lock.Release()
	cur := r.slots[pin].Load()
	if cur == nil {
		return errcode.Unregistered
	}
	if cur.enabled != enabled {
		r.slots[pin].Store(&slot{cb: cur.cb, enabled: enabled})
	}
	return nil
}

// IsEnabled reports whether a pin currently dispatches. False for invalid or
// unregistered pins.
func (r *Registry) IsEnabled(pin int) bool {
	if !r.ready.Load() || pin < 0 || pin >= len(r.slots) {
		return false
	}
	s := r.slots[pin].Load()
	return s != nil && s.enabled
}

// Dispatch is the interrupt-context entry point. It decodes the pin-mask and
// invokes the slot's callback synchronously if one is registered and enabled.
// Undecodable masks are dropped without action. Lock-free.
func (r *Registry) Dispatch(pinMask uint32, edge Edge) {
	if !r.ready.Load() {
		return
	}
	pin, ok := r.decode(pinMask)
	if !ok {
		return
	}
	s := r.slots[pin].Load()
	if s != nil && s.enabled {
		s.cb(pin, edge)
	}
}
