// Package timer owns one hardware counter peripheral: per-channel mode
// bookkeeping (unset / PWM / quadrature), capability validation, the clock
// lookup, and the exclusive lock that serializes register access.
//
// Mode assignment is wiring, not runtime behaviour: it is expected to happen
// while the system is being constructed, before concurrent use begins.
// Register reads and writes at runtime go through the lock.
package timer

import (
	"time"

	"motionhal-go/errcode"
	"motionhal-go/hwmutex"
	"motionhal-go/hwregs"
)

// Channel is a 0-based channel index within a peripheral.
type Channel uint8

const (
	Channel1 Channel = iota
	Channel2
	Channel3
	Channel4
	Channel5
	Channel6
)

// NumChannels matches hwregs.MaxChannels; the mode array is sized for the
// widest peripheral.
const NumChannels = hwregs.MaxChannels

type mode uint8

const (
	modeUnset mode = iota
	modePWM
	modeQuadrature
)

// Timer is the resource owner for one peripheral. Construct exactly one per
// physical peripheral; constructing two over the same registers defeats the
// mode bookkeeping.
type Timer struct {
	p      Peripheral
	regs   hwregs.TimerRegisters
	clocks Clocks
	lock   *hwmutex.Mutex
	modes  [NumChannels]mode
}

// New binds a Timer to a peripheral. Nil registers or lock, or an unknown
// peripheral, are wiring mistakes and panic.
func New(p Peripheral, regs hwregs.TimerRegisters, clocks Clocks, lock *hwmutex.Mutex) *Timer {
	if regs == nil {
		panic("timer: nil registers")
	}
	if lock == nil {
		panic("timer: nil lock")
	}
	if _, ok := caps[p]; !ok {
		panic("timer: unknown peripheral")
	}
	return &Timer{p: p, regs: regs, clocks: clocks, lock: lock}
}

func (t *Timer) Peripheral() Peripheral { return t.p }

// Registers exposes the raw register capability. Callers must hold the lock
// around read-modify-write sequences.
func (t *Timer) Registers() hwregs.TimerRegisters { return t.regs }

// SetModePWM claims one channel for PWM output generation.
func (t *Timer) SetModePWM(ch Channel) error {
	c := caps[t.p]
	if ch >= NumChannels || uint8(ch) >= c.channels {
		return errcode.InvalidChannel
	}
	if c.pwmMask&(1<<ch) == 0 {
		return errcode.InvalidChannel
	}
	if t.IsModeQuadrature() {
		return errcode.ModeConflict
	}
	if t.modes[ch] != modeUnset {
		return errcode.ModeConflict
	}
	t.modes[ch] = modePWM
	return nil
}

// SetModeQuadrature claims channels 1 and 2 jointly for quadrature decoding.
func (t *Timer) SetModeQuadrature() error {
	if !caps[t.p].quadrature {
		return errcode.InvalidPeripheral
	}
	if t.modes[Channel1] != modeUnset || t.modes[Channel2] != modeUnset {
		return errcode.ModeConflict
	}
	t.modes[Channel1] = modeQuadrature
	t.modes[Channel2] = modeQuadrature
	return nil
}

// ResetMode returns a channel to unset so it can be reassigned. Resetting
// either quadrature channel releases both.
func (t *Timer) ResetMode(ch Channel) error {
	if ch >= NumChannels {
		return errcode.InvalidChannel
	}
	if t.modes[ch] == modeQuadrature {
		t.modes[Channel1] = modeUnset
		t.modes[Channel2] = modeUnset
		return nil
	}
	t.modes[ch] = modeUnset
	return nil
}

// IsModePWM reports whether the channel is claimed for PWM.
func (t *Timer) IsModePWM(ch Channel) bool {
	return ch < NumChannels && t.modes[ch] == modePWM
}

// IsModeQuadrature reports whether the peripheral is in quadrature mode.
func (t *Timer) IsModeQuadrature() bool {
	return t.modes[Channel1] == modeQuadrature || t.modes[Channel2] == modeQuadrature
}

// ClockFrequencyHz returns the source clock feeding this peripheral.
func (t *Timer) ClockFrequencyHz() uint32 {
	return t.clocks.freq(caps[t.p].clock)
}

// Prescale returns the effective division factor (divider register + 1).
func (t *Timer) Prescale() uint32 {
	return t.regs.Divider() + 1
}

// AcquireLock obtains the peripheral lock; timeout == 0 waits forever.
func (t *Timer) AcquireLock(timeout time.Duration) bool {
	return t.lock.Acquire(timeout)
}

// ReleaseLock releases the peripheral lock.
func (t *Timer) ReleaseLock() bool {
	return t.lock.Release()
}
