// Package hwregs defines the raw register-access capability consumed by the
// timer/PWM stack, plus an in-memory implementation for host-side tests and
// simulation. Platform layers supply the real thing.
package hwregs

// MaxChannels is the widest channel set a supported counter peripheral
// exposes.
const MaxChannels = 6

// TimerRegisters is the register surface of one counter peripheral.
// Channels are 0-based indices.
//
// Callers are responsible for serializing access; implementations may assume
// at most one caller at a time (the timer lock provides this upstream).
type TimerRegisters interface {
	// Divider register. The stored value is the hardware encoding: the
	// effective division factor is Divider()+1.
	SetDivider(div uint32)
	Divider() uint32

	// Reload register: ticks per output cycle.
	SetReload(reload uint32)
	Reload() uint32

	// Per-channel compare register.
	SetCompare(ch uint8, val uint32)
	Compare(ch uint8) uint32

	// Output generation gate per channel.
	EnableOutput(ch uint8) error
	DisableOutput(ch uint8) error
}
