// Package driverspwm backs the hwregs.TimerRegisters capability with a
// portable tinygo.org/x/drivers PWM peripheral, so the timer/PWM stack can
// drive a machine.PWM group on TinyGo targets without knowing about it.
//
// The underlying drivers.PWM exposes a period and a hardware top value rather
// than raw divider/reload registers; the adapter folds divider+reload writes
// into one SetPeriod call and rescales compare values from reload units to
// the hardware top.
package driverspwm

import (
	"time"

	"tinygo.org/x/drivers"

	"motionhal-go/hwregs"
)

var _ hwregs.TimerRegisters = (*Adapter)(nil)

type Adapter struct {
	pwm     drivers.PWM
	clockHz uint32

	div     uint32
	reload  uint32
	compare [hwregs.MaxChannels]uint32
	enabled [hwregs.MaxChannels]bool
}

// New configures the PWM and returns the adapter. sourceClockHz is the clock
// the register maths upstream assumes; it is needed to translate
// divider/reload into a period.
func New(p drivers.PWM, sourceClockHz uint32) (*Adapter, error) {
	if err := p.Configure(drivers.PWMConfig{}); err != nil {
		return nil, err
	}
	return &Adapter{pwm: p, clockHz: sourceClockHz}, nil
}

func (a *Adapter) SetDivider(div uint32) {
	a.div = div
	a.pushPeriod()
}

func (a *Adapter) Divider() uint32 { return a.div }

func (a *Adapter) SetReload(reload uint32) {
	a.reload = reload
	a.pushPeriod()
}

func (a *Adapter) Reload() uint32 { return a.reload }

func (a *Adapter) SetCompare(ch uint8, val uint32) {
	if ch >= hwregs.MaxChannels {
		return
	}
	a.compare[ch] = val
	if a.enabled[ch] {
		a.pwm.Set(ch, a.scale(val))
	}
}

func (a *Adapter) Compare(ch uint8) uint32 {
	if ch >= hwregs.MaxChannels {
		return 0
	}
	return a.compare[ch]
}

// EnableOutput models the gate as "drive the cached level"; DisableOutput as
// "drive 0". drivers.PWM has no per-channel enable of its own.
func (a *Adapter) EnableOutput(ch uint8) error {
	if ch >= hwregs.MaxChannels {
		return nil
	}
	a.enabled[ch] = true
	a.pwm.Set(ch, a.scale(a.compare[ch]))
	return nil
}

func (a *Adapter) DisableOutput(ch uint8) error {
	if ch >= hwregs.MaxChannels {
		return nil
	}
	a.enabled[ch] = false
	a.pwm.Set(ch, 0)
	return nil
}

// pushPeriod recomputes the output period from the cached divider and reload
// and reapplies compare levels, since the hardware top may change with the
// period.
func (a *Adapter) pushPeriod() {
	if a.reload == 0 || a.clockHz == 0 {
		return
	}
	factor := uint64(a.div) + 1
	period := factor * uint64(a.reload) * uint64(time.Second) / uint64(a.clockHz)
	if err := a.pwm.SetPeriod(period); err != nil {
		return
	}
	for ch := uint8(0); ch < hwregs.MaxChannels; ch++ {
		if a.enabled[ch] {
			a.pwm.Set(ch, a.scale(a.compare[ch]))
		}
	}
}

// scale maps a compare value in [0, reload] onto [0, Top()].
func (a *Adapter) scale(val uint32) uint32 {
	if a.reload == 0 {
		return 0
	}
	top := a.pwm.Top()
	if val > a.reload {
		val = a.reload
	}
	return uint32(uint64(val) * uint64(top) / uint64(a.reload))
}
