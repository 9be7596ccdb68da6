// Package pwm generates a PWM signal on one timer channel. It converts a
// target switching frequency into divider/reload register values, a duty
// cycle into a compare value, and keeps the start/stop state machine.
//
// Duty cycles are expressed in tenths of a percent, 0..1000. All conversions
// are deterministic integer maths; the same inputs against the same reload
// value always produce the same registers.
package pwm

import (
	"time"

	"motionhal-go/errcode"
	"motionhal-go/timer"
	"motionhal-go/x/mathx"
)

const (
	// DutyCycleMax is 100.0% in tenths of a percent. It is also the duty
	// resolution: a reload value below it cannot resolve 0.1% steps.
	DutyCycleMax = 1000

	// reloadMax is the largest reload value; 16-bit because the smallest
	// counter in the supported families is 16-bit.
	reloadMax = 0xFFFF

	// lockTimeout bounds every register access; a busy peripheral surfaces
	// as errcode.Busy instead of stalling the caller.
	lockTimeout = 5 * time.Millisecond
)

type state uint8

const (
	stateUninitialized state = iota
	stateStopped
	stateStarted
)

// PWM is one channel output bound to a Timer.
type PWM struct {
	t  *timer.Timer
	ch timer.Channel
	st state
}

// New claims the channel for PWM on the given timer. A claim failure is a
// wiring mistake (wrong peripheral, channel already taken) and panics: a PWM
// must not exist without a validly claimed channel.
func New(t *timer.Timer, ch timer.Channel) *PWM {
	if t == nil {
		panic("pwm: nil timer")
	}
	if err := t.SetModePWM(ch); err != nil {
		panic("pwm: claim channel: " + err.Error())
	}
	return &PWM{t: t, ch: ch}
}

// Channel returns the claimed channel.
func (p *PWM) Channel() timer.Channel { return p.ch }

// freqRegs aggregates the two register values that set the switching
// frequency.
type freqRegs struct {
	div    uint32 // hardware encoding: factor - 1
	reload uint32
}

// frequencyRegisters divides the source clock down to the switching
// frequency. The divider is chosen as small as possible so the reload value
// (and with it the duty resolution) stays large; the reload is then
// recomputed to spread the divider evenly.
func frequencyRegisters(switchingHz, sourceHz uint32) (freqRegs, error) {
	if switchingHz == 0 || sourceHz == 0 {
		return freqRegs{}, errcode.InvalidParams
	}
	cycles := sourceHz / switchingHz
	reload := uint32(reloadMax)
	if cycles < reload {
		reload = cycles
	}
	if reload < DutyCycleMax {
		return freqRegs{}, errcode.InvalidFrequency
	}
	div := mathx.CeilDiv(cycles, reload)
	reload = mathx.RoundDiv(cycles, div)
	return freqRegs{div: div - 1, reload: reload}, nil
}

// compareFor converts a clamped duty cycle into a compare value for the
// given reload.
func compareFor(duty uint16, reload uint32) uint32 {
	if reload == 0 {
		return 0
	}
	return mathx.RoundDiv(uint32(duty)*reload, DutyCycleMax)
}

func clampDuty(duty uint16) uint16 {
	return mathx.Min(duty, uint16(DutyCycleMax))
}

// Init computes and writes the frequency and duty registers. Idempotent with
// respect to the state machine: the first successful call moves
// Uninitialized to Stopped, later calls just reprogram the registers.
func (p *PWM) Init(switchingHz uint32, dutyTenthPct uint16) error {
	regs, err := frequencyRegisters(switchingHz, p.t.ClockFrequencyHz())
	if err != nil {
		return err
	}
	compare := compareFor(clampDuty(dutyTenthPct), regs.reload)

	if !p.t.AcquireLock(lockTimeout) {
		return errcode.Busy
	}
	hw := p.t.Registers()
	hw.SetDivider(regs.div)
	hw.SetReload(regs.reload)
	hw.SetCompare(uint8(p.ch), compare)
	p.t.ReleaseLock()

	if p.st == stateUninitialized {
		p.st = stateStopped
	}
	return nil
}

// Start enables output generation on the channel.
func (p *PWM) Start() error {
	if p.st == stateUninitialized {
		return errcode.NotInitialized
	}
	if p.st == stateStarted {
		return errcode.AlreadyStarted
	}
	if !p.t.AcquireLock(lockTimeout) {
		return errcode.Busy
	}
	if err := p.t.Registers().EnableOutput(uint8(p.ch)); err != nil {
		p.t.ReleaseLock()
		return &errcode.E{C: errcode.HardwareFailure, Op: "pwm.start", Err: err}
	}
	p.t.ReleaseLock()
	p.st = stateStarted
	return nil
}

// Stop disables output generation on the channel.
func (p *PWM) Stop() error {
	if p.st == stateUninitialized {
		return errcode.NotInitialized
	}
	if p.st == stateStopped {
		return errcode.AlreadyStopped
	}
	if !p.t.AcquireLock(lockTimeout) {
		return errcode.Busy
	}
	if err := p.t.Registers().DisableOutput(uint8(p.ch)); err != nil {
		p.t.ReleaseLock()
		return &errcode.E{C: errcode.HardwareFailure, Op: "pwm.stop", Err: err}
	}
	p.t.ReleaseLock()
	p.st = stateStopped
	return nil
}

// SwitchingFrequencyHz reads the registers back and inverts the frequency
// maths. Returns 0 when uninitialized or when the peripheral lock cannot be
// taken in time.
func (p *PWM) SwitchingFrequencyHz() uint32 {
	if p.st == stateUninitialized {
		return 0
	}
	if !p.t.AcquireLock(lockTimeout) {
		return 0
	}
	prescale := p.t.Prescale()
	reload := p.t.Registers().Reload()
	p.t.ReleaseLock()
	return mathx.RoundDiv(p.t.ClockFrequencyHz(), prescale*reload)
}

// DutyCycleTenthPct reads the registers back and inverts the duty maths.
// Returns 0 when uninitialized or when the lock cannot be taken in time.
func (p *PWM) DutyCycleTenthPct() uint16 {
	if p.st == stateUninitialized {
		return 0
	}
	if !p.t.AcquireLock(lockTimeout) {
		return 0
	}
	hw := p.t.Registers()
	reload := hw.Reload()
	compare := hw.Compare(uint8(p.ch))
	p.t.ReleaseLock()
	if reload == 0 {
		return 0
	}
	return uint16(mathx.RoundDiv(compare*DutyCycleMax, reload))
}

// SetDutyCycle reprograms the compare register. Values above 1000 clamp to
// 1000. Allowed in both Stopped and Started states.
func (p *PWM) SetDutyCycle(dutyTenthPct uint16) error {
	if p.st == stateUninitialized {
		return errcode.NotInitialized
	}
	duty := clampDuty(dutyTenthPct)
	if !p.t.AcquireLock(lockTimeout) {
		return errcode.Busy
	}
	hw := p.t.Registers()
	var compare uint32
	if duty > 0 {
		reload := hw.Reload()
		compare = reload
		if duty < DutyCycleMax {
			compare = compareFor(duty, reload)
		}
	}
	hw.SetCompare(uint8(p.ch), compare)
	p.t.ReleaseLock()
	return nil
}

// SetHigh holds the output continuously active (100.0% duty).
func (p *PWM) SetHigh() error { return p.SetDutyCycle(DutyCycleMax) }

// SetLow holds the output continuously inactive (0.0% duty).
func (p *PWM) SetLow() error { return p.SetDutyCycle(0) }
