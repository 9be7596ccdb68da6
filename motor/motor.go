// Package motor drives an H-bridge (DRV8870-style) through two PWM channel
// outputs, one per bridge input.
//
// Drive strength and line duty cycle are inversely related: the bridge holds
// the undriven line at 100% duty and pulses the driven line, so 0% strength
// maps to both lines at full duty. That keeps "stopped" unambiguous: it is
// never expressed as "drive at 0% in some direction".
package motor

import (
	"motionhal-go/errcode"
	"motionhal-go/pwm"
	"motionhal-go/x/mathx"
)

// Direction selects how the bridge is driven.
type Direction uint8

const (
	Forward Direction = iota
	Reverse
	Stopped
	Coast
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	case Stopped:
		return "stopped"
	case Coast:
		return "coast"
	default:
		return "unknown"
	}
}

const (
	// StrengthMax is 100.0% drive strength in tenths of a percent.
	StrengthMax = 1000

	// dutyStopped is the duty cycle both lines hold when the motor is not
	// being driven.
	dutyStopped = 1000
)

type state uint8

const (
	stateUninitialized state = iota
	stateDriving
)

// Motor composes the two bridge input lines. Construction is pure
// composition; no hardware is touched until Init.
type Motor struct {
	in0 *pwm.PWM
	in1 *pwm.PWM
	st  state
}

// New builds a Motor over the two input lines. Nil lines are a wiring
// mistake and panic.
func New(in0, in1 *pwm.PWM) *Motor {
	if in0 == nil || in1 == nil {
		panic("motor: nil pwm line")
	}
	return &Motor{in0: in0, in1: in1}
}

// dutyCycles maps (direction, strength) onto the per-line duty pair.
func dutyCycles(dir Direction, strength uint16) (in0, in1 uint16) {
	if dir == Coast {
		return 0, 0
	}
	if dir == Stopped || strength == 0 {
		return dutyStopped, dutyStopped
	}
	duty := StrengthMax - mathx.Min(strength, uint16(StrengthMax))
	if dir == Forward {
		return dutyStopped, duty
	}
	return duty, dutyStopped
}

// Init programs both lines at the stopped duty pair and starts output
// generation. The motor enters the driving state only when every step
// succeeds; PWM-layer errors are wrapped with their code preserved.
func (m *Motor) Init(pwmFrequencyHz uint32) error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"init in0", func() error { return m.in0.Init(pwmFrequencyHz, dutyStopped) }},
		{"init in1", func() error { return m.in1.Init(pwmFrequencyHz, dutyStopped) }},
		{"start in0", m.in0.Start},
		{"start in1", m.in1.Start},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return &errcode.E{C: errcode.Of(err), Op: "motor.init", Msg: s.name, Err: err}
		}
	}
	m.st = stateDriving
	return nil
}

// Drive applies a direction and strength to the bridge.
func (m *Motor) Drive(dir Direction, strengthTenthPct uint16) error {
	if m.st != stateDriving {
		return errcode.NotInitialized
	}
	d0, d1 := dutyCycles(dir, strengthTenthPct)
	if err := m.in0.SetDutyCycle(d0); err != nil {
		return &errcode.E{C: errcode.Of(err), Op: "motor.drive", Msg: "in0", Err: err}
	}
	if err := m.in1.SetDutyCycle(d1); err != nil {
		return &errcode.E{C: errcode.Of(err), Op: "motor.drive", Msg: "in1", Err: err}
	}
	return nil
}

// Brake puts both lines at 0% duty.
func (m *Motor) Brake() error { return m.Drive(Coast, 0) }

// Coast puts both lines at 100% duty.
func (m *Motor) Coast() error { return m.Drive(Stopped, 0) }

// LineDutyCycles reads back the per-line duty pair, in tenths of a percent.
func (m *Motor) LineDutyCycles() (in0, in1 uint16) {
	return m.in0.DutyCycleTenthPct(), m.in1.DutyCycleTenthPct()
}
