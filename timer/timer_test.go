package timer

import (
	"errors"
	"testing"

	"motionhal-go/errcode"
	"motionhal-go/hwmutex"
	"motionhal-go/hwregs"
)

var testClocks = Clocks{PCLK1Hz: 80_000_000, PCLK2Hz: 160_000_000}

func newTestTimer(p Peripheral) *Timer {
	return New(p, hwregs.NewSimTimer(), testClocks, hwmutex.New())
}

func TestPWMCapability(t *testing.T) {
	cases := []struct {
		name string
		p    Peripheral
		ch   Channel
		want errcode.Code
	}{
		{"tim2 ch1", TIM2, Channel1, errcode.OK},
		{"tim2 ch4", TIM2, Channel4, errcode.OK},
		{"tim2 ch5 not implemented", TIM2, Channel5, errcode.InvalidChannel},
		{"tim1 ch4", TIM1, Channel4, errcode.OK},
		{"tim1 ch5 no pwm", TIM1, Channel5, errcode.InvalidChannel},
		{"tim6 basic timer", TIM6, Channel1, errcode.InvalidChannel},
		{"tim7 basic timer", TIM7, Channel1, errcode.InvalidChannel},
		{"tim12 ch2", TIM12, Channel2, errcode.OK},
		{"tim12 ch3", TIM12, Channel3, errcode.InvalidChannel},
		{"tim13 ch1", TIM13, Channel1, errcode.OK},
		{"tim13 ch2", TIM13, Channel2, errcode.InvalidChannel},
		{"tim17 ch2", TIM17, Channel2, errcode.InvalidChannel},
		{"out of range", TIM2, Channel(9), errcode.InvalidChannel},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := newTestTimer(c.p).SetModePWM(c.ch)
			if got := errcode.Of(err); got != c.want {
				t.Fatalf("SetModePWM(%v) = %v, want %v", c.ch, got, c.want)
			}
		})
	}
}

func TestModeExclusivity(t *testing.T) {
	tm := newTestTimer(TIM3)
	if err := tm.SetModePWM(Channel1); err != nil {
		t.Fatalf("SetModePWM: %v", err)
	}
	if !tm.IsModePWM(Channel1) {
		t.Fatal("channel 1 not marked PWM")
	}
	// Same channel again conflicts; another channel is fine.
	if !errors.Is(tm.SetModePWM(Channel1), errcode.ModeConflict) {
		t.Fatal("expected ModeConflict re-claiming channel 1")
	}
	if err := tm.SetModePWM(Channel3); err != nil {
		t.Fatalf("SetModePWM(ch3): %v", err)
	}
	// Quadrature shares channel 1.
	if !errors.Is(tm.SetModeQuadrature(), errcode.ModeConflict) {
		t.Fatal("expected ModeConflict for quadrature over PWM")
	}
}

func TestQuadratureBlocksPWM(t *testing.T) {
	tm := newTestTimer(TIM4)
	if err := tm.SetModeQuadrature(); err != nil {
		t.Fatalf("SetModeQuadrature: %v", err)
	}
	if !tm.IsModeQuadrature() {
		t.Fatal("not in quadrature mode")
	}
	// Any PWM claim conflicts while the counter decodes quadrature,
	// including channels outside 1/2.
	for _, ch := range []Channel{Channel1, Channel2, Channel3} {
		if !errors.Is(tm.SetModePWM(ch), errcode.ModeConflict) {
			t.Fatalf("SetModePWM(%v): expected ModeConflict", ch)
		}
	}
}

func TestQuadratureCapability(t *testing.T) {
	for _, p := range []Peripheral{TIM6, TIM12, TIM13, TIM15, TIM16} {
		if !errors.Is(newTestTimer(p).SetModeQuadrature(), errcode.InvalidPeripheral) {
			t.Errorf("TIM%d: expected InvalidPeripheral", p)
		}
	}
	for _, p := range []Peripheral{TIM1, TIM2, TIM5, TIM8} {
		if err := newTestTimer(p).SetModeQuadrature(); err != nil {
			t.Errorf("TIM%d: SetModeQuadrature: %v", p, err)
		}
	}
}

func TestResetMode(t *testing.T) {
	tm := newTestTimer(TIM2)
	if err := tm.SetModePWM(Channel2); err != nil {
		t.Fatalf("SetModePWM: %v", err)
	}
	if err := tm.ResetMode(Channel2); err != nil {
		t.Fatalf("ResetMode: %v", err)
	}
	if err := tm.SetModeQuadrature(); err != nil {
		t.Fatalf("SetModeQuadrature after reset: %v", err)
	}
	// Resetting one quadrature channel releases both.
	if err := tm.ResetMode(Channel1); err != nil {
		t.Fatalf("ResetMode: %v", err)
	}
	if tm.IsModeQuadrature() {
		t.Fatal("still in quadrature mode after reset")
	}
	if err := tm.SetModePWM(Channel2); err != nil {
		t.Fatalf("SetModePWM after quadrature reset: %v", err)
	}
}

func TestClockLookup(t *testing.T) {
	if got := newTestTimer(TIM1).ClockFrequencyHz(); got != testClocks.PCLK2Hz {
		t.Errorf("TIM1 clock = %d, want PCLK2", got)
	}
	if got := newTestTimer(TIM8).ClockFrequencyHz(); got != testClocks.PCLK2Hz {
		t.Errorf("TIM8 clock = %d, want PCLK2", got)
	}
	if got := newTestTimer(TIM2).ClockFrequencyHz(); got != testClocks.PCLK1Hz {
		t.Errorf("TIM2 clock = %d, want PCLK1", got)
	}
}

func TestPrescale(t *testing.T) {
	sim := hwregs.NewSimTimer()
	tm := New(TIM2, sim, testClocks, hwmutex.New())
	if got := tm.Prescale(); got != 1 {
		t.Fatalf("Prescale() = %d, want 1", got)
	}
	sim.SetDivider(4)
	if got := tm.Prescale(); got != 5 {
		t.Fatalf("Prescale() = %d, want 5", got)
	}
}

func TestNewPanicsOnBadWiring(t *testing.T) {
	mustPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatalf("%s: expected panic", name)
			}
		}()
		fn()
	}
	mustPanic("nil regs", func() { New(TIM2, nil, testClocks, hwmutex.New()) })
	mustPanic("nil lock", func() { New(TIM2, hwregs.NewSimTimer(), testClocks, nil) })
	mustPanic("unknown peripheral", func() {
		New(Peripheral(9), hwregs.NewSimTimer(), testClocks, hwmutex.New())
	})
}
