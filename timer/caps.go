package timer

// Peripheral identifies one counter/timer peripheral of the STM32H5 family.
// The value is the peripheral number (TIM1 == 1). TIM9..TIM11 do not exist
// on this family.
type Peripheral uint8

const (
	TIM1  Peripheral = 1
	TIM2  Peripheral = 2
	TIM3  Peripheral = 3
	TIM4  Peripheral = 4
	TIM5  Peripheral = 5
	TIM6  Peripheral = 6
	TIM7  Peripheral = 7
	TIM8  Peripheral = 8
	TIM12 Peripheral = 12
	TIM13 Peripheral = 13
	TIM14 Peripheral = 14
	TIM15 Peripheral = 15
	TIM16 Peripheral = 16
	TIM17 Peripheral = 17
)

// ClockDomain selects which bus clock feeds a peripheral.
type ClockDomain uint8

const (
	PCLK1 ClockDomain = iota
	PCLK2
)

// Clocks is the static clock-frequency lookup injected at construction.
// The mapping from peripheral to domain is fixed silicon routing, not
// something this layer computes.
type Clocks struct {
	PCLK1Hz uint32
	PCLK2Hz uint32
}

func (c Clocks) freq(d ClockDomain) uint32 {
	if d == PCLK2 {
		return c.PCLK2Hz
	}
	return c.PCLK1Hz
}

// capability is the per-peripheral feature set, declarative rather than
// branched: which channels exist, which can generate PWM, whether the
// counter supports quadrature decoding, and the feeding clock domain.
type capability struct {
	channels   uint8 // number of implemented channels
	pwmMask    uint8 // bit i set => channel index i can generate PWM
	quadrature bool
	clock      ClockDomain
}

var caps = map[Peripheral]capability{
	// Advanced-control timers: 6 channels, PWM on 1-4, quadrature capable.
	TIM1: {channels: 6, pwmMask: 0b0000_1111, quadrature: true, clock: PCLK2},
	TIM8: {channels: 6, pwmMask: 0b0000_1111, quadrature: true, clock: PCLK2},

	// General-purpose timers: 4 channels, PWM on all, quadrature capable.
	TIM2: {channels: 4, pwmMask: 0b1111, quadrature: true, clock: PCLK1},
	TIM3: {channels: 4, pwmMask: 0b1111, quadrature: true, clock: PCLK1},
	TIM4: {channels: 4, pwmMask: 0b1111, quadrature: true, clock: PCLK1},
	TIM5: {channels: 4, pwmMask: 0b1111, quadrature: true, clock: PCLK1},

	// Basic timers: no output channels at all.
	TIM6: {clock: PCLK1},
	TIM7: {clock: PCLK1},

	// Two-channel timers: PWM on both, no quadrature.
	TIM12: {channels: 2, pwmMask: 0b11, clock: PCLK1},
	TIM15: {channels: 2, pwmMask: 0b11, clock: PCLK1},

	// Single-channel timers.
	TIM13: {channels: 1, pwmMask: 0b1, clock: PCLK1},
	TIM14: {channels: 1, pwmMask: 0b1, clock: PCLK1},
	TIM16: {channels: 1, pwmMask: 0b1, clock: PCLK1},
	TIM17: {channels: 1, pwmMask: 0b1, clock: PCLK1},
}
