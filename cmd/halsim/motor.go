package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"motionhal-go/hwmutex"
	"motionhal-go/hwregs"
	"motionhal-go/motor"
	"motionhal-go/pwm"
	"motionhal-go/timer"
)

var (
	motorOpts = struct {
		clockHz   uint32
		freqHz    uint32
		direction string
		strength  uint16
	}{}

	motorCmd = &cobra.Command{
		Use:   "motor",
		Short: "Drive a simulated H-bridge and print the per-line duty cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := parseDirection(motorOpts.direction)
			if err != nil {
				return err
			}

			sim := hwregs.NewSimTimer()
			tm := timer.New(timer.TIM2, sim, timer.Clocks{PCLK1Hz: motorOpts.clockHz}, hwmutex.New())
			m := motor.New(pwm.New(tm, timer.Channel1), pwm.New(tm, timer.Channel2))

			if err := m.Init(motorOpts.freqHz); err != nil {
				return fmt.Errorf("init at %d Hz: %w", motorOpts.freqHz, err)
			}
			if err := m.Drive(dir, motorOpts.strength); err != nil {
				return err
			}

			in0, in1 := m.LineDutyCycles()
			fmt.Printf("direction  %s, strength %d/1000\n", dir, motorOpts.strength)
			fmt.Printf("line in0   duty %d/1000 (compare %d)\n", in0, sim.Compare(uint8(timer.Channel1)))
			fmt.Printf("line in1   duty %d/1000 (compare %d)\n", in1, sim.Compare(uint8(timer.Channel2)))
			return nil
		},
	}
)

func parseDirection(s string) (motor.Direction, error) {
	switch s {
	case "forward":
		return motor.Forward, nil
	case "reverse":
		return motor.Reverse, nil
	case "stopped":
		return motor.Stopped, nil
	case "coast":
		return motor.Coast, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (forward, reverse, stopped, coast)", s)
	}
}

func init() {
	motorCmd.Flags().Uint32Var(&motorOpts.clockHz, "clock", 80_000_000, "source clock in Hz")
	motorCmd.Flags().Uint32Var(&motorOpts.freqHz, "freq", 20_000, "PWM switching frequency in Hz")
	motorCmd.Flags().StringVar(&motorOpts.direction, "direction", "forward", "forward, reverse, stopped or coast")
	motorCmd.Flags().Uint16Var(&motorOpts.strength, "strength", 500, "drive strength in tenths of a percent (0..1000)")
	rootCmd.AddCommand(motorCmd)
}
