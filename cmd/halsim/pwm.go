package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"motionhal-go/hwmutex"
	"motionhal-go/hwregs"
	"motionhal-go/pwm"
	"motionhal-go/timer"
)

var (
	pwmOpts = struct {
		clockHz uint32
		freqHz  uint32
		duty    uint16
	}{}

	pwmCmd = &cobra.Command{
		Use:   "pwm",
		Short: "Program one PWM channel and print the resulting registers",
		RunE: func(cmd *cobra.Command, args []string) error {
			sim := hwregs.NewSimTimer()
			tm := timer.New(timer.TIM2, sim, timer.Clocks{PCLK1Hz: pwmOpts.clockHz}, hwmutex.New())
			out := pwm.New(tm, timer.Channel1)

			if err := out.Init(pwmOpts.freqHz, pwmOpts.duty); err != nil {
				return fmt.Errorf("init %d Hz at %d.%d%%: %w",
					pwmOpts.freqHz, pwmOpts.duty/10, pwmOpts.duty%10, err)
			}
			if err := out.Start(); err != nil {
				return err
			}

			fmt.Printf("clock      %d Hz\n", pwmOpts.clockHz)
			fmt.Printf("divider    %d (prescale factor %d)\n", sim.Divider(), tm.Prescale())
			fmt.Printf("reload     %d\n", sim.Reload())
			fmt.Printf("compare    %d\n", sim.Compare(uint8(timer.Channel1)))
			fmt.Printf("read-back  %d Hz, duty %d/1000\n",
				out.SwitchingFrequencyHz(), out.DutyCycleTenthPct())
			return nil
		},
	}
)

func init() {
	pwmCmd.Flags().Uint32Var(&pwmOpts.clockHz, "clock", 80_000_000, "source clock in Hz")
	pwmCmd.Flags().Uint32Var(&pwmOpts.freqHz, "freq", 5000, "switching frequency in Hz")
	pwmCmd.Flags().Uint16Var(&pwmOpts.duty, "duty", 250, "duty cycle in tenths of a percent (0..1000)")
	rootCmd.AddCommand(pwmCmd)
}
