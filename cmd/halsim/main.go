// halsim exercises the timer/PWM/motor stack against simulated registers so
// register maths can be inspected on a host machine without hardware.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "halsim",
	Short: "Simulate timer, PWM and motor register programming",
	Long: "halsim computes the divider, reload and compare values the HAL would " +
		"program for a given clock and target, using simulated registers.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
