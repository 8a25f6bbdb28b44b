// Package cmd provides the command-line interface of epileaf.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "epileaf",
	Short: "epileaf simulates foliar fungal epidemics on a growing canopy.",
	Long: `epileaf simulates a plant-disease epidemic by allocating shrinking
healthy leaf surface among competing fungal lesions, driven by
independently delayed thermal-time and calendar clocks over an hourly
weather sequence.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
