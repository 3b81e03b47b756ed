// Package cmd provides the command-line interface of memhier.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "memhier",
		Short: "memhier simulates a multi-level memory hierarchy cycle by cycle.",
		Long: `memhier simulates a chain of write-back caches over a terminal ` +
			`store at clock-cycle granularity. Accesses are polled once per ` +
			`cycle until they complete.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCmd())

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}
