package main

import (
	"os"

	"github.com/aescanero/transrelay/internal/probe"
	"github.com/spf13/cobra"
)

// Version is set by build flags
var Version = "dev"

var depsOnly bool

var rootCmd = &cobra.Command{
	Use:   "transrelay-probe",
	Short: "Check the translation relay environment",
	Long: `Reports the Go runtime, whether each runtime dependency is linked into
the binary and whether the relay can be built from the current environment.

Exits non-zero when any check fails.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return probe.New(cmd.OutOrStdout()).Run(depsOnly)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&depsOnly, "deps-only", false, "only check dependencies, skip loading the relay")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
