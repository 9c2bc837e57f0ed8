// Command lpshift rewrites disjunctive rules with multiple head atoms
// into SCC-partitioned BASIC/DISJUNCTIVE rules.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tjanhunen/asptools-go/internal/trace"
	"github.com/tjanhunen/asptools-go/internal/version"
	"github.com/tjanhunen/asptools-go/pkg/lpshift"
)

var programName = "lpshift"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		os.Exit(255)
	}
}

func newRootCmd() *cobra.Command {
	var opts lpshift.Options
	var showVersion bool

	cmd := &cobra.Command{
		Use:           "lpshift [flags] [file]",
		Short:         "Shift disjunctive rule heads by SCC partition",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.Banner(programName))
				return nil
			}
			if opts.Verbose {
				trace.Enable()
			}

			in := os.Stdin
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("cannot open file %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}

			return lpshift.Run(opts, in, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "human-readable output")
	flags.BoolVarP(&opts.Force, "force", "f", false, "force shift, ignoring SCC partitioning")
	flags.BoolVar(&opts.ForceBodyCompression, "bc", false, "force body compression through a joint atom")
	flags.BoolVar(&opts.NoBodyCompression, "nb", false, "forbid body compression")
	flags.BoolVar(&showVersion, "version", false, "print version and exit")

	return cmd
}
