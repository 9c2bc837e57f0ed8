// Command planar generates a random planar-ish acyclic ground program,
// for use as test fixture input to lpcat/lpshift.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tjanhunen/asptools-go/internal/version"
	"github.com/tjanhunen/asptools-go/pkg/atom"
	"github.com/tjanhunen/asptools-go/pkg/planar"
)

var programName = "planar"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		os.Exit(255)
	}
}

func newRootCmd() *cobra.Command {
	var opts planar.Options
	var showVersion bool

	cmd := &cobra.Command{
		Use:           "planar [flags]",
		Short:         "Generate a random planar acyclic ground program",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.Banner(programName))
				return nil
			}
			if opts.Nodes < 1 {
				return fmt.Errorf("--nodes must be at least 1")
			}
			reg := atom.NewRegistry()
			return planar.Write(cmd.OutOrStdout(), opts, reg)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.Nodes, "nodes", "n", 10, "number of point atoms")
	flags.Float64VarP(&opts.EdgeDensity, "density", "d", 0.5, "probability an eligible edge is included")
	flags.Uint64VarP(&opts.Seed, "seed", "s", 0, "random seed (0 seeds from a fresh random source)")
	flags.BoolVar(&showVersion, "version", false, "print version and exit")

	return cmd
}
