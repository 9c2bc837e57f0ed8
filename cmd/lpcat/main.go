// Command lpcat concatenates and relocates one or more SMODELS ground
// modules into a single program, optionally enforcing the ASP modular
// framework's module conditions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tjanhunen/asptools-go/internal/trace"
	"github.com/tjanhunen/asptools-go/internal/version"
	"github.com/tjanhunen/asptools-go/pkg/lpcat"
)

var programName = "lpcat"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		os.Exit(255)
	}
}

func newRootCmd() *cobra.Command {
	var opts lpcat.Options
	var metaFiles []string
	var symbolFile string
	var showVersion bool

	cmd := &cobra.Command{
		Use:           "lpcat [flags] [-f metafile] file...",
		Short:         "Concatenate and relocate SMODELS ground modules",
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

			opts.SymbolFile = symbolFile
			files := make([]lpcat.FileArg, 0, len(metaFiles)+len(args))
			for _, m := range metaFiles {
				files = append(files, lpcat.FileArg{Path: m, Meta: true})
			}
			for _, a := range args {
				files = append(files, lpcat.FileArg{Path: a})
			}

			var symOut *os.File
			if symbolFile != "" {
				f, err := os.Create(symbolFile)
				if err != nil {
					return fmt.Errorf("cannot create symbol file %s: %w", symbolFile, err)
				}
				defer f.Close()
				symOut = f
			}

			return lpcat.Run(opts, files, cmd.OutOrStdout(), symOut)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "human-readable output")
	flags.BoolVarP(&opts.Collect, "collect", "c", false, "collect the whole program in memory before emitting it")
	flags.StringArrayVarP(&metaFiles, "filelist", "f", nil, "a file listing module filenames, one per line (repeatable)")
	flags.BoolVarP(&opts.Recursive, "recursive", "r", false, "read modules recursively from each stream until EOF")
	flags.BoolVarP(&opts.Modular, "modular", "m", false, "enforce module conditions (doubly-defined check + joint SCC check)")
	flags.BoolVarP(&opts.MarkInput, "input", "i", false, "mark input atoms (requires -m)")
	flags.IntVarP(&opts.FirstAtom, "first-atom", "a", 1, "first assignable atom number")
	flags.StringVarP(&symbolFile, "symbol-file", "s", "", "also write a symbol-only dummy program to FILE")
	flags.BoolVar(&showVersion, "version", false, "print version and exit")

	return cmd
}
