// Package lpcat implements the module-aware linker/concatenator core
// (C5 of the design): it streams or collects ground-program modules,
// drives relocation (package reloc) and the joint-SCC module condition
// check (package scc), and emits the concatenated program through
// package smodels.
package lpcat

import (
	"fmt"
	"io"

	"github.com/tjanhunen/asptools-go/pkg/atom"
	"github.com/tjanhunen/asptools-go/pkg/reloc"
	"github.com/tjanhunen/asptools-go/pkg/rule"
	"github.com/tjanhunen/asptools-go/pkg/scc"
	"github.com/tjanhunen/asptools-go/pkg/smodels"
)

// Options mirrors lpcat's command-line surface (spec §6).
type Options struct {
	Verbose    bool // -v
	Collect    bool // -c
	Recursive  bool // -r
	Modular    bool // -m
	MarkInput  bool // -i, requires Modular
	FirstAtom  int  // -a=N, default 1
	SymbolFile string
}

// Run executes the full linker pipeline over files (plain module files
// and, with Meta set, -f meta files whose listed module files Run opens
// in turn) and writes the concatenated program to out. If
// opts.SymbolFile is non-empty, symOut receives the dummy symbol-only
// program ("-s" mode); callers open that writer themselves so Run
// never touches the filesystem directly.
func Run(opts Options, files []FileArg, out io.Writer, symOut io.Writer) error {
	if opts.MarkInput && !opts.Modular {
		return fmt.Errorf("lpcat: option -i presumes option -m")
	}
	if len(files) == 0 {
		files = []FileArg{{Path: "-"}}
	}

	firstAtom := opts.FirstAtom
	if firstAtom == 0 {
		firstAtom = 1
	}
	shift := firstAtom - 1

	reg := atom.NewRegistry()
	src := newModuleSource(files, reg, opts.Recursive)

	var table2 *atom.Table
	var program2 *rule.Program
	if opts.Collect {
		program2 = rule.NewProgram()
	}
	models := 1
	moduleID := 0

	if opts.Verbose && !opts.Collect {
		fmt.Fprintf(out, "%% Rules:\n\n")
	}

	for {
		program1, table1, cs1, err := src.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if err := smodels.ApplyComputeStatement(table1, cs1); err != nil {
			return fmt.Errorf("lpcat: apply compute statement: %w", err)
		}

		if opts.MarkInput {
			moduleID++
			if err := atom.MarkIOAtoms(program1, table1, moduleID); err != nil {
				return fmt.Errorf("lpcat: mark input atoms: %w", err)
			}
		}

		if err := atom.MarkOccurrences(program1, table1); err != nil {
			return fmt.Errorf("lpcat: mark occurrences: %w", err)
		}

		doublyDefined, err := atom.CombineAtomTables(table1, table2, opts.Modular)
		if err != nil {
			return fmt.Errorf("lpcat: combine atom tables: %w", err)
		}
		if doublyDefined != 0 {
			sym, _ := atom.SymbolAt(table1, doublyDefined)
			name := ""
			if sym != nil {
				name = sym.Name
			}
			conflict := &ModuleConflictError{Atom: doublyDefined, Name: name}
			if !opts.Verbose {
				return conflict
			}
			fmt.Fprintf(out, "%% warning: %s\n", conflict.Error())
		}

		if table1 != nil && table1.Next != nil {
			table1, err = atom.MakeContiguous(table1)
			if err != nil {
				return fmt.Errorf("lpcat: make contiguous: %w", err)
			}
		}

		atom.MarkVisible(table1)

		newTotal, err := reloc.RelocSymbolTable(table1, shift)
		if err != nil {
			return fmt.Errorf("lpcat: relocate symbol table: %w", err)
		}
		size1 := newTotal - shift

		if err := reloc.RelocProgram(program1, table1); err != nil {
			return fmt.Errorf("lpcat: relocate program: %w", err)
		}

		if !opts.Collect {
			if opts.Verbose {
				if err := smodels.WriteReadable(out, program1, table1); err != nil {
					return err
				}
			} else if err := smodels.WriteRules(out, program1); err != nil {
				return err
			}
			program1 = nil
		}

		if err := atom.TransferStatusBits(table1, table2); err != nil {
			return fmt.Errorf("lpcat: transfer status bits: %w", err)
		}

		if size1 > 0 {
			table1, err = reloc.CompressSymbolTable(table1, size1, shift)
			if err != nil {
				return fmt.Errorf("lpcat: compress symbol table: %w", err)
			}
			atom.AttachNamesToTable(table1)
			table2 = atom.AppendTable(table2, table1)
			shift += size1
		}

		if opts.Collect && program1 != nil {
			if program2 == nil {
				program2 = program1
			} else {
				program2.Append(program1)
			}
		}

		models *= cs1.Models
	}

	if opts.Modular && opts.Collect {
		occtab2 := scc.Initialize(table2)
		if err := scc.ComputeOccurrences(program2, occtab2, 0); err != nil {
			return fmt.Errorf("lpcat: compute occurrences: %w", err)
		}
		if err := scc.ComputeJointSCCs(occtab2, atom.Size(table2)); err != nil {
			return err
		}
	}

	if err := emit(opts, out, program2, table2, models); err != nil {
		return err
	}

	if opts.SymbolFile != "" && symOut != nil {
		if err := writeDummy(symOut, table2); err != nil {
			return err
		}
	}
	return nil
}

func emit(opts Options, out io.Writer, program2 *rule.Program, table2 *atom.Table, models int) error {
	if opts.Verbose {
		if opts.Collect {
			fmt.Fprintf(out, "\n%% Rules:\n\n")
			var err error
			if table2 != nil && table2.Next != nil {
				table2, err = atom.MakeContiguous(table2)
				if err != nil {
					return err
				}
			}
			if err := smodels.WriteReadable(out, program2, table2); err != nil {
				return err
			}
		}
		fmt.Fprintln(out)

		fmt.Fprint(out, "compute { ")
		if err := writeTrueFalseReadable(out, table2); err != nil {
			return err
		}
		fmt.Fprintf(out, " }.\n\n")

		if err := writeInputReadable(out, table2); err != nil {
			return err
		}

		fmt.Fprintf(out, "%% Symbols:\n\n")
		return smodels.WriteSymbolTable(out, table2)
	}

	if opts.Collect {
		var err error
		if table2 != nil && table2.Next != nil {
			table2, err = atom.MakeContiguous(table2)
			if err != nil {
				return err
			}
		}
		if err := smodels.WriteProgram(out, program2); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, 0)
	}

	if err := smodels.WriteSymbols(out, table2); err != nil {
		return err
	}

	atom.ResetInputAtoms(table2)
	cs := smodels.BuildComputeStatement(table2, models)
	return smodels.WriteComputeStatement(out, cs)
}

func writeTrueFalseReadable(w io.Writer, t *atom.Table) error {
	var names []string
	for s := t; s != nil; s = s.Next {
		for i := 1; i <= s.Count; i++ {
			if s.Statuses[i].Has(atom.TrueOrFalse) {
				name := fmt.Sprintf("_%d", i+s.Offset)
				if sym := s.Names[i]; sym != nil {
					name = sym.Name
				}
				if s.Statuses[i].Has(atom.False) {
					name = "not " + name
				}
				names = append(names, name)
			}
		}
	}
	for i, n := range names {
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		fmt.Fprint(w, n)
	}
	return nil
}

func writeInputReadable(w io.Writer, t *atom.Table) error {
	for s := t; s != nil; s = s.Next {
		for i := 1; i <= s.Count; i++ {
			if s.Names[i] != nil && s.Statuses[i].Has(atom.Input) {
				fmt.Fprintf(w, "input(%s).\n", s.Names[i].Name)
			}
		}
	}
	return nil
}

// writeDummy writes the -s symbol-only program: an empty rule section,
// the real symbol table, empty B+ and B- sets, no E section, and a
// trailing model count of 0 -- the exact shape lpcat's own "-s"
// companion file has.
func writeDummy(w io.Writer, t *atom.Table) error {
	fmt.Fprintln(w, 0)
	if err := smodels.WriteSymbols(w, t); err != nil {
		return err
	}
	fmt.Fprintln(w, "B+")
	fmt.Fprintln(w, 0)
	fmt.Fprintln(w, "B-")
	fmt.Fprintln(w, 0)
	fmt.Fprintln(w, 0)
	return nil
}
