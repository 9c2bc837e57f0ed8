package smodels

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tjanhunen/asptools-go/pkg/atom"
	"github.com/tjanhunen/asptools-go/pkg/rule"
)

// WriteRules writes p's rules, one SMODELS line per rule, with no
// terminating 0 -- the primitive lpcat's streaming mode needs, since it
// writes each module's rules as they are relocated and saves the single
// terminator for after the last module.
func WriteRules(w io.Writer, p *rule.Program) error {
	bw := bufio.NewWriter(w)
	var werr error
	p.Walk(func(r *rule.Rule) {
		if werr != nil {
			return
		}
		werr = writeRule(bw, r)
	})
	if werr != nil {
		return werr
	}
	return bw.Flush()
}

// WriteProgram writes p's rules followed by the terminating 0.
// Round-tripping ReadProgram(WriteProgram(p)) must reproduce p
// bit-for-bit in numeric form (spec §8 invariant 7).
func WriteProgram(w io.Writer, p *rule.Program) error {
	if err := WriteRules(w, p); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, 0)
	return err
}

func writeInts(w *bufio.Writer, vals ...int) {
	for i, v := range vals {
		if i > 0 {
			w.WriteByte(' ')
		}
		fmt.Fprintf(w, "%d", v)
	}
	w.WriteByte('\n')
}

func writeRule(w *bufio.Writer, r *rule.Rule) error {
	switch r.Kind {
	case rule.Basic:
		line := append([]int{tagBasic, r.Head[0], len(r.Pos) + len(r.Neg), len(r.Neg)}, r.Neg...)
		line = append(line, r.Pos...)
		writeInts(w, line...)

	case rule.Constraint:
		line := append([]int{tagConstraint, r.Head[0], len(r.Pos) + len(r.Neg), len(r.Neg), r.Bound}, r.Neg...)
		line = append(line, r.Pos...)
		writeInts(w, line...)

	case rule.Choice:
		line := []int{tagChoice, len(r.Head)}
		line = append(line, r.Head...)
		line = append(line, len(r.Pos)+len(r.Neg), len(r.Neg))
		line = append(line, r.Neg...)
		line = append(line, r.Pos...)
		writeInts(w, line...)

	case rule.Integrity:
		line := []int{tagIntegrity, len(r.Pos) + len(r.Neg), len(r.Neg)}
		line = append(line, r.Neg...)
		line = append(line, r.Pos...)
		writeInts(w, line...)

	case rule.Weight:
		line := []int{tagWeight, r.Head[0], r.Bound, len(r.Pos) + len(r.Neg), len(r.Neg)}
		line = append(line, r.Neg...)
		line = append(line, r.Pos...)
		line = append(line, r.Weights...)
		writeInts(w, line...)

	case rule.Optimize:
		line := []int{tagOptimize, 0, len(r.Pos) + len(r.Neg), len(r.Neg)}
		line = append(line, r.Neg...)
		line = append(line, r.Pos...)
		line = append(line, r.Weights...)
		writeInts(w, line...)

	case rule.Disjunctive:
		line := []int{tagDisjunctive, len(r.Head)}
		line = append(line, r.Head...)
		line = append(line, len(r.Pos)+len(r.Neg), len(r.Neg))
		line = append(line, r.Neg...)
		line = append(line, r.Pos...)
		writeInts(w, line...)

	default:
		return fmt.Errorf("smodels: write rule: unknown kind %v", r.Kind)
	}
	return nil
}

// WriteSymbols writes every named atom of t as an "atom name" line, in
// atom-number order, followed by the terminating 0.
func WriteSymbols(w io.Writer, t *atom.Table) error {
	bw := bufio.NewWriter(w)
	for s := t; s != nil; s = s.Next {
		for i := 1; i <= s.Count; i++ {
			if sym := s.Names[i]; sym != nil {
				fmt.Fprintf(bw, "%d %s\n", i+s.Offset, sym.Name)
			}
		}
	}
	fmt.Fprintln(bw, 0)
	return bw.Flush()
}

func writeSet(w *bufio.Writer, atoms []int) {
	for _, a := range atoms {
		fmt.Fprintln(w, a)
	}
	fmt.Fprintln(w, 0)
}

// WriteComputeStatement writes "B+"/atoms/0, "B-"/atoms/0, "E"/atoms/0
// and the trailing model count, matching ReadComputeStatement. The E
// section is always emitted: it is lpcat's own extension to the format,
// so lpcat's output always carries it even when empty.
func WriteComputeStatement(w io.Writer, cs *ComputeStatement) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "B+")
	writeSet(bw, cs.Plus)
	fmt.Fprintln(bw, "B-")
	writeSet(bw, cs.Minus)
	fmt.Fprintln(bw, "E")
	writeSet(bw, cs.Input)
	fmt.Fprintln(bw, cs.Models)
	return bw.Flush()
}

// WriteModule writes a complete module: program, symbols, then compute
// statement, mirroring ReadModule.
func WriteModule(w io.Writer, p *rule.Program, t *atom.Table, cs *ComputeStatement) error {
	if err := WriteProgram(w, p); err != nil {
		return err
	}
	if err := WriteSymbols(w, t); err != nil {
		return err
	}
	return WriteComputeStatement(w, cs)
}

// ApplyComputeStatement ORs the TRUE, FALSE and INPUT bits named by cs
// onto t's atom statuses -- the inverse of BuildComputeStatement, used
// right after a module is read so that its compute sets become part of
// the atom table's status bits rather than sitting to one side as a
// separate struct.
func ApplyComputeStatement(t *atom.Table, cs *ComputeStatement) error {
	mark := func(atoms []int, bit atom.Status) error {
		for _, a := range atoms {
			s, i, err := atom.Lookup(t, a)
			if err != nil {
				return err
			}
			s.Statuses[i] |= bit
		}
		return nil
	}
	if err := mark(cs.Plus, atom.True); err != nil {
		return fmt.Errorf("apply compute statement: B+: %w", err)
	}
	if err := mark(cs.Minus, atom.False); err != nil {
		return fmt.Errorf("apply compute statement: B-: %w", err)
	}
	if err := mark(cs.Input, atom.Input); err != nil {
		return fmt.Errorf("apply compute statement: E: %w", err)
	}
	return nil
}

// BuildComputeStatement collects the TRUE, FALSE and (post
// ResetInputAtoms) INPUT atoms of t into a ComputeStatement with the
// given model count, the shape lpcat's final emission step produces.
func BuildComputeStatement(t *atom.Table, models int) *ComputeStatement {
	cs := &ComputeStatement{Models: models}
	for s := t; s != nil; s = s.Next {
		for i := 1; i <= s.Count; i++ {
			atomID := i + s.Offset
			st := s.Statuses[i]
			if st.Has(atom.True) {
				cs.Plus = append(cs.Plus, atomID)
			}
			if st.Has(atom.False) {
				cs.Minus = append(cs.Minus, atomID)
			}
			if st.Has(atom.Input) {
				cs.Input = append(cs.Input, atomID)
			}
		}
	}
	return cs
}
