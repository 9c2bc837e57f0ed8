// Package lpshift implements the disjunction-shifting rewrite (C6 of
// the design): every disjunctive rule's head is partitioned by the SCCs
// its atoms belong to under positive dependencies, and each partition
// becomes its own rule, optionally routed through a single shared
// "joint body" helper atom when that shrinks the output.
package lpshift

import (
	"fmt"
	"io"

	"github.com/tjanhunen/asptools-go/pkg/atom"
	"github.com/tjanhunen/asptools-go/pkg/rule"
	"github.com/tjanhunen/asptools-go/pkg/scc"
	"github.com/tjanhunen/asptools-go/pkg/smodels"
)

// Options mirrors lpshift's command-line surface (spec §6).
type Options struct {
	Verbose               bool // -v
	Force                 bool // -f: ignore SCC partitioning, split every head
	ForceBodyCompression  bool // --bc
	NoBodyCompression     bool // --nb
}

// Run reads one module from in, shifts every disjunctive rule with more
// than one head atom, and writes the result to out.
func Run(opts Options, in io.Reader, out io.Writer) error {
	if opts.NoBodyCompression && opts.ForceBodyCompression {
		return fmt.Errorf("lpshift: options --bc and --nb are incompatible")
	}

	reg := atom.NewRegistry()
	program, table, cs, err := smodels.ReadModule(in, reg)
	if err != nil {
		return fmt.Errorf("lpshift: %w", err)
	}
	if err := smodels.ApplyComputeStatement(table, cs); err != nil {
		return fmt.Errorf("lpshift: apply compute statement: %w", err)
	}

	size := atom.Size(table)
	newAtom := size + 1

	var occtab *scc.Table
	if !opts.Force {
		occtab = scc.Initialize(table)
		if err := scc.ComputeOccurrences(program, occtab, 0); err != nil {
			return fmt.Errorf("lpshift: compute occurrences: %w", err)
		}
		if err := scc.ComputeSCCs(occtab, size, atom.PosOcc); err != nil {
			return fmt.Errorf("lpshift: compute sccs: %w", err)
		}
	}

	out2 := rule.NewProgram()
	for _, r := range program.Rules {
		switch {
		case r.Kind == rule.Disjunctive && len(r.Head) > 1:
			var shifted []*rule.Rule
			newAtom, shifted, err = shiftRule(r, opts, table, occtab, newAtom)
			if err != nil {
				return fmt.Errorf("lpshift: shift rule: %w", err)
			}
			for _, sr := range shifted {
				out2.Add(sr)
			}

		case r.Kind == rule.Disjunctive:
			out2.Add(transformIntoBasic(r))

		default:
			out2.Add(r)
		}
	}

	return emit(opts, out, out2, table)
}

func emit(opts Options, out io.Writer, program *rule.Program, table *atom.Table) error {
	if opts.Verbose {
		if err := smodels.WriteReadable(out, program, table); err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, "compute { ")
		writeTrueFalse(out, table)
		fmt.Fprintf(out, " }.\n\n")
		writeInputReadable(out, table)
		return nil
	}

	if err := smodels.WriteProgram(out, program); err != nil {
		return err
	}
	if err := smodels.WriteSymbols(out, table); err != nil {
		return err
	}

	cs := smodels.BuildComputeStatement(table, 0)
	return smodels.WriteComputeStatement(out, cs)
}

func writeTrueFalse(w io.Writer, t *atom.Table) {
	first := true
	for s := t; s != nil; s = s.Next {
		for i := 1; i <= s.Count; i++ {
			if !s.Statuses[i].Has(atom.TrueOrFalse) {
				continue
			}
			if !first {
				fmt.Fprint(w, ", ")
			}
			first = false
			name := fmt.Sprintf("_%d", i+s.Offset)
			if sym := s.Names[i]; sym != nil {
				name = sym.Name
			}
			if s.Statuses[i].Has(atom.False) {
				name = "not " + name
			}
			fmt.Fprint(w, name)
		}
	}
}

func writeInputReadable(w io.Writer, t *atom.Table) {
	for s := t; s != nil; s = s.Next {
		for i := 1; i <= s.Count; i++ {
			if s.Names[i] != nil && s.Statuses[i].Has(atom.Input) {
				fmt.Fprintf(w, "input(%s).\n", s.Names[i].Name)
			}
		}
	}
}

// getSCC returns the SCC id of atomID, or 0 when occtab is nil (-f was
// given) or the atom has none -- matching the original's get_scc, whose
// "no occurrence record" branch returns 0.
func getSCC(occtab *scc.Table, atomID int) int {
	if occtab == nil {
		return 0
	}
	occ, err := scc.Find(occtab, atomID)
	if err != nil {
		return 0
	}
	return occ.SCC
}

// partitionHeadBySCCs groups heads sharing an SCC adjacent to each
// other, in place, and returns the number of groups formed.
func partitionHeadBySCCs(heads []int, occtab *scc.Table) int {
	groups := 0
	n := len(heads)
	for i := 0; i < n; i++ {
		sccID := getSCC(occtab, heads[i])
		groups++
		for j := i + 1; j < n; j++ {
			if sccID == getSCC(occtab, heads[j]) {
				i++
				if j > i {
					heads[j], heads[i] = heads[i], heads[j]
				}
			}
		}
	}
	return groups
}

// transformIntoBasic rewrites a single-head disjunctive rule into the
// equivalent BASIC rule -- shifting is a no-op for one head, but the
// DISJUNCTIVE encoding itself still needs normalizing away.
func transformIntoBasic(r *rule.Rule) *rule.Rule {
	return rule.NewBasic(r.Head[0], r.Pos, r.Neg)
}

// shiftRule partitions r's head by SCC and emits one rule per
// partition -- a BASIC rule for a singleton partition, a smaller
// DISJUNCTIVE rule otherwise -- optionally funneling the shared body
// through one freshly allocated "joint body" atom when that shrinks the
// output. Returns the rules to emit, in order, and the next unused atom
// number.
func shiftRule(r *rule.Rule, opts Options, table *atom.Table, occtab *scc.Table, newAtom int) (int, []*rule.Rule, error) {
	heads := append([]int(nil), r.Head...)
	headCnt := len(heads)
	n := partitionHeadBySCCs(heads, occtab)
	if opts.Force {
		n = headCnt
	}

	posCnt, negCnt := len(r.Pos), len(r.Neg)

	bodyCompress := (!opts.NoBodyCompression && (n-1)*(posCnt+negCnt) > n+3) ||
		(opts.ForceBodyCompression && posCnt+negCnt > 1)

	var out []*rule.Rule
	jointBody := 0
	if bodyCompress {
		atom.ExtendTable(table, 1)
		jointBody = newAtom
		newAtom++
		out = append(out, rule.NewBasic(jointBody, r.Pos, r.Neg))
	}

	var sccID int
	if !opts.Force {
		sccID = getSCC(occtab, heads[0])
	}

	i := 0
	for i < headCnt {
		j := i
		if !opts.Force {
			for j < headCnt && sccID == getSCC(occtab, heads[j]) {
				j++
			}
		} else {
			j++
		}
		newHeadCnt := j - i

		var pos, neg []int
		if jointBody != 0 {
			pos = []int{jointBody}
			neg = make([]int, 0, headCnt-newHeadCnt)
			neg = append(neg, heads[:i]...)
			neg = append(neg, heads[j:]...)
		} else {
			pos = r.Pos
			neg = make([]int, 0, negCnt+headCnt-newHeadCnt)
			neg = append(neg, r.Neg...)
			neg = append(neg, heads[:i]...)
			neg = append(neg, heads[j:]...)
		}

		if newHeadCnt == 1 {
			out = append(out, rule.NewBasic(heads[i], pos, neg))
		} else {
			out = append(out, rule.NewDisjunctive(append([]int(nil), heads[i:j]...), pos, neg))
		}

		i = j
		if i < headCnt && !opts.Force {
			sccID = getSCC(occtab, heads[i])
		}
	}

	return newAtom, out, nil
}
