package smodels

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/tjanhunen/asptools-go/pkg/atom"
	"github.com/tjanhunen/asptools-go/pkg/rule"
)

// atomName renders atomID the way the original's STYLE_READABLE spit_atom
// does: the symbol name if one is attached, else "_N".
func atomName(t *atom.Table, atomID int) string {
	if t != nil {
		if sym, err := atom.SymbolAt(t, atomID); err == nil && sym != nil {
			return sym.Name
		}
	}
	return fmt.Sprintf("_%d", atomID)
}

func literalList(t *atom.Table, pos, neg []int) string {
	parts := make([]string, 0, len(pos)+len(neg))
	for _, a := range neg {
		parts = append(parts, "not "+atomName(t, a))
	}
	for _, a := range pos {
		parts = append(parts, atomName(t, a))
	}
	return strings.Join(parts, ", ")
}

func headList(t *atom.Table, heads []int) string {
	names := make([]string, len(heads))
	for i, a := range heads {
		names[i] = atomName(t, a)
	}
	return strings.Join(names, ", ")
}

// WriteReadable renders p in the human-readable style lpcat and lpshift
// emit under -v: ordinary rule-arrow syntax rather than SMODELS numeric
// tokens, atoms printed by name where available.
func WriteReadable(w io.Writer, p *rule.Program, t *atom.Table) error {
	var err error
	p.Walk(func(r *rule.Rule) {
		if err != nil {
			return
		}
		var line string
		switch r.Kind {
		case rule.Basic:
			line = atomName(t, r.Head[0])
			if len(r.Pos)+len(r.Neg) > 0 {
				line += " :- " + literalList(t, r.Pos, r.Neg)
			}
			line += "."

		case rule.Constraint:
			line = fmt.Sprintf("%s :- %d {%s}.", atomName(t, r.Head[0]), r.Bound, literalList(t, r.Pos, r.Neg))

		case rule.Choice:
			line = "{" + headList(t, r.Head) + "}"
			if len(r.Pos)+len(r.Neg) > 0 {
				line += " :- " + literalList(t, r.Pos, r.Neg)
			}
			line += "."

		case rule.Integrity:
			line = ":- " + literalList(t, r.Pos, r.Neg) + "."

		case rule.Weight:
			lits := make([]string, 0, len(r.Pos)+len(r.Neg))
			wi := 0
			for _, a := range r.Neg {
				lits = append(lits, fmt.Sprintf("not %s=%d", atomName(t, a), r.Weights[wi]))
				wi++
			}
			for _, a := range r.Pos {
				lits = append(lits, fmt.Sprintf("%s=%d", atomName(t, a), r.Weights[wi]))
				wi++
			}
			line = fmt.Sprintf("%s :- %d {%s}.", atomName(t, r.Head[0]), r.Bound, strings.Join(lits, ", "))

		case rule.Optimize:
			lits := make([]string, 0, len(r.Pos)+len(r.Neg))
			wi := 0
			for _, a := range r.Neg {
				lits = append(lits, fmt.Sprintf("not %s=%d", atomName(t, a), r.Weights[wi]))
				wi++
			}
			for _, a := range r.Pos {
				lits = append(lits, fmt.Sprintf("%s=%d", atomName(t, a), r.Weights[wi]))
				wi++
			}
			line = fmt.Sprintf("minimize {%s}.", strings.Join(lits, ", "))

		case rule.Disjunctive:
			line = "{" + headList(t, r.Head) + "}"
			if len(r.Pos)+len(r.Neg) > 0 {
				line += " :- " + literalList(t, r.Pos, r.Neg)
			}
			line += "."

		default:
			err = fmt.Errorf("smodels: write readable: unknown kind %v", r.Kind)
			return
		}
		fmt.Fprintln(w, line)
	})
	return err
}

// WriteSymbolTable renders t as an aligned "atom  name  status" listing,
// the -v companion to WriteSymbols' numeric form.
func WriteSymbolTable(w io.Writer, t *atom.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ATOM\tNAME\tSTATUS")
	for s := t; s != nil; s = s.Next {
		for i := 1; i <= s.Count; i++ {
			sym := s.Names[i]
			if sym == nil {
				continue
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\n", i+s.Offset, sym.Name, statusString(s.Statuses[i]))
		}
	}
	return tw.Flush()
}

func statusString(st atom.Status) string {
	var bits []string
	if st.Has(atom.Visible) {
		bits = append(bits, "visible")
	}
	if st.Has(atom.Input) {
		bits = append(bits, "input")
	}
	if st.Has(atom.HeadOcc) {
		bits = append(bits, "head")
	}
	if st.Has(atom.PosOcc) {
		bits = append(bits, "pos")
	}
	if st.Has(atom.NegOcc) {
		bits = append(bits, "neg")
	}
	if st.Has(atom.True) {
		bits = append(bits, "true")
	}
	if st.Has(atom.False) {
		bits = append(bits, "false")
	}
	if len(bits) == 0 {
		return "-"
	}
	return strings.Join(bits, ",")
}
