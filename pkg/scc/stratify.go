package scc

import (
	"github.com/tjanhunen/asptools-go/pkg/atom"
	"github.com/tjanhunen/asptools-go/pkg/rule"
)

// inSCC reports whether any invisible atom of neg belongs to sccID.
func inSCC(sccID int, neg []int, occtab *Table) (bool, error) {
	for _, a := range neg {
		occ, err := Find(occtab, a)
		if err != nil {
			return false, err
		}
		if !occ.Status.Has(atom.Visible) && occ.SCC == sccID {
			return true, nil
		}
	}
	return false, nil
}

// IsStratifiable reports whether the program is stratified with respect
// to the SCCs already computed in occtab (under POSOCC|NEGOCC edges,
// skipping visible atoms -- ComputeSCCs called with that control mask).
// An invisible atom breaks stratification if it has a CHOICE-rule
// definition, or if one of its defining rules has a negative literal on
// an invisible atom in its own SCC. Matches spec §4.4's "stratifiable"
// invariant.
func IsStratifiable(occtab *Table) (bool, error) {
	for s := occtab; s != nil; s = s.Next {
		for i := 1; i <= s.Count; i++ {
			h := &s.Heads[i]
			if h.Status.Has(atom.Visible) {
				continue
			}

			for _, r := range h.Rules {
				if r.Kind == rule.Choice {
					return false, nil
				}
				broken, err := inSCC(h.SCC, r.Neg, occtab)
				if err != nil {
					return false, err
				}
				if broken {
					return false, nil
				}
			}
		}
	}
	return true, nil
}
