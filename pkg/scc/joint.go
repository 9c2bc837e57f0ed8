package scc

import (
	"fmt"

	"github.com/tjanhunen/asptools-go/pkg/atom"
)

// differentModules reports whether a1 and a2 are both named atoms
// stamped with a (nonzero) module id, and those ids differ. Unnamed
// atoms, or atoms never stamped by MarkIOAtoms, never trigger a module
// conflict -- matching the original's behavior when -i was not given:
// no atom ever receives a module id, so the joint-SCC pass becomes a
// no-op check that never fails.
func differentModules(a1, a2 int, table *atom.Table) (bool, error) {
	sym1, err := atom.SymbolAt(table, a1)
	if err != nil {
		return false, err
	}
	sym2, err := atom.SymbolAt(table, a2)
	if err != nil {
		return false, err
	}
	if sym1 == nil || sym2 == nil {
		return false, nil
	}
	if sym1.ModuleID != 0 && sym2.ModuleID != 0 && sym1.ModuleID != sym2.ModuleID {
		return true, nil
	}
	return false, nil
}

func atomDisplayName(a int, table *atom.Table) string {
	sym, err := atom.SymbolAt(table, a)
	if err != nil || sym == nil {
		return fmt.Sprintf("_%d", a)
	}
	return sym.Name
}

// ComputeJointSCCs computes SCCs under POSOCC edges only, without the
// VISIBLE filter, and fails as soon as it finds one spanning atoms
// stamped with two different module ids -- the module condition check
// lpcat runs under -c -m. It returns a *ModuleCycleError (wrapping
// ErrModuleCycle) naming every atom in the first offending component,
// in unwind order, exactly as spec §4.4 describes.
func ComputeJointSCCs(occtab *Table, maxAtom int) error {
	next := 0
	var sccStack []int

	visit := func(start int) error {
		var frames []*frame

		push := func(a int) error {
			h, err := Find(occtab, a)
			if err != nil {
				return err
			}
			next++
			h.Visited = next
			sccStack = append(sccStack, a)
			frames = append(frames, &frame{
				atomID: a,
				occ:    h,
				neigh:  posOnlyNeighbors(h),
				min:    next,
			})
			return nil
		}

		if err := push(start); err != nil {
			return err
		}

		for len(frames) > 0 {
			top := frames[len(frames)-1]

			if top.pos < len(top.neigh) {
				nb := top.neigh[top.pos]
				top.pos++

				bOcc, err := Find(occtab, nb.atom)
				if err != nil {
					return err
				}
				if bOcc.Visited == 0 {
					if err := push(nb.atom); err != nil {
						return err
					}
					continue
				}
				if bOcc.Visited < top.min {
					top.min = bOcc.Visited
				}
				continue
			}

			frames = frames[:len(frames)-1]

			if top.occ.Visited == top.min {
				idx := len(sccStack) - 1
				for sccStack[idx] != top.atomID {
					idx--
				}
				members := append([]int(nil), sccStack[idx:]...)
				size := len(members)

				fail := false
				for _, m := range members {
					if m == top.atomID {
						continue
					}
					diff, err := differentModules(top.atomID, m, occtab.Atoms)
					if err != nil {
						return err
					}
					if diff {
						fail = true
					}
				}

				for _, m := range members {
					mOcc, err := Find(occtab, m)
					if err != nil {
						return err
					}
					mOcc.SCC = top.min
					mOcc.SCCSize = size
					mOcc.Visited = maxAtom + 1
				}
				sccStack = sccStack[:idx]

				if fail {
					// Report in unwind order: most recently pushed first.
					for l, r := 0, len(members)-1; l < r; l, r = l+1, r-1 {
						members[l], members[r] = members[r], members[l]
					}
					names := make([]string, len(members))
					for i, m := range members {
						names[i] = atomDisplayName(m, occtab.Atoms)
					}
					return &ModuleCycleError{Atoms: members, Names: names}
				}
			}

			if len(frames) > 0 {
				parent := frames[len(frames)-1]
				if top.min < parent.min {
					parent.min = top.min
				}
			}
		}
		return nil
	}

	for s := occtab; s != nil; s = s.Next {
		for i := 1; i <= s.Count; i++ {
			a := i + s.Offset
			if s.Heads[i].Visited == 0 {
				if err := visit(a); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func posOnlyNeighbors(h *Occurrence) []neighbor {
	var out []neighbor
	for _, r := range h.Rules {
		for _, b := range r.Pos {
			out = append(out, neighbor{b, atom.PosOcc})
		}
	}
	return out
}
