package scc

import (
	"fmt"

	"github.com/tjanhunen/asptools-go/pkg/atom"
)

// neighbor is one edge out of an atom discovered while scanning the
// rules that define it: the atom depended upon, and which bit (PosOcc
// or NegOcc) the dependency came through.
type neighbor struct {
	atom int
	mark atom.Status
}

func neighbors(h *Occurrence, control atom.Status) []neighbor {
	var out []neighbor
	for _, r := range h.Rules {
		if control.Has(atom.PosOcc) {
			for _, b := range r.Pos {
				out = append(out, neighbor{b, atom.PosOcc})
			}
		}
		if control.Has(atom.NegOcc) {
			for _, b := range r.Neg {
				out = append(out, neighbor{b, atom.NegOcc})
			}
		}
	}
	return out
}

// frame is one level of the explicit call stack that replaces Tarjan's
// recursion, per spec §9's recommendation that the recursion be
// rewritten iteratively for programs large enough to exceed the default
// call stack. It carries exactly the state a resumed recursive call
// would need: which atom it is visiting, the precomputed neighbor list,
// how far through that list it has gotten, and the running low-link
// value ("min" in the source material's naming).
type frame struct {
	atomID int
	occ    *Occurrence
	neigh  []neighbor
	pos    int
	min    int
}

// ComputeSCCs runs Tarjan's algorithm over every atom of occtab under
// control, a bitmask selecting which edges to follow (PosOcc, NegOcc)
// and whether to skip visible atoms entirely (Visible). Two atoms end
// up in the same SCC iff each is reachable from the other using only
// edges control permits -- invariant 5 of spec §8.
func ComputeSCCs(occtab *Table, maxAtom int, control atom.Status) error {
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
				neigh:  neighbors(h, control),
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
				if control.Has(atom.Visible) && bOcc.Status.Has(atom.Visible) {
					continue
				}
				bOcc.Status |= nb.mark

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

			// All neighbors processed: finalize this frame's SCC if it
			// is a root, then fold its min into its parent's.
			frames = frames[:len(frames)-1]

			if top.occ.Visited == top.min {
				idx := len(sccStack) - 1
				for sccStack[idx] != top.atomID {
					idx--
				}
				members := sccStack[idx:]
				size := len(members)
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
			h := &s.Heads[i]
			if control.Has(atom.Visible) && h.Status.Has(atom.Visible) {
				continue
			}
			if h.Visited == 0 {
				if err := visit(a); err != nil {
					return fmt.Errorf("compute sccs: %w", err)
				}
			}
		}
	}
	return nil
}
