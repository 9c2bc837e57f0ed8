// Package reloc renumbers a module's atoms into a destination id space
// and rewrites its rules to match, the C3 component of the linker
// design. It is the one package in this repo with the tightest
// invariants: every operation either leaves the dense, unique numbering
// contract spec §4.3 describes intact, or returns one of package atom's
// sentinel errors wrapped with enough context to print a diagnostic.
package reloc

import (
	"fmt"

	"github.com/tjanhunen/asptools-go/pkg/atom"
	"github.com/tjanhunen/asptools-go/pkg/rule"
)

// RelocSymbolTable walks the contiguous table t and assigns a fresh,
// dense atom number (starting at shift+1) to every atom that has not
// already been claimed by a previous module (Others[i] == 0) and that
// still occurs somewhere in the program (POSOCC, NEGOCC, HEADOCC or
// VISIBLE). Atoms already claimed are left untouched, except that a
// claim pointing past shift is rejected as a malformed cross-reference.
//
// Returns the final atom number assigned (shift if nothing new was
// assigned), matching the contract that after this call every surviving
// atom's Others value lies in (shift, new].
func RelocSymbolTable(t *atom.Table, shift int) (int, error) {
	if !atom.Contiguous(t) {
		return 0, atom.ErrNonContiguous
	}

	next := shift
	for i := 1; i <= t.Count; i++ {
		if other := t.Others[i]; other != 0 {
			if other > shift {
				return 0, fmt.Errorf("%w: atom %d has other=%d > shift=%d",
					atom.ErrCrossReferenceTooLarge, i+t.Offset, other, shift)
			}
			continue
		}

		status := t.Statuses[i]
		if status.Has(atom.PosOcc | atom.NegOcc | atom.HeadOcc | atom.Visible) {
			next++
			t.Others[i] = next
		}
	}

	return next, nil
}

// CompressSymbolTable materializes a fresh contiguous table of length
// size at the given shift, copying only the atoms relocated by this
// module (Others[j] > shift; atoms matched to a pre-existing
// destination atom have Others[j] <= shift and are left behind, since
// they already live in the destination table). The source table chain
// is consumed: callers should not reuse t after this call.
func CompressSymbolTable(t *atom.Table, size, shift int) (*atom.Table, error) {
	dest := atom.NewTable(size, shift)
	i := 1

	for s := t; s != nil; s = s.Next {
		for j := 1; j <= s.Count; j++ {
			other := s.Others[j]
			if other == 0 || other <= shift {
				continue
			}

			if i+shift != other {
				return nil, fmt.Errorf("reloc: relocation error for atom %d: expected other=%d, got %d",
					j+s.Offset, i+shift, other)
			}

			dest.Names[i] = s.Names[j]
			dest.Statuses[i] = s.Statuses[j]
			i++
		}
	}

	return dest, nil
}

// relocAtom maps a single atom through t's Others table. t must be
// contiguous, matching reloc_program's precondition in the original
// source.
func relocAtom(t *atom.Table, id int) (int, error) {
	if !atom.Contiguous(t) {
		return 0, atom.ErrNonContiguous
	}
	idx := id - t.Offset
	if idx < 1 || idx > t.Count {
		return 0, fmt.Errorf("%w: atom %d", atom.ErrAtomOutOfRange, id)
	}
	return t.Others[idx], nil
}

func relocList(ids []int, t *atom.Table) error {
	for i, id := range ids {
		newID, err := relocAtom(t, id)
		if err != nil {
			return err
		}
		ids[i] = newID
	}
	return nil
}

// RelocProgram rewrites every atom id in every rule of p through t's
// relocation table, in place. After this call, p's rules reference
// atoms in the range (shift, new] that RelocSymbolTable established.
func RelocProgram(p *rule.Program, t *atom.Table) error {
	if !atom.Contiguous(t) {
		return atom.ErrNonContiguous
	}

	var err error
	p.Walk(func(r *rule.Rule) {
		if err != nil {
			return
		}
		if e := relocList(r.Head, t); e != nil {
			err = fmt.Errorf("reloc program: head: %w", e)
			return
		}
		if e := relocList(r.Pos, t); e != nil {
			err = fmt.Errorf("reloc program: pos body: %w", e)
			return
		}
		if e := relocList(r.Neg, t); e != nil {
			err = fmt.Errorf("reloc program: neg body: %w", e)
			return
		}
	})
	return err
}
