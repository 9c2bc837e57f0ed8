// Package scc builds the head-occurrence index over a ground program
// and computes strongly connected components under a configurable edge
// predicate, the C4 "dependency / SCC engine" of the design. It backs
// both lpcat's module-condition check (joint positive SCCs must not
// cross a module boundary) and lpshift's head-cycle-free partitioning
// of disjunctive heads.
package scc

import (
	"fmt"

	"github.com/tjanhunen/asptools-go/pkg/atom"
	"github.com/tjanhunen/asptools-go/pkg/rule"
)

// Occurrence is the per-atom record parallel to the symbol table: which
// rules have this atom as a head, and the fields Tarjan's algorithm
// needs (SCC, SCCSize, Visited) plus a couple of bits mirrored from the
// atom table (Status, Other) so the SCC engine never has to reach back
// into package atom mid-traversal.
type Occurrence struct {
	Rules   []*rule.Rule
	SCC     int
	SCCSize int
	Visited int
	Status  atom.Status
	Other   int
}

// Table is the occurrence-table analogue of atom.Table: one slice per
// atom-table slice, chained through Next, each holding one Occurrence
// per atom in its range.
type Table struct {
	Offset int
	Count  int
	Heads  []Occurrence
	Next   *Table
	Atoms  *atom.Table
}

// Initialize allocates one Occurrence per atom of t, seeding Status
// from the atom table's INPUT bit (and VISIBLE, if the atom is named)
// and Other from the atom table's relocation slot.
func Initialize(t *atom.Table) *Table {
	var head, tail *Table
	for s := t; s != nil; s = s.Next {
		occ := &Table{
			Offset: s.Offset,
			Count:  s.Count,
			Heads:  make([]Occurrence, s.Count+1),
			Atoms:  s,
		}
		for i := 1; i <= s.Count; i++ {
			h := &occ.Heads[i]
			h.Status = s.Statuses[i] & atom.Input
			if s.Names[i] != nil {
				h.Status |= atom.Visible
			}
			h.Other = s.Others[i]
		}
		if head == nil {
			head = occ
		} else {
			tail.Next = occ
		}
		tail = occ
	}
	return head
}

// Append concatenates occurrences onto the end of table's chain,
// mirroring atom.AppendTable for occurrence tables.
func Append(table, occurrences *Table) *Table {
	if table == nil {
		return occurrences
	}
	scan := table
	for scan.Next != nil {
		scan = scan.Next
	}
	scan.Next = occurrences
	return table
}

// Find locates the Occurrence for atomID, walking the slice chain.
func Find(occtab *Table, atomID int) (*Occurrence, error) {
	for s := occtab; s != nil; s = s.Next {
		if atomID > s.Offset && atomID <= s.Offset+s.Count {
			return &s.Heads[atomID-s.Offset], nil
		}
	}
	return nil, fmt.Errorf("scc: atom %d not found in occurrence table", atomID)
}

// ComputeOccurrences populates every Occurrence's Rules with the rules
// of p that have the corresponding atom as one of their heads, skipping
// atoms whose Status intersects prune. The source material does this in
// two passes (count, then allocate and populate) to size each atom's
// rule array exactly once; Go's growable slices make that unnecessary,
// so this is a single append-as-you-go pass with the same prune
// semantics.
func ComputeOccurrences(p *rule.Program, occtab *Table, prune atom.Status) error {
	var err error
	p.Walk(func(r *rule.Rule) {
		if err != nil {
			return
		}
		for _, h := range r.Head {
			occ, e := Find(occtab, h)
			if e != nil {
				err = e
				return
			}
			if !occ.Status.Has(prune) {
				occ.Rules = append(occ.Rules, r)
			}
		}
	})
	return err
}
