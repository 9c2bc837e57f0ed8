// Package rule defines the ground-program rule store: a tagged variant
// over the seven SMODELS rule shapes, and the program that collects them.
//
// A rule owns its head/positive-body/negative-body integer sequences.
// Atom identities are plain ints; this package has no notion of names,
// visibility or status bits -- those live in package atom, which depends
// on this package rather than the other way around.
package rule

import "fmt"

// Kind tags the seven rule shapes a program can contain.
type Kind int

const (
	Basic Kind = iota + 1
	Constraint
	Choice
	Integrity
	Weight
	Optimize
	Disjunctive
)

func (k Kind) String() string {
	switch k {
	case Basic:
		return "basic"
	case Constraint:
		return "constraint"
	case Choice:
		return "choice"
	case Integrity:
		return "integrity"
	case Weight:
		return "weight"
	case Optimize:
		return "optimize"
	case Disjunctive:
		return "disjunctive"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rule is a closed sum over the seven SMODELS rule shapes. The payload
// fields that don't apply to a given Kind are left at their zero value.
//
//   - Basic, Constraint, Weight: single-atom Head[0], no other heads.
//   - Choice, Disjunctive: Head holds all head atoms.
//   - Integrity, Optimize: Head is empty.
//   - Weight, Optimize: Weights holds one weight per literal, ordered
//     to match the concatenation Neg followed by Pos (the wire order).
//   - Constraint, Weight: Bound holds the cardinality/weight bound.
type Rule struct {
	Kind    Kind
	Head    []int
	Pos     []int
	Neg     []int
	Weights []int
	Bound   int
}

// NewBasic builds a BASIC rule h :- pos, not neg.
func NewBasic(head int, pos, neg []int) *Rule {
	return &Rule{Kind: Basic, Head: []int{head}, Pos: pos, Neg: neg}
}

// NewConstraint builds a cardinality rule h :- bound { pos, not neg }.
func NewConstraint(head, bound int, pos, neg []int) *Rule {
	return &Rule{Kind: Constraint, Head: []int{head}, Pos: pos, Neg: neg, Bound: bound}
}

// NewChoice builds a choice rule { h1..hn } :- pos, not neg.
func NewChoice(heads, pos, neg []int) *Rule {
	return &Rule{Kind: Choice, Head: heads, Pos: pos, Neg: neg}
}

// NewIntegrity builds an integrity constraint :- pos, not neg.
func NewIntegrity(pos, neg []int) *Rule {
	return &Rule{Kind: Integrity, Pos: pos, Neg: neg}
}

// NewWeight builds a weight rule h :- bound [ pos=w, not neg=w ].
// weights must be ordered neg-then-pos, matching Neg followed by Pos.
func NewWeight(head, bound int, pos, neg, weights []int) *Rule {
	return &Rule{Kind: Weight, Head: []int{head}, Pos: pos, Neg: neg, Weights: weights, Bound: bound}
}

// NewOptimize builds a minimize statement over weighted literals.
func NewOptimize(pos, neg, weights []int) *Rule {
	return &Rule{Kind: Optimize, Pos: pos, Neg: neg, Weights: weights}
}

// NewDisjunctive builds h1 v .. v hn :- pos, not neg.
func NewDisjunctive(heads, pos, neg []int) *Rule {
	return &Rule{Kind: Disjunctive, Head: heads, Pos: pos, Neg: neg}
}

// HeadCount, PosCount, NegCount report literal counts without requiring
// callers to nil-check the slices.
func (r *Rule) HeadCount() int { return len(r.Head) }
func (r *Rule) PosCount() int  { return len(r.Pos) }
func (r *Rule) NegCount() int  { return len(r.Neg) }

// Heads, PosBody, NegBody return the owned literal slices.
func (r *Rule) Heads() []int  { return r.Head }
func (r *Rule) PosBody() []int { return r.Pos }
func (r *Rule) NegBody() []int { return r.Neg }

// Program is an ordered sequence of rules. Iteration order equals
// insertion order and is significant: it determines output order.
type Program struct {
	Rules []*Rule
}

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{}
}

// Add appends a single rule, preserving order.
func (p *Program) Add(r *Rule) {
	p.Rules = append(p.Rules, r)
}

// Append concatenates other onto p and returns p, matching the
// append(program, program') contract from the rule-store design: the
// result is the ordered concatenation of both sequences.
func (p *Program) Append(other *Program) *Program {
	if other == nil {
		return p
	}
	p.Rules = append(p.Rules, other.Rules...)
	return p
}

// Len reports the number of rules in the program.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Rules)
}

// Walk calls fn for every rule in order. fn may mutate the rule in
// place (e.g. during relocation) but must not change the program's
// length.
func (p *Program) Walk(fn func(*Rule)) {
	if p == nil {
		return
	}
	for _, r := range p.Rules {
		fn(r)
	}
}
