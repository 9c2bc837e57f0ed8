package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBasic(t *testing.T) {
	r := NewBasic(1, []int{2, 3}, []int{4})
	assert.Equal(t, Basic, r.Kind)
	assert.Equal(t, []int{1}, r.Head)
	assert.Equal(t, []int{2, 3}, r.Pos)
	assert.Equal(t, []int{4}, r.Neg)
	assert.Equal(t, 1, r.HeadCount())
	assert.Equal(t, 2, r.PosCount())
	assert.Equal(t, 1, r.NegCount())
}

func TestNewConstraintAndWeightFieldOrder(t *testing.T) {
	c := NewConstraint(1, 2, []int{3}, []int{4})
	assert.Equal(t, Constraint, c.Kind)
	assert.Equal(t, 2, c.Bound)

	w := NewWeight(1, 5, []int{2}, []int{3}, []int{10, 20})
	assert.Equal(t, Weight, w.Kind)
	assert.Equal(t, 5, w.Bound)
	assert.Equal(t, []int{10, 20}, w.Weights)
}

func TestNewChoiceDisjunctiveIntegrityOptimize(t *testing.T) {
	choice := NewChoice([]int{1, 2}, []int{3}, nil)
	assert.Equal(t, Choice, choice.Kind)
	assert.Equal(t, []int{1, 2}, choice.Head)

	disj := NewDisjunctive([]int{1, 2, 3}, nil, []int{4})
	assert.Equal(t, Disjunctive, disj.Kind)

	integrity := NewIntegrity([]int{1}, []int{2})
	assert.Equal(t, Integrity, integrity.Kind)
	assert.Empty(t, integrity.Head)

	opt := NewOptimize([]int{1}, []int{2}, []int{5, 7})
	assert.Equal(t, Optimize, opt.Kind)
	assert.Empty(t, opt.Head)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "basic", Basic.String())
	assert.Equal(t, "disjunctive", Disjunctive.String())
	assert.Contains(t, Kind(99).String(), "kind(99)")
}

func TestProgramAddAppendWalk(t *testing.T) {
	p := NewProgram()
	r1 := NewBasic(1, nil, nil)
	r2 := NewBasic(2, nil, nil)
	p.Add(r1)
	require.Equal(t, 1, p.Len())

	other := NewProgram()
	other.Add(r2)
	p.Append(other)
	require.Equal(t, 2, p.Len())

	var seen []*Rule
	p.Walk(func(r *Rule) { seen = append(seen, r) })
	assert.Equal(t, []*Rule{r1, r2}, seen)
}

func TestProgramNilSafety(t *testing.T) {
	var p *Program
	assert.Equal(t, 0, p.Len())
	assert.NotPanics(t, func() { p.Walk(func(*Rule) {}) })
}

func TestProgramAppendNilOther(t *testing.T) {
	p := NewProgram()
	p.Add(NewBasic(1, nil, nil))
	p.Append(nil)
	assert.Equal(t, 1, p.Len())
}
