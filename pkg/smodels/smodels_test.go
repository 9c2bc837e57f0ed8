package smodels

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjanhunen/asptools-go/pkg/atom"
	"github.com/tjanhunen/asptools-go/pkg/rule"
)

func TestReadProgramAllSevenKinds(t *testing.T) {
	src := strings.Join([]string{
		"1 1 1 0 2",    // basic: head 1, len 1, negLen 0, pos {2}
		"2 3 1 1 1 4",  // constraint: head 3, len 1, negLen 1, bound 1, neg {4}
		"3 1 5 0 0",    // choice: 1 head {5}, len 0, negLen 0
		"4 0 0",        // integrity: len 0, negLen 0
		"5 6 2 1 1 7 9", // weight: head 6, bound 2, len 1, negLen 1, neg {7}, weight {9}
		"6 0 1 0 8 5",  // optimize: leading 0, len 1, negLen 0, pos {8}, weight {5}
		"8 2 9 10 0 0", // disjunctive: heads {9,10}, len 0, negLen 0
		"0",
	}, "\n")

	p, err := ReadProgram(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, p.Rules, 7)

	assert.Equal(t, rule.Basic, p.Rules[0].Kind)
	assert.Equal(t, rule.Constraint, p.Rules[1].Kind)
	assert.Equal(t, rule.Choice, p.Rules[2].Kind)
	assert.Equal(t, rule.Integrity, p.Rules[3].Kind)
	assert.Equal(t, rule.Weight, p.Rules[4].Kind)
	assert.Equal(t, rule.Optimize, p.Rules[5].Kind)
	assert.Equal(t, rule.Disjunctive, p.Rules[6].Kind)
}

func TestWriteProgramReadProgramRoundTrip(t *testing.T) {
	p := rule.NewProgram()
	p.Add(rule.NewBasic(1, []int{2}, []int{3}))
	p.Add(rule.NewConstraint(4, 2, []int{5}, []int{6}))
	p.Add(rule.NewChoice([]int{7, 8}, []int{9}, nil))
	p.Add(rule.NewIntegrity([]int{10}, nil))
	p.Add(rule.NewWeight(11, 3, []int{12}, []int{13}, []int{1, 2}))
	p.Add(rule.NewOptimize([]int{14}, nil, []int{5}))
	p.Add(rule.NewDisjunctive([]int{15, 16}, []int{17}, nil))

	var buf bytes.Buffer
	require.NoError(t, WriteProgram(&buf, p))

	got, err := ReadProgram(&buf)
	require.NoError(t, err)
	require.Len(t, got.Rules, len(p.Rules))
	for i := range p.Rules {
		assert.Equal(t, p.Rules[i], got.Rules[i])
	}
}

func TestWriteRulesHasNoTerminator(t *testing.T) {
	p := rule.NewProgram()
	p.Add(rule.NewBasic(1, nil, nil))

	var buf bytes.Buffer
	require.NoError(t, WriteRules(&buf, p))
	assert.NotContains(t, strings.TrimSpace(buf.String()), "\n0")
}

func TestSymbolsRoundTrip(t *testing.T) {
	reg := atom.NewRegistry()
	tab := atom.NewTable(2, 0)
	tab.Names[1] = reg.Intern("a")
	tab.Names[2] = reg.Intern("b")

	var buf bytes.Buffer
	require.NoError(t, WriteSymbols(&buf, tab))

	reg2 := atom.NewRegistry()
	got, maxAtom, err := ReadSymbols(&buf, reg2)
	require.NoError(t, err)
	assert.Equal(t, 2, maxAtom)
	assert.Equal(t, "a", got.Names[1].Name)
	assert.Equal(t, "b", got.Names[2].Name)
}

func TestComputeStatementRoundTripWithE(t *testing.T) {
	cs := &ComputeStatement{Plus: []int{1}, Minus: []int{2}, Input: []int{3}, Models: 5}

	var buf bytes.Buffer
	require.NoError(t, WriteComputeStatement(&buf, cs))

	got, err := ReadComputeStatement(&buf)
	require.NoError(t, err)
	assert.Equal(t, cs, got)
}

func TestReadComputeStatementWithoutE(t *testing.T) {
	// Plain SMODELS stream from a grounder: no E section, the token
	// right after B- is the model count.
	src := "B+\n2\n0\nB-\n0\n1\n"
	cs, err := ReadComputeStatement(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, cs.Plus)
	assert.Empty(t, cs.Input)
	assert.Equal(t, 1, cs.Models)
}

func TestApplyComputeStatement(t *testing.T) {
	tab := atom.NewTable(3, 0)
	cs := &ComputeStatement{Plus: []int{1}, Minus: []int{2}, Input: []int{3}}

	require.NoError(t, ApplyComputeStatement(tab, cs))
	assert.True(t, tab.Statuses[1].Has(atom.True))
	assert.True(t, tab.Statuses[2].Has(atom.False))
	assert.True(t, tab.Statuses[3].Has(atom.Input))
}

func TestBuildComputeStatementCollectsStatusBits(t *testing.T) {
	tab := atom.NewTable(3, 0)
	tab.Statuses[1] |= atom.True
	tab.Statuses[2] |= atom.False
	tab.Statuses[3] |= atom.Input

	cs := BuildComputeStatement(tab, 7)
	assert.Equal(t, []int{1}, cs.Plus)
	assert.Equal(t, []int{2}, cs.Minus)
	assert.Equal(t, []int{3}, cs.Input)
	assert.Equal(t, 7, cs.Models)
}

func TestDecoderReadsMultipleModulesFromOneStream(t *testing.T) {
	module := func(name string) string {
		return "1 1 0 0\n0\n1 " + name + "\n0\nB+\n0\nB-\n0\nE\n0\n1\n"
	}
	src := module("a") + module("b")

	reg := atom.NewRegistry()
	dec := NewDecoder(strings.NewReader(src))

	_, t1, _, err := dec.ReadModule(reg)
	require.NoError(t, err)
	assert.Equal(t, "a", t1.Names[1].Name)

	_, t2, _, err := dec.ReadModule(reg)
	require.NoError(t, err)
	assert.Equal(t, "b", t2.Names[1].Name)

	_, _, _, err = dec.ReadModule(reg)
	assert.ErrorIs(t, err, io.EOF)
}

func TestWriteModuleReadModuleRoundTrip(t *testing.T) {
	reg := atom.NewRegistry()
	tab := atom.NewTable(1, 0)
	tab.Names[1] = reg.Intern("a")
	p := rule.NewProgram()
	p.Add(rule.NewBasic(1, nil, nil))
	cs := &ComputeStatement{Models: 1}

	var buf bytes.Buffer
	require.NoError(t, WriteModule(&buf, p, tab, cs))

	reg2 := atom.NewRegistry()
	gotP, gotT, gotCS, err := ReadModule(&buf, reg2)
	require.NoError(t, err)
	assert.Len(t, gotP.Rules, 1)
	assert.Equal(t, "a", gotT.Names[1].Name)
	assert.Equal(t, 1, gotCS.Models)
}
