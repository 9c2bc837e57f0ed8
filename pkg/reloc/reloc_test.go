package reloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjanhunen/asptools-go/pkg/atom"
	"github.com/tjanhunen/asptools-go/pkg/rule"
)

func newOccurringTable(count int) *atom.Table {
	t := atom.NewTable(count, 0)
	for i := 1; i <= count; i++ {
		t.Statuses[i] |= atom.Visible
	}
	return t
}

func TestRelocSymbolTableAssignsDenseInjectiveIds(t *testing.T) {
	tab := newOccurringTable(3)

	next, err := RelocSymbolTable(tab, 10)
	require.NoError(t, err)
	assert.Equal(t, 13, next)

	seen := map[int]bool{}
	for i := 1; i <= 3; i++ {
		other := tab.Others[i]
		assert.Greater(t, other, 10)
		assert.LessOrEqual(t, other, 13)
		assert.False(t, seen[other], "duplicate relocation target %d", other)
		seen[other] = true
	}
}

func TestRelocSymbolTableSkipsNonOccurringAtoms(t *testing.T) {
	tab := atom.NewTable(2, 0)
	tab.Statuses[1] |= atom.Visible

	next, err := RelocSymbolTable(tab, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, next)
	assert.Equal(t, 1, tab.Others[1])
	assert.Equal(t, 0, tab.Others[2])
}

func TestRelocSymbolTableRejectsNonContiguous(t *testing.T) {
	a := atom.NewTable(1, 0)
	a.Next = atom.NewTable(1, 1)
	_, err := RelocSymbolTable(a, 0)
	assert.ErrorIs(t, err, atom.ErrNonContiguous)
}

func TestRelocSymbolTableRejectsOversizedCrossReference(t *testing.T) {
	tab := atom.NewTable(1, 0)
	tab.Others[1] = 20
	_, err := RelocSymbolTable(tab, 5)
	assert.ErrorIs(t, err, atom.ErrCrossReferenceTooLarge)
}

func TestCompressSymbolTable(t *testing.T) {
	reg := atom.NewRegistry()
	tab := newOccurringTable(2)
	tab.Names[1] = reg.Intern("a")
	tab.Names[2] = reg.Intern("b")

	_, err := RelocSymbolTable(tab, 0)
	require.NoError(t, err)

	dest, err := CompressSymbolTable(tab, 2, 0)
	require.NoError(t, err)
	assert.True(t, atom.Contiguous(dest))
	assert.Equal(t, "a", dest.Names[1].Name)
	assert.Equal(t, "b", dest.Names[2].Name)
}

func TestRelocProgramRewritesAllPositions(t *testing.T) {
	tab := newOccurringTable(3)
	_, err := RelocSymbolTable(tab, 100)
	require.NoError(t, err)

	p := rule.NewProgram()
	p.Add(rule.NewBasic(1, []int{2}, []int{3}))

	require.NoError(t, RelocProgram(p, tab))
	r := p.Rules[0]
	assert.Greater(t, r.Head[0], 100)
	assert.Greater(t, r.Pos[0], 100)
	assert.Greater(t, r.Neg[0], 100)
}

func TestRelocProgramRejectsOutOfRangeAtom(t *testing.T) {
	tab := newOccurringTable(1)
	_, err := RelocSymbolTable(tab, 0)
	require.NoError(t, err)

	p := rule.NewProgram()
	p.Add(rule.NewBasic(5, nil, nil))

	err = RelocProgram(p, tab)
	assert.ErrorIs(t, err, atom.ErrAtomOutOfRange)
}
