package atom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryInternIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	a1 := reg.Intern("foo")
	a2 := reg.Intern("foo")
	assert.Same(t, a1, a2)

	b := reg.Intern("bar")
	assert.NotSame(t, a1, b)
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	reg.Intern("foo")

	sym, ok := reg.Lookup("foo")
	assert.True(t, ok)
	assert.Equal(t, "foo", sym.Name)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestFindByName(t *testing.T) {
	sym := &Symbol{Name: "x"}
	_, _, ok := FindByName(sym)
	assert.False(t, ok)

	tab := NewTable(1, 0)
	tab.Names[1] = sym
	AttachNamesToTable(tab)

	table, atomID, ok := FindByName(sym)
	assert.True(t, ok)
	assert.Same(t, tab, table)
	assert.Equal(t, 1, atomID)

	_, _, ok = FindByName(nil)
	assert.False(t, ok)
}
