package atom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusHasAndHasAll(t *testing.T) {
	s := Visible | Input

	assert.True(t, s.Has(Visible))
	assert.True(t, s.Has(Input))
	assert.False(t, s.Has(HeadOcc))

	assert.True(t, s.HasAll(Visible|Input))
	assert.False(t, s.HasAll(Visible|HeadOcc))
}

func TestCombinedMasks(t *testing.T) {
	assert.Equal(t, PosOcc|NegOcc, PosOrNegOcc)
	assert.Equal(t, True|False, TrueOrFalse)
}
