package planar

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjanhunen/asptools-go/pkg/atom"
)

func TestGenerateRespectsPlanarityBound(t *testing.T) {
	edges := Generate(Options{Nodes: 20, EdgeDensity: 1, Seed: 1})
	assert.LessOrEqual(t, len(edges), 3*20-6)
}

func TestGenerateEdgesPointForwardOnly(t *testing.T) {
	edges := Generate(Options{Nodes: 10, EdgeDensity: 1, Seed: 42})
	require.NotEmpty(t, edges)
	for _, e := range edges {
		assert.Less(t, e.From, e.To)
	}
}

func TestGenerateZeroDensityYieldsNoEdges(t *testing.T) {
	edges := Generate(Options{Nodes: 10, EdgeDensity: 0.0000001, Seed: 7})
	assert.Empty(t, edges)
}

func TestGenerateDeterministicForSameSeed(t *testing.T) {
	a := Generate(Options{Nodes: 8, EdgeDensity: 0.6, Seed: 99})
	b := Generate(Options{Nodes: 8, EdgeDensity: 0.6, Seed: 99})
	assert.Equal(t, a, b)
}

func TestGenerateRejectsNonPositiveNodes(t *testing.T) {
	assert.Nil(t, Generate(Options{Nodes: 0}))
}

func TestToProgramBuildsFactPerNodeAndRulePerEdge(t *testing.T) {
	reg := atom.NewRegistry()
	edges := []Edge{{From: 1, To: 2}, {From: 2, To: 3}}
	p, table := ToProgram(3, edges, reg)

	require.Len(t, p.Rules, 5) // 3 facts + 2 derivations
	assert.Equal(t, "point(1)", table.Names[1].Name)

	facts := 0
	derivations := 0
	for _, r := range p.Rules {
		if len(r.Pos) == 0 && len(r.Neg) == 0 {
			facts++
		} else {
			derivations++
		}
	}
	assert.Equal(t, 3, facts)
	assert.Equal(t, 2, derivations)
}

func TestWriteEmitsCompleteModule(t *testing.T) {
	reg := atom.NewRegistry()
	var buf strings.Builder
	require.NoError(t, Write(&buf, Options{Nodes: 5, EdgeDensity: 0.5, Seed: 3}, reg))

	text := buf.String()
	assert.Contains(t, text, "point(1)")
	assert.Contains(t, text, "B+")
	assert.Contains(t, text, "B-")
}

func TestGenerateBatchProducesCountFixturesInOrder(t *testing.T) {
	out, err := GenerateBatch(context.Background(), Options{Nodes: 4, EdgeDensity: 0.5, Seed: 1}, 6, 2)
	require.NoError(t, err)
	require.Len(t, out, 6)
	for _, fixture := range out {
		assert.Contains(t, fixture, "point(1)")
	}
}

func TestGenerateBatchPropagatesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GenerateBatch(ctx, Options{Nodes: 4}, 50, 1)
	assert.Error(t, err)
}
