// Package planar generates random planar-ish graphs and renders them as
// acyclic SMODELS ground programs, for use as test fixtures for lpcat
// and lpshift. It is a generator, not a solver: no grounding or solving
// semantics attach to it.
package planar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"

	"github.com/tjanhunen/asptools-go/internal/parallel"
	"github.com/tjanhunen/asptools-go/pkg/atom"
	"github.com/tjanhunen/asptools-go/pkg/rule"
	"github.com/tjanhunen/asptools-go/pkg/smodels"
)

// Options controls the generated graph's shape.
type Options struct {
	Nodes       int     // number of point atoms
	EdgeDensity float64 // probability an eligible edge is included, (0,1]
	Seed        uint64  // 0 means "seed from a fresh random source"
}

// Edge is a directed arc i -> j with i < j, the orientation generation
// produces to guarantee the resulting dependency graph is acyclic.
type Edge struct {
	From, To int
}

// Generate builds a random DAG over opts.Nodes nodes honoring a rough
// planarity bound (at most 3n-6 edges, Euler's formula for simple
// planar graphs) by only considering each unordered pair once and
// capping the total accepted.
func Generate(opts Options) []Edge {
	n := opts.Nodes
	if n < 1 {
		return nil
	}
	density := opts.EdgeDensity
	if density <= 0 {
		density = 0.5
	}

	var rng *rand.Rand
	if opts.Seed == 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	}

	maxEdges := 3*n - 6
	if maxEdges < 0 {
		maxEdges = n * (n - 1) / 2
	}

	var edges []Edge
	for i := 1; i <= n && len(edges) < maxEdges; i++ {
		for j := i + 1; j <= n && len(edges) < maxEdges; j++ {
			if rng.Float64() < density {
				edges = append(edges, Edge{From: i, To: j})
			}
		}
	}
	return edges
}

// ToProgram renders edges as a ground program: one BASIC fact rule per
// node (point(I) :- true, i.e. an empty body) and one BASIC rule per
// edge deriving point(J) from point(I), which keeps the program acyclic
// by construction since every edge points from a lower to a higher
// node number.
func ToProgram(n int, edges []Edge, reg *atom.Registry) (*rule.Program, *atom.Table) {
	table := atom.NewTable(n, 0)
	for i := 1; i <= n; i++ {
		sym := reg.Intern(fmt.Sprintf("point(%d)", i))
		table.Names[i] = sym
	}
	atom.AttachNamesToTable(table)

	p := rule.NewProgram()
	for i := 1; i <= n; i++ {
		p.Add(rule.NewBasic(i, nil, nil))
	}
	for _, e := range edges {
		p.Add(rule.NewBasic(e.To, []int{e.From}, nil))
	}
	return p, table
}

// Write emits the generated graph as a complete SMODELS module: the
// program, its symbol table, and a compute statement with an empty
// E section and a single model.
func Write(w io.Writer, opts Options, reg *atom.Registry) error {
	edges := Generate(opts)
	p, table := ToProgram(opts.Nodes, edges, reg)

	if err := smodels.WriteProgram(w, p); err != nil {
		return err
	}
	if err := smodels.WriteSymbols(w, table); err != nil {
		return err
	}
	cs := smodels.BuildComputeStatement(table, 1)
	return smodels.WriteComputeStatement(w, cs)
}

// GenerateBatch builds count independent fixtures concurrently through
// a bounded worker pool, each with its own Registry (registries are not
// shared across goroutines), and returns their rendered module text in
// call order regardless of completion order.
func GenerateBatch(ctx context.Context, opts Options, count, workers int) ([]string, error) {
	out := make([]string, count)
	errs := make([]error, count)

	pool := parallel.NewPool(workers)
	defer pool.Shutdown()

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		i := i
		wg.Add(1)
		jobOpts := opts
		if opts.Seed != 0 {
			jobOpts.Seed = opts.Seed + uint64(i)
		}
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			var buf bytes.Buffer
			reg := atom.NewRegistry()
			if e := Write(&buf, jobOpts, reg); e != nil {
				errs[i] = e
				return
			}
			out[i] = buf.String()
		})
		if err != nil {
			wg.Done()
			return nil, err
		}
	}
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}
	return out, nil
}
