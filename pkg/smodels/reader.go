// Package smodels reads and writes ground logic programs in the
// SMODELS numeric wire format: a rule section terminated by 0, a
// symbol-table section terminated by 0, then the three compute-set
// blocks (B+, B-, E) each terminated by 0, followed by a trailing model
// count. This package is the external-collaborator boundary spec.md
// calls out in §1/§6: lpcat and lpshift never touch a token stream
// directly, only *rule.Program and *atom.Table.
package smodels

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/tjanhunen/asptools-go/pkg/atom"
	"github.com/tjanhunen/asptools-go/pkg/rule"
)

// Rule type digits, spec §6.
const (
	tagBasic       = 1
	tagConstraint  = 2
	tagChoice      = 3
	tagIntegrity   = 4
	tagWeight      = 5
	tagOptimize    = 6
	tagDisjunctive = 8
)

// tokenReader pulls whitespace-separated integers off r one at a time,
// the same token granularity the original C scanf-based reader used.
type tokenReader struct {
	sc  *bufio.Scanner
	err error
}

func newTokenReader(r io.Reader) *tokenReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	return &tokenReader{sc: sc}
}

func (t *tokenReader) int() (int, error) {
	if t.err != nil {
		return 0, t.err
	}
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			t.err = err
		} else {
			t.err = io.ErrUnexpectedEOF
		}
		return 0, t.err
	}
	n, err := strconv.Atoi(t.sc.Text())
	if err != nil {
		t.err = fmt.Errorf("smodels: expected integer, got %q: %w", t.sc.Text(), err)
		return 0, t.err
	}
	return n, nil
}

func (t *tokenReader) ints(n int) ([]int, error) {
	if n == 0 {
		return nil, nil
	}
	out := make([]int, n)
	for i := range out {
		v, err := t.int()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// word reads one whitespace-separated token as a string (used for
// symbol names, which may contain characters strconv.Atoi rejects).
func (t *tokenReader) word() (string, error) {
	if t.err != nil {
		return "", t.err
	}
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			t.err = err
		} else {
			t.err = io.ErrUnexpectedEOF
		}
		return "", t.err
	}
	return t.sc.Text(), nil
}

// tryInt reads the next integer token, reporting ok=false with a nil
// error on a clean end of stream (no token at all) rather than
// io.ErrUnexpectedEOF -- used at a module boundary in recursive (-r)
// mode, where running out of input is not an error, just "no more
// modules".
func (t *tokenReader) tryInt() (n int, ok bool, err error) {
	if t.err != nil {
		return 0, false, t.err
	}
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			t.err = err
			return 0, false, err
		}
		return 0, false, nil
	}
	v, err := strconv.Atoi(t.sc.Text())
	if err != nil {
		t.err = fmt.Errorf("smodels: expected integer, got %q: %w", t.sc.Text(), err)
		return 0, false, t.err
	}
	return v, true, nil
}

// ReadProgram reads the rule section of an SMODELS stream (up to and
// including its terminating 0) and returns the decoded program.
func ReadProgram(r io.Reader) (*rule.Program, error) {
	tr := newTokenReader(r)
	p := rule.NewProgram()

	for {
		tag, err := tr.int()
		if err != nil {
			return nil, fmt.Errorf("smodels: read rule tag: %w", err)
		}
		if tag == 0 {
			return p, nil
		}

		rl, err := readRule(tr, tag)
		if err != nil {
			return nil, fmt.Errorf("smodels: read rule: %w", err)
		}
		p.Add(rl)
	}
}

func readBody(tr *tokenReader) (pos, neg []int, err error) {
	length, err := tr.int()
	if err != nil {
		return nil, nil, err
	}
	negLen, err := tr.int()
	if err != nil {
		return nil, nil, err
	}
	if negLen > length {
		return nil, nil, fmt.Errorf("smodels: neg_len %d exceeds len %d", negLen, length)
	}
	neg, err = tr.ints(negLen)
	if err != nil {
		return nil, nil, err
	}
	pos, err = tr.ints(length - negLen)
	if err != nil {
		return nil, nil, err
	}
	return pos, neg, nil
}

func readRule(tr *tokenReader, tag int) (*rule.Rule, error) {
	switch tag {
	case tagBasic:
		head, err := tr.int()
		if err != nil {
			return nil, err
		}
		pos, neg, err := readBody(tr)
		if err != nil {
			return nil, err
		}
		return rule.NewBasic(head, pos, neg), nil

	case tagConstraint:
		head, err := tr.int()
		if err != nil {
			return nil, err
		}
		length, err := tr.int()
		if err != nil {
			return nil, err
		}
		negLen, err := tr.int()
		if err != nil {
			return nil, err
		}
		bound, err := tr.int()
		if err != nil {
			return nil, err
		}
		neg, err := tr.ints(negLen)
		if err != nil {
			return nil, err
		}
		pos, err := tr.ints(length - negLen)
		if err != nil {
			return nil, err
		}
		return rule.NewConstraint(head, bound, pos, neg), nil

	case tagChoice:
		headCnt, err := tr.int()
		if err != nil {
			return nil, err
		}
		heads, err := tr.ints(headCnt)
		if err != nil {
			return nil, err
		}
		pos, neg, err := readBody(tr)
		if err != nil {
			return nil, err
		}
		return rule.NewChoice(heads, pos, neg), nil

	case tagIntegrity:
		pos, neg, err := readBody(tr)
		if err != nil {
			return nil, err
		}
		return rule.NewIntegrity(pos, neg), nil

	case tagWeight:
		head, err := tr.int()
		if err != nil {
			return nil, err
		}
		bound, err := tr.int()
		if err != nil {
			return nil, err
		}
		length, err := tr.int()
		if err != nil {
			return nil, err
		}
		negLen, err := tr.int()
		if err != nil {
			return nil, err
		}
		neg, err := tr.ints(negLen)
		if err != nil {
			return nil, err
		}
		pos, err := tr.ints(length - negLen)
		if err != nil {
			return nil, err
		}
		weights, err := tr.ints(length)
		if err != nil {
			return nil, err
		}
		return rule.NewWeight(head, bound, pos, neg, weights), nil

	case tagOptimize:
		zero, err := tr.int()
		if err != nil {
			return nil, err
		}
		if zero != 0 {
			return nil, fmt.Errorf("smodels: optimize rule missing leading 0, got %d", zero)
		}
		length, err := tr.int()
		if err != nil {
			return nil, err
		}
		negLen, err := tr.int()
		if err != nil {
			return nil, err
		}
		neg, err := tr.ints(negLen)
		if err != nil {
			return nil, err
		}
		pos, err := tr.ints(length - negLen)
		if err != nil {
			return nil, err
		}
		weights, err := tr.ints(length)
		if err != nil {
			return nil, err
		}
		return rule.NewOptimize(pos, neg, weights), nil

	case tagDisjunctive:
		headCnt, err := tr.int()
		if err != nil {
			return nil, err
		}
		heads, err := tr.ints(headCnt)
		if err != nil {
			return nil, err
		}
		pos, neg, err := readBody(tr)
		if err != nil {
			return nil, err
		}
		return rule.NewDisjunctive(heads, pos, neg), nil

	default:
		return nil, fmt.Errorf("smodels: unknown rule type tag %d", tag)
	}
}

// ReadSymbols reads the symbol-table section (terminated by a line
// whose first token is 0) into a fresh contiguous table, interning
// every name through reg so that identical names across separately
// read modules resolve to the same *atom.Symbol.
func ReadSymbols(r io.Reader, reg *atom.Registry) (*atom.Table, int, error) {
	tr := newTokenReader(r)
	return readSymbols(tr, reg)
}

func readSymbols(tr *tokenReader, reg *atom.Registry) (*atom.Table, int, error) {
	type entry struct {
		atomID int
		name   string
	}
	var entries []entry
	maxAtom := 0

	for {
		first, err := tr.int()
		if err != nil {
			return nil, 0, fmt.Errorf("smodels: read symbol atom id: %w", err)
		}
		if first == 0 {
			break
		}
		name, err := tr.word()
		if err != nil {
			return nil, 0, fmt.Errorf("smodels: read symbol name: %w", err)
		}
		entries = append(entries, entry{first, name})
		if first > maxAtom {
			maxAtom = first
		}
	}

	t := atom.NewTable(maxAtom, 0)
	for _, e := range entries {
		t.Names[e.atomID] = reg.Intern(e.name)
	}
	return t, maxAtom, nil
}

// ComputeStatement is the trio of compute sets plus the trailing model
// count that follows the symbol table in an SMODELS stream.
type ComputeStatement struct {
	Plus   []int
	Minus  []int
	Input  []int
	Models int
}

// ReadComputeStatement reads "B+" <atoms> 0 "B-" <atoms> 0, then an
// optional "E" <atoms> 0 section (an lpcat extension: a plain SMODELS
// stream produced by a grounder ends right after B- with no E section),
// and finally the trailing model count.
func ReadComputeStatement(r io.Reader) (*ComputeStatement, error) {
	tr := newTokenReader(r)
	return readComputeStatement(tr)
}

func readSet(tr *tokenReader) ([]int, error) {
	var out []int
	for {
		v, err := tr.int()
		if err != nil {
			return nil, err
		}
		if v == 0 {
			return out, nil
		}
		out = append(out, v)
	}
}

func expectMarker(tr *tokenReader, marker string) error {
	w, err := tr.word()
	if err != nil {
		return err
	}
	if w != marker {
		return fmt.Errorf("smodels: expected marker %q, got %q", marker, w)
	}
	return nil
}

func readComputeStatement(tr *tokenReader) (*ComputeStatement, error) {
	if err := expectMarker(tr, "B+"); err != nil {
		return nil, fmt.Errorf("smodels: B+: %w", err)
	}
	plus, err := readSet(tr)
	if err != nil {
		return nil, fmt.Errorf("smodels: read B+: %w", err)
	}

	if err := expectMarker(tr, "B-"); err != nil {
		return nil, fmt.Errorf("smodels: B-: %w", err)
	}
	minus, err := readSet(tr)
	if err != nil {
		return nil, fmt.Errorf("smodels: read B-: %w", err)
	}

	// E is an lpcat-only extension: peek the next token and only
	// consume it as a marker if it actually reads "E"; otherwise it is
	// the model count of a plain (non-lpcat) stream.
	tok, err := tr.word()
	if err != nil {
		return nil, fmt.Errorf("smodels: read E/model count: %w", err)
	}

	var input []int
	var modelsTok string
	if tok == "E" {
		input, err = readSet(tr)
		if err != nil {
			return nil, fmt.Errorf("smodels: read E: %w", err)
		}
		modelsTok, err = tr.word()
		if err != nil {
			return nil, fmt.Errorf("smodels: read model count: %w", err)
		}
	} else {
		modelsTok = tok
	}

	models, err := strconv.Atoi(modelsTok)
	if err != nil {
		return nil, fmt.Errorf("smodels: model count %q: %w", modelsTok, err)
	}

	return &ComputeStatement{Plus: plus, Minus: minus, Input: input, Models: models}, nil
}

// Decoder reads a sequence of modules off one stream, the shape lpcat's
// -r (recursive) mode needs: repeated calls to ReadModule pull
// successive modules from the same underlying reader until it is
// exhausted. A single tokenReader is kept alive across calls so no
// buffered-but-unconsumed input is ever dropped between modules.
type Decoder struct {
	tr *tokenReader
}

// NewDecoder returns a Decoder reading modules from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{tr: newTokenReader(r)}
}

// ReadModule reads one complete module -- program, symbol table and
// compute statement -- in the order lpcat's per-module loop expects
// (spec §4.5 step 1). It returns io.EOF, with all other return values
// nil, when the stream holds no further module.
func (d *Decoder) ReadModule(reg *atom.Registry) (*rule.Program, *atom.Table, *ComputeStatement, error) {
	tag, ok, err := d.tr.tryInt()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("smodels: read rule tag: %w", err)
	}
	if !ok {
		return nil, nil, nil, io.EOF
	}

	p := rule.NewProgram()
	for tag != 0 {
		rl, err := readRule(d.tr, tag)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("smodels: read rule: %w", err)
		}
		p.Add(rl)

		tag, err = d.tr.int()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("smodels: read rule tag: %w", err)
		}
	}

	t, _, err := readSymbols(d.tr, reg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("smodels: symbols: %w", err)
	}
	cs, err := readComputeStatement(d.tr)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("smodels: compute statement: %w", err)
	}
	return p, t, cs, nil
}

// ReadModule reads one complete module from a fresh Decoder over r, for
// callers (tests, one-shot file processing) that know r holds exactly
// one module.
func ReadModule(r io.Reader, reg *atom.Registry) (*rule.Program, *atom.Table, *ComputeStatement, error) {
	return NewDecoder(r).ReadModule(reg)
}
