package lpcat

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/tjanhunen/asptools-go/pkg/atom"
	"github.com/tjanhunen/asptools-go/pkg/rule"
	"github.com/tjanhunen/asptools-go/pkg/smodels"
)

// FileArg names one command-line file argument: either a module file
// directly, or (Meta true) a file listing further module filenames one
// per line, the -f indirection.
type FileArg struct {
	Path string
	Meta bool
}

// moduleSource pulls successive modules out of a list of FileArgs,
// honoring -r (recursive): when set, every opened stream is drained of
// all the modules it holds before the source advances to the next
// argument; otherwise each argument yields exactly one module.
type moduleSource struct {
	reg       *atom.Registry
	recursive bool

	args int
	list []FileArg

	metaFile io.ReadCloser
	meta     *bufio.Scanner

	curFile io.ReadCloser
	cur     *smodels.Decoder
}

func newModuleSource(args []FileArg, reg *atom.Registry, recursive bool) *moduleSource {
	return &moduleSource{reg: reg, recursive: recursive, list: args}
}

func openArg(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lpcat: cannot open file %s: %w", path, err)
	}
	return f, nil
}

func (s *moduleSource) closeCurrent() {
	if s.curFile != nil {
		s.curFile.Close()
		s.curFile = nil
	}
	s.cur = nil
}

// openNext advances past exhausted meta files and plain arguments until
// it has a fresh stream ready in s.cur, or reports false when the whole
// argument list is spent.
func (s *moduleSource) openNext() (bool, error) {
	for {
		if s.meta != nil {
			if s.meta.Scan() {
				line := s.meta.Text()
				if line == "" {
					continue
				}
				f, err := openArg(line)
				if err != nil {
					return false, err
				}
				s.curFile = f
				s.cur = smodels.NewDecoder(f)
				return true, nil
			}
			if err := s.meta.Err(); err != nil {
				return false, fmt.Errorf("lpcat: reading meta file: %w", err)
			}
			s.metaFile.Close()
			s.metaFile = nil
			s.meta = nil
			continue
		}

		if s.args >= len(s.list) {
			return false, nil
		}
		arg := s.list[s.args]
		s.args++

		if arg.Meta {
			f, err := openArg(arg.Path)
			if err != nil {
				return false, err
			}
			s.metaFile = f
			s.meta = bufio.NewScanner(f)
			continue
		}

		f, err := openArg(arg.Path)
		if err != nil {
			return false, err
		}
		s.curFile = f
		s.cur = smodels.NewDecoder(f)
		return true, nil
	}
}

// next returns the next module in the stream, or io.EOF once every
// argument (and every meta-file entry) has been consumed.
func (s *moduleSource) next() (*rule.Program, *atom.Table, *smodels.ComputeStatement, error) {
	for {
		if s.cur == nil {
			ok, err := s.openNext()
			if err != nil {
				return nil, nil, nil, err
			}
			if !ok {
				return nil, nil, nil, io.EOF
			}
		}

		p, t, cs, err := s.cur.ReadModule(s.reg)
		if err == io.EOF {
			s.closeCurrent()
			continue
		}
		if err != nil {
			s.closeCurrent()
			return nil, nil, nil, err
		}
		if !s.recursive {
			s.closeCurrent()
		}
		return p, t, cs, nil
	}
}
