package lpcat

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjanhunen/asptools-go/pkg/atom"
	"github.com/tjanhunen/asptools-go/pkg/smodels"
)

// module builds a tiny one-rule SMODELS module naming its single atom.
func module(name string) string {
	return "1 1 0 0\n0\n1 " + name + "\n0\nB+\n0\nB-\n0\nE\n0\n1\n"
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mod.lp")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCollectSingleModule(t *testing.T) {
	path := writeTempFile(t, module("a"))

	var out bytes.Buffer
	opts := Options{Collect: true}
	require.NoError(t, Run(opts, []FileArg{{Path: path}}, &out, nil))

	assert.Contains(t, out.String(), "a")
}

func TestRunStreamingDoesNotCollect(t *testing.T) {
	path1 := writeTempFile(t, module("a"))
	path2 := writeTempFile(t, module("b"))

	var out bytes.Buffer
	opts := Options{Collect: false}
	require.NoError(t, Run(opts, []FileArg{{Path: path1}, {Path: path2}}, &out, nil))

	text := out.String()
	assert.Contains(t, text, "a")
	assert.Contains(t, text, "b")
}

func TestRunVerboseRendersReadable(t *testing.T) {
	path := writeTempFile(t, module("a"))

	var out bytes.Buffer
	opts := Options{Collect: true, Verbose: true}
	require.NoError(t, Run(opts, []FileArg{{Path: path}}, &out, nil))

	assert.Contains(t, out.String(), "a.")
	assert.Contains(t, out.String(), "Symbols")
}

func TestRunModuleConflictFatalWithoutVerbose(t *testing.T) {
	path1 := writeTempFile(t, module("a"))
	path2 := writeTempFile(t, module("a"))

	var out bytes.Buffer
	opts := Options{Collect: true, Modular: true}
	err := Run(opts, []FileArg{{Path: path1}, {Path: path2}}, &out, nil)
	require.Error(t, err)
	var conflict *ModuleConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestRunModuleConflictWarnsUnderVerbose(t *testing.T) {
	path1 := writeTempFile(t, module("a"))
	path2 := writeTempFile(t, module("a"))

	var out bytes.Buffer
	opts := Options{Collect: true, Modular: true, Verbose: true}
	err := Run(opts, []FileArg{{Path: path1}, {Path: path2}}, &out, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "warning")
}

func TestRunMarkInputRequiresModular(t *testing.T) {
	opts := Options{MarkInput: true}
	err := Run(opts, nil, &bytes.Buffer{}, nil)
	assert.Error(t, err)
}

func TestRunFirstAtomShift(t *testing.T) {
	path := writeTempFile(t, module("a"))

	var out bytes.Buffer
	opts := Options{Collect: true, FirstAtom: 100}
	require.NoError(t, Run(opts, []FileArg{{Path: path}}, &out, nil))

	reg := atom.NewRegistry()
	p, tab, _, err := smodels.ReadModule(strings.NewReader(out.String()), reg)
	require.NoError(t, err)
	require.Len(t, p.Rules, 1)
	assert.Equal(t, 100, p.Rules[0].Head[0])
	assert.Equal(t, "a", tab.Names[100].Name)
}

func TestRunSymbolFileWritesDummy(t *testing.T) {
	path := writeTempFile(t, module("a"))

	var out, symOut bytes.Buffer
	opts := Options{Collect: true, SymbolFile: "dummy.sym"}
	require.NoError(t, Run(opts, []FileArg{{Path: path}}, &out, &symOut))

	text := symOut.String()
	assert.True(t, strings.HasPrefix(text, "0\n"))
	assert.Contains(t, text, "a")
	assert.Contains(t, text, "B+\n0\nB-\n0\n0\n")
}
