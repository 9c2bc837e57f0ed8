package scc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrModuleCycle is the sentinel wrapped by ModuleCycleError, the
// diagnostic spec §4.4/§7 calls a ModuleCycle error: a positive SCC
// spans more than one module, violating the ASP modular framework's
// module condition.
var ErrModuleCycle = errors.New("scc: positive cycle crosses module boundary")

// ModuleCycleError lists every atom found in a positive SCC that spans
// more than one module, in the unwind order the original tool prints
// them (innermost to outermost on the Tarjan stack).
type ModuleCycleError struct {
	Atoms []int
	Names []string
}

func (e *ModuleCycleError) Error() string {
	return fmt.Sprintf("module error: positively interdependent atoms: %s",
		strings.Join(e.Names, " "))
}

func (e *ModuleCycleError) Unwrap() error { return ErrModuleCycle }
