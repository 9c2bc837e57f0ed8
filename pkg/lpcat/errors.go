package lpcat

import (
	"errors"
	"fmt"
)

// ErrModuleConflict is the sentinel wrapped when an atom is defined
// (carries HEADOCC) in more than one module under -m, and -v was not
// given to downgrade it to a warning.
var ErrModuleConflict = errors.New("lpcat: atom doubly defined across modules")

// ModuleConflictError names the offending atom.
type ModuleConflictError struct {
	Atom int
	Name string
}

func (e *ModuleConflictError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("module error: %s is defined by several modules", e.Name)
	}
	return fmt.Sprintf("module error: atom %d is defined by several modules", e.Atom)
}

func (e *ModuleConflictError) Unwrap() error { return ErrModuleConflict }
