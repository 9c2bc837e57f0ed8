package atom

import "errors"

// Sentinel errors for the invariant violations spec §7 classifies as
// Invariant errors: fatal, no local recovery. Callers at the CLI
// boundary wrap these with fmt.Errorf("...: %w", err) to attach the
// file/atom context before printing a program-name-prefixed diagnostic.
var (
	// ErrNonContiguous is returned by any operation that requires a
	// single-slice table (offset 0, no further pieces) but was handed
	// a table still split across several slices.
	ErrNonContiguous = errors.New("atom: contiguous symbol table expected")

	// ErrCrossReferenceTooLarge is returned by RelocSymbolTable when an
	// atom already carries an Other value beyond the destination shift,
	// which signals a malformed cross-reference from a previous pass.
	ErrCrossReferenceTooLarge = errors.New("atom: cross-reference exceeds shift")

	// ErrAtomOutOfRange is returned by Lookup-family calls given an
	// atom number outside every slice of the table.
	ErrAtomOutOfRange = errors.New("atom: atom number out of range")
)
