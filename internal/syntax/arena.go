package syntax

import "verifyc/internal/verrors"

// Arena is the sole owner of every Term produced while parsing one
// compilation unit. It hands out indices, never pointers: an index is
// valid exactly when it is less than Len(), and every index a Term embeds
// was allocated strictly before that Term itself, so the arena forms an
// acyclic, strictly-decreasing-along-every-edge DAG. Arena contents are
// immutable once parsing completes.
type Arena struct {
	terms []Term
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Alloc appends term and returns its freshly assigned index.
func (a *Arena) Alloc(term Term) int {
	a.terms = append(a.terms, term)
	return len(a.terms) - 1
}

// Get returns the term at index. index must be valid; an out-of-range
// index is a programmer error (a malformed upstream AST), not a
// recoverable outcome, so Get panics with a verrors.Invariant.
func (a *Arena) Get(index int) Term {
	if index < 0 || index >= len(a.terms) {
		panic(verrors.NewInvariant("arena index out of range"))
	}
	return a.terms[index]
}

// Len returns the number of terms allocated so far.
func (a *Arena) Len() int {
	return len(a.terms)
}
