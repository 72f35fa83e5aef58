// Package combine implements the structural combinators: Concat (parallel
// union), Compose (sequential pipe), Cycle (repeat until exhaustion) and
// Switch (branch on a runtime value). Every combinator checks its legality
// against the children's type trees at construction time; an illegal
// composition never yields a partially working operation.
package combine

import (
	"fmt"

	"opwire/tree"
)

// CompositionMismatchError reports a child whose declared trees cannot be
// reconciled with the composition being built: an upstream output tree
// that does not satisfy a downstream input tree, or a branch owing paths
// it neither produces nor passes through.
type CompositionMismatchError struct {
	Combinator string
	Position   int
	Child      string
	Out        tree.Tree
	In         tree.Tree
}

func (e *CompositionMismatchError) Error() string {
	return fmt.Sprintf("%s: output tree %s does not satisfy input tree %s of %q at position %d",
		e.Combinator, e.Out, e.In, e.Child, e.Position)
}

// NoMatchingCaseError reports a Switch dispatch value that no case equals
// when no default operation was supplied.
type NoMatchingCaseError struct {
	Key   string
	Value any
}

func (e *NoMatchingCaseError) Error() string {
	return fmt.Sprintf("switch on %q: no case matches value %v and no default was given", e.Key, e.Value)
}
