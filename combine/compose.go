package combine

import (
	"fmt"

	"opwire/internal/common"
	"opwire/op"
	"opwire/record"
	"opwire/tree"
)

// Compose chains operations so each child consumes the previous child's
// result. While every child so far has appended, the pipeline still
// exposes its original input alongside the appended fields, so any input
// a later child requires but the accumulated output lacks is adopted
// into the pipeline's own input tree. Once a non-appending child runs,
// the visible record narrows to that child's output and every later
// input tree must be satisfied by it outright.
func Compose(ops ...*op.Operation) (*op.Operation, error) {
	if common.IsEmpty(ops) {
		return nil, fmt.Errorf("compose: no operations given")
	}

	appendMode := true
	inTree := ops[0].InputTree().Clone()
	outTree := ops[0].InputTree().Clone()
	for i, o := range ops {
		if appendMode {
			missing, err := tree.Difference(o.InputTree(), outTree, false, false)
			if err != nil {
				return nil, fmt.Errorf("compose: input tree of %q: %w", o.Name(), err)
			}
			inTree, err = tree.Union(inTree, missing, false)
			if err != nil {
				return nil, fmt.Errorf("compose: input tree of %q: %w", o.Name(), err)
			}
			outTree, err = tree.Union(outTree, missing, false)
			if err != nil {
				return nil, fmt.Errorf("compose: input tree of %q: %w", o.Name(), err)
			}
		} else if !tree.Match(outTree, o.InputTree()) {
			return nil, &CompositionMismatchError{
				Combinator: "compose",
				Position:   i + 1,
				Child:      o.Name(),
				Out:        outTree,
				In:         o.InputTree(),
			}
		}

		if o.Append() {
			outTree = tree.Merge(outTree, o.OutputTree())
		} else {
			appendMode = false
			outTree = o.OutputTree().Clone()
		}
	}

	children := append([]*op.Operation(nil), ops...)
	return op.New(op.Config{
		Name:       "Compose",
		InputTree:  inTree,
		OutputTree: outTree,
		Append:     appendMode,
		Extend:     true,
	}, func(rec record.Record) (record.Record, error) {
		var err error
		for _, child := range children {
			rec, err = child.Call(rec)
			if err != nil {
				return nil, err
			}
		}
		return rec, nil
	})
}
