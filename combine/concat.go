package combine

import (
	"fmt"

	"opwire/internal/common"
	"opwire/op"
	"opwire/record"
	"opwire/tree"
)

// Concat joins operations that run side by side over the same input.
// The input tree is the union of the children's input trees with the
// narrower type winning; incompatible declarations fail construction.
// The output tree is the overwrite-merge of the children's output
// trees, later children winning, and at runtime outputs merge in the
// same declaration order. The result appends when any child appends.
func Concat(ops ...*op.Operation) (*op.Operation, error) {
	if common.IsEmpty(ops) {
		return nil, fmt.Errorf("concat: no operations given")
	}

	inTree := tree.Tree{}
	outTree := tree.Tree{}
	appends := false
	for _, o := range ops {
		merged, err := tree.Union(inTree, o.InputTree(), true)
		if err != nil {
			return nil, fmt.Errorf("concat: input tree of %q: %w", o.Name(), err)
		}
		inTree = merged
		outTree = tree.Merge(outTree, o.OutputTree())
		appends = appends || o.Append()
	}

	children := append([]*op.Operation(nil), ops...)
	return op.New(op.Config{
		Name:       "Concat",
		InputTree:  inTree,
		OutputTree: outTree,
		Append:     appends,
		Extend:     true,
	}, func(rec record.Record) (record.Record, error) {
		out := record.Record{}
		for _, child := range children {
			r, err := child.Call(rec)
			if err != nil {
				return nil, err
			}
			out = record.Merge(out, r)
		}
		return out, nil
	})
}
