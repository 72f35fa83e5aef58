package combine

import (
	"fmt"
	"reflect"

	"opwire/internal/common"
	"opwire/op"
	"opwire/record"
	"opwire/tree"
)

// Case pairs a dispatch value with the operation run when the switch
// key holds that value.
type Case struct {
	Value any
	Op    *op.Operation
}

// Switch dispatches on the value stored under key, comparing it against
// each case with deep equality in declaration order, then falling back
// to the default operation if one was given. Duplicate case values fail
// construction; the first one would shadow the rest. The input tree starts at
// {key: any} and unions in every branch's input tree, narrower types
// winning; the output tree is the wider union of every branch's output
// tree. Paths of the combined output tree that a branch does not itself
// produce must arrive with the input: for appending branches they are
// adopted into the switch's input tree, for replacing branches they
// fail construction.
func Switch(key string, cases []Case, def *op.Operation) (*op.Operation, error) {
	if key == "" {
		return nil, fmt.Errorf("switch: empty dispatch key")
	}
	if common.IsEmpty(cases) {
		return nil, fmt.Errorf("switch: no cases given")
	}

	for i, c := range cases {
		for _, prev := range cases[:i] {
			if reflect.DeepEqual(prev.Value, c.Value) {
				return nil, fmt.Errorf("switch: duplicate case value %v", c.Value)
			}
		}
	}

	branches := make([]*op.Operation, 0, len(cases)+1)
	for _, c := range cases {
		branches = append(branches, c.Op)
	}
	if def != nil {
		branches = append(branches, def)
	}

	inTree, err := tree.Build(tree.NewSet(tree.K(key)))
	if err != nil {
		return nil, fmt.Errorf("switch: key %q: %w", key, err)
	}
	outTree := tree.Tree{}
	for _, o := range branches {
		inTree, err = tree.Union(inTree, o.InputTree(), true)
		if err != nil {
			return nil, fmt.Errorf("switch: input tree of %q: %w", o.Name(), err)
		}
		outTree, err = tree.Union(outTree, o.OutputTree(), false)
		if err != nil {
			return nil, fmt.Errorf("switch: output tree of %q: %w", o.Name(), err)
		}
	}
	for i, o := range branches {
		owed, err := tree.Difference(outTree, o.OutputTree(), false, false)
		if err != nil {
			return nil, fmt.Errorf("switch: output tree of %q: %w", o.Name(), err)
		}
		if owed.IsEmpty() {
			continue
		}
		if !o.Append() {
			return nil, &CompositionMismatchError{
				Combinator: "switch",
				Position:   i + 1,
				Child:      o.Name(),
				Out:        o.OutputTree(),
				In:         owed,
			}
		}
		inTree, err = tree.Union(inTree, owed, false)
		if err != nil {
			return nil, fmt.Errorf("switch: input tree of %q: %w", o.Name(), err)
		}
	}

	caseList := append([]Case(nil), cases...)
	return op.New(op.Config{
		Name:       "Switch",
		InputTree:  inTree,
		OutputTree: outTree,
		Extend:     true,
	}, func(rec record.Record) (record.Record, error) {
		v, err := record.Get(rec, key)
		if err != nil {
			return nil, err
		}
		for _, c := range caseList {
			if reflect.DeepEqual(c.Value, v) {
				return c.Op.Call(rec)
			}
		}
		if def != nil {
			return def.Call(rec)
		}
		return nil, &NoMatchingCaseError{Key: key, Value: v}
	})
}
