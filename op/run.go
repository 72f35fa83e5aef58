package op

import (
	"fmt"

	"opwire/internal/common"
	"opwire/record"
	"opwire/tree"
	"opwire/validate"
)

// Field is one computed output of a Run operation: a function plus its own
// declared input keys. Each field sees only the validated subset matching
// its inputs.
type Field struct {
	Inputs []tree.Key
	Fn     func(record.Record) (any, error)
}

// Run computes output fields by name. The operation's input keys are the
// union of all fields' inputs; fields requiring the same path at
// incomparable types fail construction.
func Run(fields map[string]Field) (*Operation, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("Run: no fields")
	}

	inputs := tree.Set{}
	inTree := tree.Tree{}
	outputs := tree.Set{}
	checkers := map[string]validate.Func{}

	for _, name := range common.SortedKeys(fields) {
		f := fields[name]

		if f.Fn == nil {
			return nil, fmt.Errorf("Run: field %q has no function", name)
		}

		fkeys := tree.NewSet(f.Inputs...)

		ftree, err := tree.Build(fkeys)
		if err != nil {
			return nil, fmt.Errorf("Run: field %q: %w", name, err)
		}

		merged, err := tree.Union(inTree, ftree, true)
		if err != nil {
			return nil, fmt.Errorf("Run: field %q: %w", name, err)
		}

		inTree = merged
		inputs = inputs.Union(fkeys)

		check, err := validate.Default.Validator(fkeys)
		if err != nil {
			return nil, fmt.Errorf("Run: field %q: %w", name, err)
		}

		checkers[name] = check
		outputs.Add(tree.K(name))
	}

	names := common.SortedKeys(fields)

	run := func(rec record.Record) (record.Record, error) {
		out := record.Record{}

		for _, name := range names {
			sub, err := checkers[name](rec)
			if err != nil {
				return nil, fmt.Errorf("Run: field %q: %w", name, err)
			}

			v, err := fields[name].Fn(sub)
			if err != nil {
				return nil, err
			}

			if err := record.Set(out, name, v); err != nil {
				return nil, err
			}
		}

		return out, nil
	}

	return New(Config{
		Name:      "Run",
		Inputs:    inputs,
		InputTree: inTree,
		Outputs:   outputs,
	}, run)
}
