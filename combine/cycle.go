package combine

import (
	"fmt"

	"opwire/op"
	"opwire/record"
	"opwire/tree"
)

// Cycle runs an operation repeatedly, feeding each result back as the
// next input. Unless the operation appends (so the record only grows),
// its output tree must satisfy its own input tree or the loop could not
// be fed. A counter of -1 loops without bound; a non-empty key names a
// bool field checked before every iteration, stopping the loop once it
// turns false. With counter -1 and no key the loop never terminates on
// its own.
func Cycle(o *op.Operation, counter int, key string) (*op.Operation, error) {
	if !o.Append() && !tree.Match(o.OutputTree(), o.InputTree()) {
		return nil, &CompositionMismatchError{
			Combinator: "cycle",
			Position:   1,
			Child:      o.Name(),
			Out:        o.OutputTree(),
			In:         o.InputTree(),
		}
	}

	return op.New(op.Config{
		Name:       "Cycle",
		InputTree:  o.InputTree(),
		OutputTree: o.OutputTree(),
		Append:     o.Append(),
		Extend:     true,
	}, func(rec record.Record) (record.Record, error) {
		for n := counter; n != 0; n-- {
			if key != "" {
				v, err := record.Get(rec, key)
				if err != nil {
					return nil, err
				}
				again, ok := v.(bool)
				if !ok {
					return nil, fmt.Errorf("cycle: key %q holds %T, want bool", key, v)
				}
				if !again {
					break
				}
			}
			var err error
			rec, err = o.Call(rec)
			if err != nil {
				return nil, err
			}
		}
		return rec, nil
	})
}
