package op

import (
	"opwire/record"
	"opwire/tree"
)

// Const returns a fixed record captured at construction. The record is
// defensively copied both on the way in and on every call. Output keys
// default to the record's own top-level (name, value type) pairs unless
// overridden.
func Const(out record.Record, keys ...tree.Key) (*Operation, error) {
	stored := record.Clone(out)

	var outputs tree.Set

	if len(keys) > 0 {
		outputs = tree.NewSet(keys...)
	} else {
		outputs = tree.Set{}
		for k, v := range stored {
			outputs.Add(tree.Typed(k, tree.Of(v)))
		}
	}

	return New(Config{
		Name:    "Const",
		Outputs: outputs,
	}, func(record.Record) (record.Record, error) {
		return record.Clone(stored), nil
	})
}
