package op

import "opwire/record"

// AppendOf wraps an operation so that its validated output is merged over
// the full raw input: append and extend both forced on, declared keys left
// untouched.
func AppendOf(inner *Operation) *Operation {
	return mustNew(Config{
		Name:       "+" + inner.Name(),
		Inputs:     inner.Inputs(),
		Outputs:    inner.Outputs(),
		InputTree:  inner.InputTree(),
		OutputTree: inner.OutputTree(),
		Append:     true,
		Extend:     true,
	}, func(rec record.Record) (record.Record, error) {
		return inner.Call(rec)
	})
}
