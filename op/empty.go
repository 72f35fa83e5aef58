package op

import "opwire/record"

// Empty receives nothing and returns nothing.
func Empty() *Operation {
	return mustNew(Config{
		Name: "Empty",
	}, func(record.Record) (record.Record, error) {
		return record.Record{}, nil
	})
}
