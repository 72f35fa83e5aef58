package op

import "opwire/record"

// Id accepts anything and contributes nothing of its own: the input passes
// through by append semantics. Observers, if given, see the raw input;
// they are inspection hooks, not transformations.
func Id(observers ...func(record.Record)) *Operation {
	return mustNew(Config{
		Name:   "Id",
		Append: true,
		Extend: true,
	}, func(rec record.Record) (record.Record, error) {
		for _, obs := range observers {
			obs(rec)
		}

		return record.Record{}, nil
	})
}
