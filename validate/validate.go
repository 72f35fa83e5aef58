// Package validate turns declared key sets into runtime record checkers.
// The Factory is the pluggable collaborator consumed by the operation
// contract for both its input and output gates; Checker is the default
// implementation.
package validate

import (
	"fmt"

	"opwire/internal/common"
	"opwire/record"
	"opwire/tree"
)

// Func validates a record against a declared shape. It returns a new
// record holding exactly the declared paths (extra fields are filtered
// out) or an *Error describing the first mismatch.
type Func func(record.Record) (record.Record, error)

// Factory compiles a key set into a validation Func. Compilation fails
// when the keys cannot form a type tree.
type Factory interface {
	Validator(keys tree.Set) (Func, error)
}

// Error reports a record that fails its declared shape at a path.
type Error struct {
	Path    string
	Value   any
	Want    string
	Missing bool
}

func (e *Error) Error() string {
	if e.Missing {
		return fmt.Sprintf("missing required key %q (want %s)", e.Path, e.Want)
	}

	return fmt.Sprintf("value %v at %q does not match %s", e.Value, e.Path, e.Want)
}

// Checker is the default Factory: it builds the type tree once and walks
// it against each record, applying key defaults, admitting nil for
// optional paths, and filtering undeclared fields.
type Checker struct{}

// NewChecker returns the default record checker factory.
func NewChecker() *Checker {
	return &Checker{}
}

// Default is the process-wide validator factory used when an operation is
// constructed without an explicit one. Replace it once at startup if at
// all; it is read on every construction.
var Default Factory = NewChecker()

// Validator implements Factory.
func (c *Checker) Validator(keys tree.Set) (Func, error) {
	shape, err := tree.Build(keys)
	if err != nil {
		return nil, fmt.Errorf("compile validator: %w", err)
	}

	defaults := map[string]any{}

	for _, k := range keys.Keys() {
		if k.Default != nil {
			defaults[k.Name] = k.Default
		}
	}

	return func(rec record.Record) (record.Record, error) {
		out := record.Record{}

		if err := checkTree(shape, rec, out, "", defaults); err != nil {
			return nil, err
		}

		return out, nil
	}, nil
}

func checkTree(shape tree.Tree, rec, out record.Record, prefix string, defaults map[string]any) error {
	for _, k := range common.SortedKeys(shape) {
		node := shape[k]
		path := joinPath(prefix, k)

		var (
			v       any
			present bool
		)

		if rec != nil {
			v, present = rec[k]
		}

		if sub, isTree := node.(tree.Tree); isTree {
			var vrec record.Record

			if present {
				m, ok := v.(map[string]any)
				if !ok {
					return &Error{Path: path, Value: v, Want: "record"}
				}

				vrec = m
			}

			outSub := record.Record{}
			if err := checkTree(sub, vrec, outSub, path, defaults); err != nil {
				return err
			}

			out[k] = outSub

			continue
		}

		typ := node.(tree.Type)

		if !present {
			if def, ok := defaults[path]; ok {
				out[k] = def
				continue
			}

			if typ.Accepts(nil) {
				out[k] = nil
				continue
			}

			return &Error{Path: path, Want: typ.String(), Missing: true}
		}

		if !typ.Accepts(v) {
			return &Error{Path: path, Value: v, Want: typ.String()}
		}

		out[k] = v
	}

	return nil
}

func joinPath(prefix, k string) string {
	if prefix == "" {
		return k
	}

	return prefix + "." + k
}
