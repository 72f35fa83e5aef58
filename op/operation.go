// Package op implements the operation contract: a unit of computation with
// declared input and output key sets, validation gates on both sides of its
// run hook, and the append/extend modifiers. It also provides the primitive
// operations (Let, Const, Run, AppendOf, Id, Empty) that pipelines are
// built from.
package op

import (
	"fmt"
	"strings"

	"opwire/record"
	"opwire/tree"
	"opwire/validate"
)

// RunFunc is the computation hook of an operation. It receives the
// validated subset of the input (or the raw input in extend mode) and
// returns the raw output.
type RunFunc func(record.Record) (record.Record, error)

// Operation is the unit of computation. It is immutable after
// construction; composition produces new operations.
type Operation struct {
	name    string
	inputs  tree.Set
	outputs tree.Set
	inTree  tree.Tree
	outTree tree.Tree
	append  bool
	extend  bool

	checkIn  validate.Func
	checkOut validate.Func
	run      RunFunc
}

// Config declares an operation's contract. Inputs/Outputs and
// InputTree/OutputTree are two views of the same shape: when only one is
// given the other is derived; when neither is given the shape is empty.
type Config struct {
	Name    string
	Inputs  tree.Set
	Outputs tree.Set

	// InputTree/OutputTree override the trees derived from the key sets.
	// Combinators pass precomputed trees here.
	InputTree  tree.Tree
	OutputTree tree.Tree

	// Append merges the validated output over the original input instead
	// of replacing it. Extend passes the unfiltered raw input to the run
	// hook; input validation still applies.
	Append bool
	Extend bool

	// Validator overrides the process-wide validate.Default factory.
	Validator validate.Factory
}

// New constructs an operation from a contract and a run hook.
// Construction fails when the declared keys cannot form type trees or the
// validator factory rejects them.
func New(cfg Config, run RunFunc) (*Operation, error) {
	if run == nil {
		return nil, fmt.Errorf("operation %q: nil run hook", cfg.Name)
	}

	name := cfg.Name
	if name == "" {
		name = "Operation"
	}

	inputs, inTree, err := resolveShape(cfg.Inputs, cfg.InputTree)
	if err != nil {
		return nil, fmt.Errorf("operation %q: input keys: %w", name, err)
	}

	outputs, outTree, err := resolveShape(cfg.Outputs, cfg.OutputTree)
	if err != nil {
		return nil, fmt.Errorf("operation %q: output keys: %w", name, err)
	}

	factory := cfg.Validator
	if factory == nil {
		factory = validate.Default
	}

	checkIn, err := factory.Validator(inputs)
	if err != nil {
		return nil, fmt.Errorf("operation %q: input validator: %w", name, err)
	}

	checkOut, err := factory.Validator(outputs)
	if err != nil {
		return nil, fmt.Errorf("operation %q: output validator: %w", name, err)
	}

	return &Operation{
		name:     name,
		inputs:   inputs,
		outputs:  outputs,
		inTree:   inTree,
		outTree:  outTree,
		append:   cfg.Append,
		extend:   cfg.Extend,
		checkIn:  checkIn,
		checkOut: checkOut,
		run:      run,
	}, nil
}

func resolveShape(keys tree.Set, t tree.Tree) (tree.Set, tree.Tree, error) {
	switch {
	case keys == nil && t == nil:
		return tree.Set{}, tree.Tree{}, nil
	case keys == nil:
		return tree.Keys(t), t, nil
	case t == nil:
		built, err := tree.Build(keys)
		if err != nil {
			return nil, nil, err
		}

		return keys, built, nil
	default:
		return keys, t, nil
	}
}

// Name returns the operation's display name, used in errors.
func (o *Operation) Name() string { return o.name }

// Inputs returns the declared input key set. Callers must not modify it.
func (o *Operation) Inputs() tree.Set { return o.inputs }

// Outputs returns the declared output key set. Callers must not modify it.
func (o *Operation) Outputs() tree.Set { return o.outputs }

// InputTree returns the input type tree. Callers must not modify it.
func (o *Operation) InputTree() tree.Tree { return o.inTree }

// OutputTree returns the output type tree. Callers must not modify it.
func (o *Operation) OutputTree() tree.Tree { return o.outTree }

// Append reports whether the operation merges its output over its input.
func (o *Operation) Append() bool { return o.append }

// Extend reports whether the run hook receives the unfiltered raw input.
func (o *Operation) Extend() bool { return o.extend }

// CallError reports a record that failed an operation's input or output
// gate. It names the operation, the stage, the offending record and the
// expected key set, and wraps the underlying *validate.Error.
type CallError struct {
	Op     string
	Stage  string // "input" or "output"
	Record record.Record
	Keys   tree.Set
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("operation %s: %s record %v does not match keys %s: %v",
		e.Op, e.Stage, e.Record, keySetString(e.Keys), e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

func keySetString(s tree.Set) string {
	parts := make([]string, 0, s.Len())
	for _, k := range s.Keys() {
		parts = append(parts, k.String())
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

// Call runs the operation against a record: validate the input, dispatch
// to the run hook, validate the output, and in append mode merge the
// validated output over a copy of the original input. Validation failures
// are reported as *CallError; run errors propagate unmodified. The call
// either fully succeeds or fails before any caller observes a partial
// result.
func (o *Operation) Call(rec record.Record) (record.Record, error) {
	valid, err := o.checkIn(rec)
	if err != nil {
		return nil, &CallError{Op: o.name, Stage: "input", Record: rec, Keys: o.inputs, Err: err}
	}

	in := valid
	if o.extend {
		in = rec
	}

	out, err := o.run(in)
	if err != nil {
		return nil, err
	}

	validOut, err := o.checkOut(out)
	if err != nil {
		return nil, &CallError{Op: o.name, Stage: "output", Record: out, Keys: o.outputs, Err: err}
	}

	if o.append {
		return record.Merge(rec, validOut), nil
	}

	return validOut, nil
}

// mustNew builds operations whose contracts are statically known to be
// valid (empty or previously validated shapes).
func mustNew(cfg Config, run RunFunc) *Operation {
	o, err := New(cfg, run)
	if err != nil {
		panic(err)
	}

	return o
}
