package op_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opwire/op"
	"opwire/record"
	"opwire/tree"
	"opwire/validate"
)

func echoOp(t *testing.T, cfg op.Config) *op.Operation {
	t.Helper()

	o, err := op.New(cfg, func(rec record.Record) (record.Record, error) {
		return rec, nil
	})
	require.NoError(t, err)

	return o
}

func TestCallValidatesInput(t *testing.T) {
	o := echoOp(t, op.Config{
		Name:    "echo",
		Inputs:  tree.NewSet(tree.Typed("a", tree.Int)),
		Outputs: tree.NewSet(tree.K("a")),
	})

	_, err := o.Call(record.Record{"a": "one"})
	require.Error(t, err)

	var cerr *op.CallError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "echo", cerr.Op)
	assert.Equal(t, "input", cerr.Stage)

	var verr *validate.Error
	assert.ErrorAs(t, err, &verr)
}

func TestCallValidatesOutput(t *testing.T) {
	o, err := op.New(op.Config{
		Name:    "half",
		Outputs: tree.NewSet(tree.Typed("b", tree.Int)),
	}, func(record.Record) (record.Record, error) {
		return record.Record{}, nil
	})
	require.NoError(t, err)

	_, err = o.Call(record.Record{})
	require.Error(t, err)

	var cerr *op.CallError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "output", cerr.Stage)
}

func TestCallFiltersInput(t *testing.T) {
	var seen record.Record

	o, err := op.New(op.Config{
		Inputs: tree.NewSet(tree.K("a")),
	}, func(rec record.Record) (record.Record, error) {
		seen = rec
		return record.Record{}, nil
	})
	require.NoError(t, err)

	_, err = o.Call(record.Record{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, record.Record{"a": 1}, seen)
}

func TestCallExtendSkipsFiltering(t *testing.T) {
	var seen record.Record

	o, err := op.New(op.Config{
		Inputs: tree.NewSet(tree.K("a")),
		Extend: true,
	}, func(rec record.Record) (record.Record, error) {
		seen = rec
		return record.Record{}, nil
	})
	require.NoError(t, err)

	_, err = o.Call(record.Record{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, record.Record{"a": 1, "b": 2}, seen)

	// Validation still applies in extend mode.
	_, err = o.Call(record.Record{"b": 2})
	require.Error(t, err)

	var cerr *op.CallError
	assert.ErrorAs(t, err, &cerr)
}

func TestCallAppendMergesOverInput(t *testing.T) {
	o, err := op.New(op.Config{
		Inputs:  tree.NewSet(tree.K("a")),
		Outputs: tree.NewSet(tree.K("b")),
		Append:  true,
	}, func(rec record.Record) (record.Record, error) {
		return record.Record{"b": 2}, nil
	})
	require.NoError(t, err)

	in := record.Record{"a": 1, "extra": true}

	out, err := o.Call(in)
	require.NoError(t, err)
	assert.Equal(t, record.Record{"a": 1, "extra": true, "b": 2}, out)

	// The caller's record is not mutated.
	assert.Equal(t, record.Record{"a": 1, "extra": true}, in)
}

func TestCallRunErrorPropagatesUnmodified(t *testing.T) {
	boom := errors.New("boom")

	o, err := op.New(op.Config{}, func(record.Record) (record.Record, error) {
		return nil, boom
	})
	require.NoError(t, err)

	_, err = o.Call(record.Record{})
	assert.Equal(t, boom, err)
}

func TestAppendOf(t *testing.T) {
	inner, err := op.Const(record.Record{"b": 2})
	require.NoError(t, err)

	wrapped := op.AppendOf(inner)
	assert.True(t, wrapped.Append())
	assert.True(t, wrapped.Extend())
	assert.Equal(t, "+Const", wrapped.Name())

	out, err := wrapped.Call(record.Record{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, record.Record{"a": 1, "b": 2}, out)
}

func TestIdPassesThroughAndObserves(t *testing.T) {
	var seen record.Record

	o := op.Id(func(rec record.Record) { seen = rec })

	out, err := o.Call(record.Record{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, record.Record{"a": 1}, out)
	assert.Equal(t, record.Record{"a": 1}, seen)
}

func TestEmptyDiscardsEverything(t *testing.T) {
	out, err := op.Empty().Call(record.Record{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, record.Record{}, out)
}
