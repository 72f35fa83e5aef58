package op_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opwire/op"
	"opwire/record"
	"opwire/tree"
)

func TestLetRenames(t *testing.T) {
	o, err := op.Let(op.Conn{From: "x", To: "y"})
	require.NoError(t, err)
	assert.Equal(t, "Let(x -> y)", o.Name())

	out, err := o.Call(record.Record{"x": 5})
	require.NoError(t, err)
	assert.Equal(t, record.Record{"y": 5}, out)
}

func TestLetNestedPaths(t *testing.T) {
	o, err := op.Let(op.Conn{From: "a.b", To: "c.d"})
	require.NoError(t, err)

	out, err := o.Call(record.Record{"a": record.Record{"b": 1}})
	require.NoError(t, err)
	assert.Equal(t, record.Record{"c": record.Record{"d": 1}}, out)
}

func TestLetTypedConnection(t *testing.T) {
	o, err := op.Let(op.Conn{From: "x", To: "y", Type: tree.Int})
	require.NoError(t, err)

	_, err = o.Call(record.Record{"x": "five"})
	require.Error(t, err)

	var cerr *op.CallError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "input", cerr.Stage)
}

func TestLetMissingInputFailsValidation(t *testing.T) {
	o, err := op.Let(op.Conn{From: "x"})
	require.NoError(t, err)

	_, err = o.Call(record.Record{"y": 1})
	require.Error(t, err)

	var cerr *op.CallError
	assert.ErrorAs(t, err, &cerr)
}

func TestLetNoConnections(t *testing.T) {
	_, err := op.Let()
	assert.Error(t, err)
}

func TestPass(t *testing.T) {
	o, err := op.Pass("a", "b")
	require.NoError(t, err)

	out, err := o.Call(record.Record{"a": 1, "b": 2, "c": 3})
	require.NoError(t, err)
	assert.Equal(t, record.Record{"a": 1, "b": 2}, out)
}
