package combine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opwire/combine"
	"opwire/op"
	"opwire/record"
)

func incrementOp(t *testing.T) *op.Operation {
	t.Helper()

	return op.AppendOf(mustRun(t, map[string]op.Field{
		"x": mustField(t, func(x int) int { return x + 1 }, "x"),
	}))
}

func TestCycleCountedIterations(t *testing.T) {
	o, err := combine.Cycle(incrementOp(t), 3, "")
	require.NoError(t, err)

	out, err := o.Call(record.Record{"x": 0})
	require.NoError(t, err)
	assert.Equal(t, 3, out["x"])
}

func TestCycleZeroCounterRunsNothing(t *testing.T) {
	o, err := combine.Cycle(incrementOp(t), 0, "")
	require.NoError(t, err)

	out, err := o.Call(record.Record{"x": 5})
	require.NoError(t, err)
	assert.Equal(t, 5, out["x"])
}

func TestCycleKeyTermination(t *testing.T) {
	step := op.AppendOf(mustRun(t, map[string]op.Field{
		"x":     mustField(t, func(x int) int { return x + 1 }, "x"),
		"again": mustField(t, func(x int) bool { return x+1 < 2 }, "x"),
	}))

	o, err := combine.Cycle(step, -1, "again")
	require.NoError(t, err)

	out, err := o.Call(record.Record{"x": 0, "again": true})
	require.NoError(t, err)
	assert.Equal(t, 2, out["x"])
	assert.Equal(t, false, out["again"])
}

func TestCycleKeyMustBeBool(t *testing.T) {
	o, err := combine.Cycle(incrementOp(t), -1, "again")
	require.NoError(t, err)

	_, err = o.Call(record.Record{"x": 0, "again": 1})
	assert.ErrorContains(t, err, "want bool")
}

func TestCycleSelfMismatchFailsConstruction(t *testing.T) {
	// A non-appending step whose output cannot feed its own input.
	step := mustLet(t, op.Conn{From: "x", To: "y"})

	_, err := combine.Cycle(step, 2, "")
	require.Error(t, err)

	var cm *combine.CompositionMismatchError
	assert.ErrorAs(t, err, &cm)
}

func TestCycleSelfFeedingLetLoops(t *testing.T) {
	// x -> x satisfies itself without append mode.
	step := mustLet(t, op.Conn{From: "x"})

	o, err := combine.Cycle(step, 4, "")
	require.NoError(t, err)

	out, err := o.Call(record.Record{"x": 9})
	require.NoError(t, err)
	assert.Equal(t, record.Record{"x": 9}, out)
}
