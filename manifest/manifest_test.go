package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opwire/manifest"
	"opwire/record"
	"opwire/tree"
)

func TestParseAppliesDefaults(t *testing.T) {
	f, err := manifest.Parse([]byte(`
pipeline:
  cycle:
    key: again
    of:
      let:
        - x
`))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)

	require.NotNil(t, f.Pipeline.Cycle)
	require.NotNil(t, f.Pipeline.Cycle.Counter)
	assert.Equal(t, -1, *f.Pipeline.Cycle.Counter)

	// The bare-string let shorthand passes the path through.
	lets := f.Pipeline.Cycle.Of.Let
	require.Len(t, lets, 1)
	assert.Equal(t, manifest.LetSpec{From: "x", To: "x"}, lets[0])
}

func TestParseLetMapping(t *testing.T) {
	f, err := manifest.Parse([]byte(`
pipeline:
  let:
    - from: a.b
      to: c
      type: int|string?
`))
	require.NoError(t, err)

	require.Len(t, f.Pipeline.Let, 1)
	assert.Equal(t, manifest.LetSpec{From: "a.b", To: "c", Type: "int|string?"}, f.Pipeline.Let[0])
}

func TestValidateCollectsAllProblems(t *testing.T) {
	f, err := manifest.Parse([]byte(`
pipeline:
  compose:
    - {}
    - let:
        - from: x
      const:
        a: 1
    - let:
        - from: y
          type: intt
`))
	require.NoError(t, err)

	diags := manifest.Validate(f)
	require.True(t, diags.HasErrors())

	codes := make([]string, 0, len(diags.Errors))
	for _, d := range diags.Errors {
		codes = append(codes, d.Code)
	}

	assert.Contains(t, codes, "empty_spec")
	assert.Contains(t, codes, "ambiguous_spec")
	assert.Contains(t, codes, "bad_type")
}

func TestValidateMissingPipeline(t *testing.T) {
	diags := manifest.Validate(&manifest.File{})
	require.True(t, diags.HasErrors())
	assert.Equal(t, "missing_pipeline", diags.Errors[0].Code)
}

func TestValidateWarnsOnUnboundedCycle(t *testing.T) {
	f, err := manifest.Parse([]byte(`
pipeline:
  cycle:
    of:
      let:
        - x
`))
	require.NoError(t, err)

	diags := manifest.Validate(f)
	assert.True(t, diags.IsValid())
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, "unbounded_cycle", diags.Warnings[0].Code)
}

func TestBuildRefusesInvalidManifest(t *testing.T) {
	f, err := manifest.Parse([]byte("pipeline:\n  switch:\n    cases: []\n"))
	require.NoError(t, err)

	_, err = manifest.Build(f)
	assert.Error(t, err)
}

func TestComposePipelineRoundTrip(t *testing.T) {
	f, err := manifest.Parse([]byte(`
version: "1"
pipeline:
  compose:
    - let:
        - from: x
          to: a
    - let:
        - from: a
          to: u
`))
	require.NoError(t, err)

	node, err := manifest.Build(f)
	require.NoError(t, err)

	out, err := node.Call(record.Record{"x": 5})
	require.NoError(t, err)
	assert.Equal(t, record.Record{"u": 5}, out)
}

func TestCyclePipelineWithTerminationKey(t *testing.T) {
	f, err := manifest.Parse([]byte(`
pipeline:
  cycle:
    key: again
    of:
      append:
        const:
          again: false
          done: true
`))
	require.NoError(t, err)

	node, err := manifest.Build(f)
	require.NoError(t, err)

	out, err := node.Call(record.Record{"again": true})
	require.NoError(t, err)
	assert.Equal(t, record.Record{"again": false, "done": true}, out)
}

func TestBuildDefaultsNilCycleCounter(t *testing.T) {
	// Files built straight from the schema structs never pass through
	// Parse, so Build must tolerate an unset cycle counter itself.
	f := &manifest.File{
		Pipeline: &manifest.Spec{
			Cycle: &manifest.CycleSpec{
				Key: "again",
				Of: &manifest.Spec{
					Append: &manifest.Spec{Const: map[string]any{"again": false}},
				},
			},
		},
	}

	require.True(t, manifest.Validate(f).IsValid())

	node, err := manifest.Build(f)
	require.NoError(t, err)

	out, err := node.Call(record.Record{"again": true})
	require.NoError(t, err)
	assert.Equal(t, record.Record{"again": false}, out)
}

func TestDiagnosticsMerge(t *testing.T) {
	var a, b manifest.Diagnostics

	a.AddError("one", "first error", "p")
	b.AddError("two", "second error", "q")
	b.AddWarning("three", "a warning", "r")

	a.Merge(b)

	require.Len(t, a.Errors, 2)
	assert.Equal(t, "two", a.Errors[1].Code)
	require.Len(t, a.Warnings, 1)
	assert.Equal(t, "three", a.Warnings[0].Code)
}

func TestSwitchPipeline(t *testing.T) {
	f, err := manifest.Parse([]byte(`
pipeline:
  switch:
    key: kind
    cases:
      - value: 1
        then:
          const:
            r: one
      - value: 2
        then:
          const:
            r: two
    default:
      const:
        r: other
`))
	require.NoError(t, err)

	node, err := manifest.Build(f)
	require.NoError(t, err)

	out, err := node.Call(record.Record{"kind": 2})
	require.NoError(t, err)
	assert.Equal(t, record.Record{"r": "two"}, out)

	out, err = node.Call(record.Record{"kind": 9})
	require.NoError(t, err)
	assert.Equal(t, record.Record{"r": "other"}, out)
}

func TestParseTypeNames(t *testing.T) {
	typ, err := manifest.ParseType("int")
	require.NoError(t, err)
	assert.Equal(t, tree.Int, typ)

	typ, err = manifest.ParseType("int|string")
	require.NoError(t, err)
	assert.Equal(t, tree.OneOf(tree.Int, tree.String), typ)

	typ, err = manifest.ParseType("bool?")
	require.NoError(t, err)
	assert.Equal(t, tree.Optional(tree.Bool), typ)

	_, err = manifest.ParseType("decimal")
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	src := []byte(`
pipeline:
  concat:
    - let:
        - x
    - const:
        a: 1
`)

	f, err := manifest.Parse(src)
	require.NoError(t, err)

	data, err := manifest.Marshal(f)
	require.NoError(t, err)

	back, err := manifest.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f, back)
}
