package manifest

import (
	"opwire/op"
	"opwire/record"
	"opwire/syntax"
	"opwire/tree"
)

// Build validates a manifest and turns its pipeline into a syntax
// tree. Structural errors abort the build; operation-level legality is
// still deferred to syntax.Node.Assemble, as with hand-built trees.
func Build(f *File) (*syntax.Node, error) {
	if err := Validate(f).Error(); err != nil {
		return nil, err
	}

	return buildSpec(f.Pipeline), nil
}

func buildSpec(s *Spec) *syntax.Node {
	switch {
	case len(s.Compose) > 0:
		return syntax.Compose(buildAll(s.Compose)...)

	case len(s.Concat) > 0:
		return syntax.Concat(buildAll(s.Concat)...)

	case s.Append != nil:
		return syntax.AppendOf(buildSpec(s.Append))

	case s.Cycle != nil:
		// A nil counter means unbounded, same as Parse's normalization;
		// files built straight from the schema structs skip Parse.
		counter := -1
		if s.Cycle.Counter != nil {
			counter = *s.Cycle.Counter
		}

		return syntax.Cycle(buildSpec(s.Cycle.Of), counter, s.Cycle.Key)

	case s.Switch != nil:
		cases := make([]syntax.Case, 0, len(s.Switch.Cases))
		for _, c := range s.Switch.Cases {
			cases = append(cases, syntax.CaseOf(c.Value, buildSpec(c.Then)))
		}

		var def *syntax.Node
		if s.Switch.Default != nil {
			def = buildSpec(s.Switch.Default)
		}

		return syntax.Switch(s.Switch.Key, cases, def)

	case len(s.Let) > 0:
		return syntax.Lift(op.Let(buildConns(s.Let)...))

	case s.Const != nil:
		return syntax.Lift(op.Const(record.Record(s.Const)))

	case s.Id:
		return syntax.Leaf(op.Id())

	default:
		return syntax.Leaf(op.Empty())
	}
}

func buildAll(specs []*Spec) []*syntax.Node {
	nodes := make([]*syntax.Node, 0, len(specs))
	for _, s := range specs {
		nodes = append(nodes, buildSpec(s))
	}

	return nodes
}

func buildConns(lets []LetSpec) []op.Conn {
	conns := make([]op.Conn, 0, len(lets))
	for _, l := range lets {
		var typ tree.Type
		if l.Type != "" {
			// Validate already parsed this name.
			typ, _ = ParseType(l.Type)
		}

		conns = append(conns, op.Conn{From: l.From, To: l.To, Type: typ})
	}

	return conns
}
