// Package syntax builds compositions as deferred trees. A Node records
// which combinator to apply and to what, without constructing any
// operation; Assemble flattens runs of the same combinator and then
// instantiates the concrete operation graph bottom-up. Construction
// errors raised along the way (a bad Const in Partial, an incompatible
// union inside a combinator) surface from Assemble, never from the
// builders, so trees compose freely before any legality check runs.
package syntax

import (
	"fmt"

	"opwire/combine"
	"opwire/op"
	"opwire/record"
	"opwire/tree"
)

// Node is one vertex of a syntax tree. Nodes are immutable: every
// builder and method returns a new Node and never mutates its
// receiver or arguments.
type Node struct {
	kind     Kind
	op       *op.Operation // leaf payload
	err      error         // deferred construction error
	children []*Node

	// switch payload
	key   string
	cases []Case
	def   *Node

	// cycle payload
	counter  int
	cycleKey string
}

// Case pairs a dispatch value with the branch run when the switch key
// holds that value.
type Case struct {
	Value any
	Node  *Node
}

// CaseOf builds a switch case.
func CaseOf(value any, n *Node) Case {
	return Case{Value: value, Node: n}
}

// Leaf wraps a ready operation.
func Leaf(o *op.Operation) *Node {
	return &Node{kind: KindLeaf, op: o}
}

// Lift wraps the result of a fallible operation constructor, deferring
// any error to Assemble. It lets constructors like op.Let or op.Run
// slot directly into a composition:
//
//	syntax.Lift(op.Let(op.Conn{From: "a", To: "b"})).Pipe(next)
func Lift(o *op.Operation, err error) *Node {
	if err != nil {
		return &Node{kind: KindLeaf, err: err}
	}
	return Leaf(o)
}

// Concat joins nodes to run side by side over the same input.
func Concat(nodes ...*Node) *Node {
	return &Node{kind: KindConcat, children: cloneNodes(nodes)}
}

// Compose chains nodes so each consumes the previous one's result.
func Compose(nodes ...*Node) *Node {
	return &Node{kind: KindCompose, children: cloneNodes(nodes)}
}

// AppendOf marks a node so its assembled operation merges its output
// over its input instead of replacing it.
func AppendOf(n *Node) *Node {
	return &Node{kind: KindAppend, children: []*Node{n}}
}

// Cycle repeats a node, feeding each result back as the next input;
// counter -1 loops without bound and a non-empty key names a bool
// field whose falsity stops the loop.
func Cycle(n *Node, counter int, key string) *Node {
	return &Node{kind: KindCycle, children: []*Node{n}, counter: counter, cycleKey: key}
}

// Switch dispatches on the value stored under key; def may be nil.
func Switch(key string, cases []Case, def *Node) *Node {
	return &Node{kind: KindSwitch, key: key, cases: append([]Case(nil), cases...), def: def}
}

// And is infix sugar for Concat(n, other).
func (n *Node) And(other *Node) *Node { return Concat(n, other) }

// Pipe is infix sugar for Compose(n, other).
func (n *Node) Pipe(other *Node) *Node { return Compose(n, other) }

// Appended is postfix sugar for AppendOf(n).
func (n *Node) Appended() *Node { return AppendOf(n) }

// Partial pre-seeds constant values that later stages can read without
// the caller supplying them again: it composes an appending Const of
// the fixed inputs in front of n.
func (n *Node) Partial(fixed record.Record, keys ...tree.Key) *Node {
	return Compose(AppendOf(Lift(op.Const(fixed, keys...))), n)
}

// Assemble flattens the tree and instantiates the operation graph it
// describes. Deferred builder errors and combinator construction
// failures both surface here.
func (n *Node) Assemble() (*op.Operation, error) {
	if n.err != nil {
		return nil, n.err
	}

	switch n.kind {
	case KindLeaf:
		return n.op, nil

	case KindConcat, KindCompose:
		ops, err := assembleAll(n.flattenChildren())
		if err != nil {
			return nil, err
		}
		if n.kind == KindConcat {
			return combine.Concat(ops...)
		}
		return combine.Compose(ops...)

	case KindAppend:
		children := n.flattenChildren()
		if len(children) != 1 {
			return nil, fmt.Errorf("syntax: append node has %d children, want 1", len(children))
		}
		inner, err := children[0].Assemble()
		if err != nil {
			return nil, err
		}
		return op.AppendOf(inner), nil

	case KindCycle:
		inner, err := n.children[0].Assemble()
		if err != nil {
			return nil, err
		}
		return combine.Cycle(inner, n.counter, n.cycleKey)

	case KindSwitch:
		cases := make([]combine.Case, 0, len(n.cases))
		for _, c := range n.cases {
			o, err := c.Node.Assemble()
			if err != nil {
				return nil, err
			}
			cases = append(cases, combine.Case{Value: c.Value, Op: o})
		}
		var def *op.Operation
		if n.def != nil {
			var err error
			def, err = n.def.Assemble()
			if err != nil {
				return nil, err
			}
		}
		return combine.Switch(n.key, cases, def)

	default:
		return nil, fmt.Errorf("syntax: unknown node kind %v", n.kind)
	}
}

// Call assembles the tree and invokes the resulting operation.
func (n *Node) Call(rec record.Record) (record.Record, error) {
	o, err := n.Assemble()
	if err != nil {
		return nil, err
	}
	return o.Call(rec)
}

// flattenChildren merges runs of the same combinator, so
// Compose(Compose(x, y), z) assembles exactly like Compose(x, y, z).
// The receiver is left untouched.
func (n *Node) flattenChildren() []*Node {
	flat := make([]*Node, 0, len(n.children))
	for _, child := range n.children {
		if child.kind == n.kind && child.err == nil {
			flat = append(flat, child.flattenChildren()...)
			continue
		}
		flat = append(flat, child)
	}
	return flat
}

func assembleAll(nodes []*Node) ([]*op.Operation, error) {
	ops := make([]*op.Operation, 0, len(nodes))
	for _, n := range nodes {
		o, err := n.Assemble()
		if err != nil {
			return nil, err
		}
		ops = append(ops, o)
	}
	return ops, nil
}

func cloneNodes(nodes []*Node) []*Node {
	return append([]*Node(nil), nodes...)
}
