// Package tree implements the type model for record fields: declared field
// types, the subtype relation between them, typed keys, and the type-tree
// algebra (union, difference, match) that combinators use to check
// composition legality without probing data.
package tree

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"opwire/internal/common"
)

// Node is a value of a Tree: either a Type leaf or a nested Tree.
type Node interface {
	node()
}

// Type describes the set of values a field accepts.
type Type interface {
	Node

	// Accepts reports whether v is a member of the type. A nil v models
	// an absent ("none") value.
	Accepts(v any) bool

	String() string
}

type anyType struct{}

type noneType struct{}

type dictType struct{}

type litType struct {
	rt reflect.Type
}

type unionType struct {
	members []Type
}

// Any accepts every value except none. None is accepted only by types that
// explicitly admit it (None itself, or a union containing None).
var Any Type = anyType{}

// None accepts only the absent value (nil).
var None Type = noneType{}

// Dict accepts any record value. A nested type tree is a subtype of Dict.
var Dict Type = dictType{}

// Common literal types.
var (
	Int    = T[int]()
	Float  = T[float64]()
	String = T[string]()
	Bool   = T[bool]()
)

// T returns the literal type for the Go type X.
func T[X any]() Type {
	return litType{rt: reflect.TypeOf((*X)(nil)).Elem()}
}

// Of returns the declared type of a sample value: None for nil, Dict for a
// record, and the literal reflect type otherwise.
func Of(v any) Type {
	switch v.(type) {
	case nil:
		return None
	case map[string]any:
		return Dict
	default:
		return litType{rt: reflect.TypeOf(v)}
	}
}

// FromReflect returns the declared type for a reflect type: Any for the
// empty interface, Dict for map[string]any, and the literal type
// otherwise.
func FromReflect(rt reflect.Type) Type {
	switch rt {
	case anyReflectType:
		return Any
	case dictReflectType:
		return Dict
	default:
		return litType{rt: rt}
	}
}

var (
	anyReflectType  = reflect.TypeOf((*any)(nil)).Elem()
	dictReflectType = reflect.TypeOf(map[string]any{})
)

// OneOf returns the union type accepting any of the member types. A union
// with a single member collapses to that member.
func OneOf(members ...Type) Type {
	flat := make([]Type, 0, len(members))

	for _, m := range members {
		if u, ok := m.(unionType); ok {
			flat = append(flat, u.members...)
			continue
		}

		flat = append(flat, m)
	}

	if common.IsSingle(flat) {
		return flat[0]
	}

	return unionType{members: flat}
}

// Optional returns OneOf(t, None): t's values plus the absent value.
func Optional(t Type) Type {
	return OneOf(t, None)
}

func (anyType) node()   {}
func (noneType) node()  {}
func (dictType) node()  {}
func (litType) node()   {}
func (unionType) node() {}

func (anyType) Accepts(v any) bool {
	return v != nil
}

func (noneType) Accepts(v any) bool {
	return v == nil
}

func (dictType) Accepts(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func (t litType) Accepts(v any) bool {
	if v == nil {
		return false
	}

	return reflect.TypeOf(v).AssignableTo(t.rt)
}

func (t unionType) Accepts(v any) bool {
	for _, m := range t.members {
		if m.Accepts(v) {
			return true
		}
	}

	return false
}

func (anyType) String() string  { return "any" }
func (noneType) String() string { return "none" }
func (dictType) String() string { return "dict" }

func (t litType) String() string {
	return t.rt.String()
}

func (t unionType) String() string {
	parts := make([]string, len(t.members))
	for i, m := range t.members {
		parts[i] = m.String()
	}

	sort.Strings(parts)

	return strings.Join(parts, "|")
}

// Subtype reports whether every value accepted by a is accepted by b.
// The relation is a preorder, not a total order: two types may be
// incomparable in both directions, which the tree algebra reports as an
// error instead of picking a side.
func Subtype(a, b Type) bool {
	if b == Any {
		// Any sits above everything except none.
		return a != None
	}

	if u, ok := a.(unionType); ok {
		for _, m := range u.members {
			if !Subtype(m, b) {
				return false
			}
		}

		return true
	}

	if u, ok := b.(unionType); ok {
		for _, m := range u.members {
			if Subtype(a, m) {
				return true
			}
		}

		return false
	}

	switch {
	case a == None:
		return b == None
	case a == Any:
		return false
	case a == Dict || b == Dict:
		return a == Dict && b == Dict
	}

	la, aok := a.(litType)
	lb, bok := b.(litType)

	if !aok || !bok {
		return false
	}

	return la.rt == lb.rt || la.rt.AssignableTo(lb.rt)
}

// subtypeNode extends Subtype to tree nodes: a nested tree sits below Dict
// (and therefore Any) but below no other type, and no plain type sits below
// a tree.
func subtypeNode(a, b Node) bool {
	at, aIsType := a.(Type)
	bt, bIsType := b.(Type)

	switch {
	case aIsType && bIsType:
		return Subtype(at, bt)
	case !aIsType && bIsType:
		return Subtype(Dict, bt)
	case aIsType && !bIsType:
		return false
	default:
		return Match(a.(Tree), b.(Tree))
	}
}

func nodeString(n Node) string {
	switch tn := n.(type) {
	case Type:
		return tn.String()
	case Tree:
		return tn.String()
	default:
		return fmt.Sprintf("%v", n)
	}
}
