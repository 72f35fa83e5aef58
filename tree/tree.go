package tree

import (
	"fmt"
	"strings"

	"opwire/internal/common"
)

// Tree is a prefix-tree encoding of a set of typed keys: each value is
// either a declared Type or a nested Tree. Trees are treated as immutable;
// every algebra operation returns a fresh tree.
type Tree map[string]Node

func (Tree) node() {}

func (t Tree) String() string {
	parts := make([]string, 0, len(t))
	for _, k := range common.SortedKeys(t) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, nodeString(t[k])))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

// Clone returns a deep copy of t. Type leaves are shared; they are
// immutable values.
func (t Tree) Clone() Tree {
	out := make(Tree, len(t))

	for k, n := range t {
		if sub, ok := n.(Tree); ok {
			out[k] = sub.Clone()
			continue
		}

		out[k] = n
	}

	return out
}

// IsEmpty reports whether the tree declares no paths.
func (t Tree) IsEmpty() bool {
	return len(t) == 0
}

// Build constructs a Tree from a set of keys. Bare keys are declared Any.
// Two keys naming the same path combine with the narrower type winning;
// incomparable duplicates, and paths that collide with a subtree, fail
// with *IncompatibleTypesError.
func Build(keys Set) (Tree, error) {
	out := Tree{}

	for _, k := range keys.Keys() {
		if err := insert(out, k.Name, k.typ()); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func insert(t Tree, path string, typ Type) error {
	segments := strings.Split(path, ".")
	cur := t

	for i, seg := range segments {
		prefix := strings.Join(segments[:i+1], ".")

		if i == len(segments)-1 {
			existing, ok := cur[seg]
			if !ok {
				cur[seg] = typ
				return nil
			}

			et, isType := existing.(Type)
			if !isType {
				return &IncompatibleTypesError{
					Path: prefix,
					Dst:  nodeString(existing),
					Src:  typ.String(),
				}
			}

			narrower, err := narrowerOf(prefix, et, typ)
			if err != nil {
				return err
			}

			cur[seg] = narrower

			return nil
		}

		existing, ok := cur[seg]
		if !ok {
			next := Tree{}
			cur[seg] = next
			cur = next

			continue
		}

		sub, isTree := existing.(Tree)
		if !isTree {
			return &IncompatibleTypesError{
				Path: prefix,
				Dst:  nodeString(existing),
				Src:  "{...}",
			}
		}

		cur = sub
	}

	return nil
}

func narrowerOf(path string, a, b Type) (Type, error) {
	switch {
	case Subtype(a, b):
		return a, nil
	case Subtype(b, a):
		return b, nil
	default:
		return nil, &IncompatibleTypesError{
			Path: path,
			Dst:  a.String(),
			Src:  b.String(),
		}
	}
}

// Keys enumerates the leaf paths of t as typed keys. Build and Keys are
// inverse operations modulo key ordering and defaults.
func Keys(t Tree) Set {
	out := Set{}
	collectKeys(t, "", out)

	return out
}

func collectKeys(t Tree, prefix string, out Set) {
	for k, n := range t {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		if sub, ok := n.(Tree); ok {
			collectKeys(sub, path, out)
			continue
		}

		out.Add(Typed(path, n.(Type)))
	}
}

// Merge returns src deep-merged over a clone of dst. On a path collision
// src wins; two subtrees merge recursively; a type replaces a subtree and
// vice versa. Merge never fails: it implements override, not union.
func Merge(dst, src Tree) Tree {
	out := dst.Clone()

	for k, sn := range src {
		st, srcIsTree := sn.(Tree)

		if dn, ok := out[k]; ok && srcIsTree {
			if dt, dstIsTree := dn.(Tree); dstIsTree {
				out[k] = Merge(dt, st)
				continue
			}
		}

		if srcIsTree {
			out[k] = st.Clone()
			continue
		}

		out[k] = sn
	}

	return out
}
