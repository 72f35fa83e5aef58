package tree

import (
	"fmt"

	"opwire/internal/common"
)

// IncompatibleTypesError reports a path at which two type trees hold
// mutually incomparable types and therefore cannot be combined.
type IncompatibleTypesError struct {
	Path string
	Dst  string
	Src  string
}

func (e *IncompatibleTypesError) Error() string {
	return fmt.Sprintf("incompatible types at %q: %s vs %s", e.Path, e.Dst, e.Src)
}

// Union merges src into a clone of dst, path by path. On a collision
// between two type leaves the narrower type wins when minimize is true and
// the wider type wins otherwise; incomparable types fail with
// *IncompatibleTypesError naming the path. Subtrees recurse; a collision
// between a subtree and a type leaf always fails.
func Union(dst, src Tree, minimize bool) (Tree, error) {
	return unionAt(dst, src, minimize, "")
}

func unionAt(dst, src Tree, minimize bool, prefix string) (Tree, error) {
	out := dst.Clone()

	for _, k := range common.SortedKeys(src) {
		sn := src[k]
		path := joinPath(prefix, k)

		dn, ok := out[k]
		if !ok {
			out[k] = cloneNode(sn)
			continue
		}

		dt, dstIsTree := dn.(Tree)
		st, srcIsTree := sn.(Tree)

		if dstIsTree && srcIsTree {
			merged, err := unionAt(dt, st, minimize, path)
			if err != nil {
				return nil, err
			}

			out[k] = merged

			continue
		}

		if dstIsTree || srcIsTree {
			return nil, &IncompatibleTypesError{
				Path: path,
				Dst:  nodeString(dn),
				Src:  nodeString(sn),
			}
		}

		dtyp := dn.(Type)
		styp := sn.(Type)

		switch {
		case Subtype(dtyp, styp):
			// src is the wider side.
			if !minimize {
				out[k] = styp
			}
		case Subtype(styp, dtyp):
			if minimize {
				out[k] = styp
			}
		default:
			return nil, &IncompatibleTypesError{
				Path: path,
				Dst:  dtyp.String(),
				Src:  styp.String(),
			}
		}
	}

	return out, nil
}

// Difference returns the paths of dst that src does not cover. A path
// absent from src is kept. For a path present in both: with compareTypes
// false the path is dropped; otherwise a dst type narrower than src's is
// dropped, a wider one is kept only when keepWider is true, and
// incomparable types fail with *IncompatibleTypesError. Empty subtree
// differences are omitted from the result.
func Difference(dst, src Tree, compareTypes, keepWider bool) (Tree, error) {
	return differenceAt(dst, src, compareTypes, keepWider, "")
}

func differenceAt(dst, src Tree, compareTypes, keepWider bool, prefix string) (Tree, error) {
	out := Tree{}

	for _, k := range common.SortedKeys(dst) {
		dn := dst[k]
		path := joinPath(prefix, k)

		sn, ok := src[k]
		if !ok {
			out[k] = cloneNode(dn)
			continue
		}

		dt, dstIsTree := dn.(Tree)
		st, srcIsTree := sn.(Tree)

		if dstIsTree && srcIsTree {
			sub, err := differenceAt(dt, st, compareTypes, keepWider, path)
			if err != nil {
				return nil, err
			}

			if !sub.IsEmpty() {
				out[k] = sub
			}

			continue
		}

		if !compareTypes {
			continue
		}

		switch {
		case subtypeNode(dn, sn):
			// dst is covered by src.
		case subtypeNode(sn, dn):
			if keepWider {
				out[k] = cloneNode(dn)
			}
		default:
			return nil, &IncompatibleTypesError{
				Path: path,
				Dst:  nodeString(dn),
				Src:  nodeString(sn),
			}
		}
	}

	return out, nil
}

// Match reports whether any record matching obj also matches src: every
// path declared by src must be present in obj (absent paths default to
// none) with obj's type a subtype of src's. Match(t, t) is always true,
// and Match(t, Tree{}) is trivially true.
func Match(obj, src Tree) bool {
	for k, sn := range src {
		on, ok := obj[k]
		if !ok {
			on = None
		}

		st, srcIsTree := sn.(Tree)
		ot, objIsTree := on.(Tree)

		if srcIsTree && objIsTree {
			if !Match(ot, st) {
				return false
			}

			continue
		}

		if !subtypeNode(on, sn) {
			return false
		}
	}

	return true
}

func cloneNode(n Node) Node {
	if sub, ok := n.(Tree); ok {
		return sub.Clone()
	}

	return n
}

func joinPath(prefix, k string) string {
	if prefix == "" {
		return k
	}

	return prefix + "." + k
}
