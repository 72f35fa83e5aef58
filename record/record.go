// Package record implements the nested string-keyed records that flow
// between operations. A record is addressed with dotted paths ("a.b.c");
// nested maps are created on demand by Set and traversed by Get.
package record

import (
	"fmt"
	"strings"
)

// Record is a nested string-keyed mapping. It is the sole data currency
// between operations. A nil value models "none"; an absent path is treated
// as none by matching and validation.
type Record = map[string]any

// NotFoundError reports a path that is absent from a record.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("key %q not found", e.Path)
}

// PathError reports a malformed dotted path or a path that descends through
// a non-record value.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// ParsePath splits a dotted path into segments. Empty paths and empty
// segments are rejected.
func ParsePath(path string) ([]string, error) {
	if path == "" {
		return nil, &PathError{Path: path, Reason: "empty path"}
	}

	segments := strings.Split(path, ".")

	for _, seg := range segments {
		if seg == "" {
			return nil, &PathError{Path: path, Reason: "empty segment"}
		}
	}

	return segments, nil
}

// Get retrieves the value at a dotted path. It returns *NotFoundError when
// any segment along the path is absent, and *PathError when the path
// descends through a non-record value.
func Get(rec Record, path string) (any, error) {
	segments, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	cur := rec

	for i, seg := range segments {
		v, ok := cur[seg]
		if !ok {
			return nil, &NotFoundError{Path: path}
		}

		if i == len(segments)-1 {
			return v, nil
		}

		sub, ok := asRecord(v)
		if !ok {
			return nil, &PathError{
				Path:   path,
				Reason: fmt.Sprintf("segment %q is not a record", seg),
			}
		}

		cur = sub
	}

	return nil, &NotFoundError{Path: path}
}

// Has reports whether the dotted path resolves inside rec.
func Has(rec Record, path string) bool {
	_, err := Get(rec, path)
	return err == nil
}

// Set writes value at a dotted path, creating intermediate records as
// needed. It fails with *PathError when an intermediate segment holds a
// non-record value.
func Set(rec Record, path string, value any) error {
	segments, err := ParsePath(path)
	if err != nil {
		return err
	}

	cur := rec

	for _, seg := range segments[:len(segments)-1] {
		v, ok := cur[seg]
		if !ok {
			next := Record{}
			cur[seg] = next
			cur = next

			continue
		}

		sub, ok := asRecord(v)
		if !ok {
			return &PathError{
				Path:   path,
				Reason: fmt.Sprintf("segment %q is not a record", seg),
			}
		}

		cur = sub
	}

	cur[segments[len(segments)-1]] = value

	return nil
}

// Clone returns a deep copy of rec. Nested records and []any slices are
// copied; other values are shared (operations must not mutate them).
func Clone(rec Record) Record {
	if rec == nil {
		return Record{}
	}

	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = cloneValue(v)
	}

	return out
}

// Merge deep-merges src over a clone of dst and returns the result. On a
// key collision src wins; two records merge recursively.
func Merge(dst, src Record) Record {
	out := Clone(dst)
	mergeInto(out, src)

	return out
}

func mergeInto(dst, src Record) {
	for k, v := range src {
		sv, srcIsRec := asRecord(v)

		dv, ok := dst[k]
		if ok && srcIsRec {
			if drec, dstIsRec := asRecord(dv); dstIsRec {
				merged := Clone(drec)
				mergeInto(merged, sv)
				dst[k] = merged

				continue
			}
		}

		dst[k] = cloneValue(v)
	}
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case Record:
		return Clone(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}

		return out
	default:
		return v
	}
}

func asRecord(v any) (Record, bool) {
	rec, ok := v.(map[string]any)
	return rec, ok
}
