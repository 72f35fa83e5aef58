package tree

import (
	"fmt"
	"sort"
)

// Key identifies a record field: a dotted path plus an optional declared
// type and default value. A Key with a nil Type is a "bare" key: it accepts
// anything that is present, and is matched only by keys declared Any.
type Key struct {
	Name    string
	Type    Type
	Default any
}

// K returns a bare key for name.
func K(name string) Key {
	return Key{Name: name}
}

// Typed returns a key declared at type t.
func Typed(name string, t Type) Key {
	return Key{Name: name, Type: t}
}

// WithDefault returns a typed key carrying a default value. The default
// must be a member of the declared type.
func WithDefault(name string, t Type, def any) (Key, error) {
	if !t.Accepts(def) {
		return Key{}, fmt.Errorf("default value %v is not of type %s", def, t)
	}

	return Key{Name: name, Type: t, Default: def}, nil
}

// typ returns the declared type, defaulting bare keys to Any.
func (k Key) typ() Type {
	if k.Type == nil {
		return Any
	}

	return k.Type
}

// Match reports whether the set of values accepted by other is a subset of
// the set accepted by k. A nil other stands for an absent field: it matches
// only when k explicitly admits none. A bare other is matched only when k
// accepts anything.
func (k Key) Match(other *Key) bool {
	if other == nil {
		return Subtype(None, k.typ()) && k.typ() != Any
	}

	if k.Name != other.Name {
		return false
	}

	if other.Type == nil {
		return k.typ() == Any
	}

	return Subtype(other.Type, k.typ())
}

func (k Key) String() string {
	if k.Type == nil {
		return k.Name
	}

	return k.Name + ": " + k.Type.String()
}

// id is the set identity of the key: two keys with the same name but
// different declared types are distinct set elements.
func (k Key) id() string {
	return k.String()
}

// Set is a set of keys, identified by (name, declared type).
type Set map[string]Key

// NewSet builds a Set from keys. Later duplicates (same name and type)
// overwrite earlier ones.
func NewSet(keys ...Key) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s.Add(k)
	}

	return s
}

// Add inserts k into the set.
func (s Set) Add(k Key) {
	s[k.id()] = k
}

// Union returns a new set holding the members of both sets.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))

	for id, k := range s {
		out[id] = k
	}

	for id, k := range other {
		out[id] = k
	}

	return out
}

// Keys returns the members sorted by identity.
func (s Set) Keys() []Key {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	out := make([]Key, len(ids))
	for i, id := range ids {
		out[i] = s[id]
	}

	return out
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s)
}
