package manifest

import (
	"fmt"
	"strings"

	"opwire/tree"
)

// ParseType resolves a manifest type name. Base names are any, none,
// int, float, string, bool and dict; "|" joins union members and a
// trailing "?" makes the whole type optional, so "int|string?" reads
// as optional int-or-string.
func ParseType(name string) (tree.Type, error) {
	s := strings.TrimSpace(name)

	optional := strings.HasSuffix(s, "?")
	if optional {
		s = strings.TrimSuffix(s, "?")
	}

	var members []tree.Type
	for _, part := range strings.Split(s, "|") {
		t, err := baseType(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", name, err)
		}

		members = append(members, t)
	}

	t := tree.OneOf(members...)
	if optional {
		t = tree.Optional(t)
	}

	return t, nil
}

func baseType(name string) (tree.Type, error) {
	switch name {
	case "any":
		return tree.Any, nil
	case "none":
		return tree.None, nil
	case "int":
		return tree.Int, nil
	case "float":
		return tree.Float, nil
	case "string":
		return tree.String, nil
	case "bool":
		return tree.Bool, nil
	case "dict":
		return tree.Dict, nil
	default:
		return nil, fmt.Errorf("unknown type name %q", name)
	}
}
