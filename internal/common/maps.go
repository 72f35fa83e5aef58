package common

import "sort"

// SortedKeys returns the keys of m in ascending order. Used wherever map
// iteration order leaks into output (error messages, derived names, merges).
func SortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
