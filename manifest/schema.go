// Package manifest loads declarative pipeline definitions from YAML,
// validates them structurally into a diagnostics collection and builds
// them into syntax trees.
package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is the top-level manifest document.
type File struct {
	Version  string `yaml:"version,omitempty"`
	Pipeline *Spec  `yaml:"pipeline"`
}

// Spec is one node of a pipeline definition. Exactly one of its fields
// may be set; Validate reports a spec that sets none or several.
type Spec struct {
	Compose []*Spec        `yaml:"compose,omitempty"`
	Concat  []*Spec        `yaml:"concat,omitempty"`
	Append  *Spec          `yaml:"append,omitempty"`
	Cycle   *CycleSpec     `yaml:"cycle,omitempty"`
	Switch  *SwitchSpec    `yaml:"switch,omitempty"`
	Let     []LetSpec      `yaml:"let,omitempty"`
	Const   map[string]any `yaml:"const,omitempty"`
	Id      bool           `yaml:"id,omitempty"`
	Empty   bool           `yaml:"empty,omitempty"`
}

// LetSpec describes one rewiring of a Let operation.
type LetSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to,omitempty"`
	Type string `yaml:"type,omitempty"`
}

// UnmarshalYAML accepts either a bare path string, shorthand for a
// pass-through of that path, or a from/to/type mapping.
func (l *LetSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		*l = LetSpec{From: str}

		return nil

	case yaml.MappingNode:
		type plain LetSpec

		var p plain

		err := node.Decode(&p)
		if err != nil {
			return err
		}

		*l = LetSpec(p)

		return nil

	default:
		return fmt.Errorf("expected string or mapping, got %v", node.Kind)
	}
}

// MarshalYAML emits the bare-string shorthand when only From is set.
func (l LetSpec) MarshalYAML() (any, error) {
	if l.To == "" && l.Type == "" {
		return l.From, nil
	}

	type plain LetSpec

	return plain(l), nil
}

// CycleSpec describes a cycle node. A nil Counter defaults to -1,
// meaning unbounded.
type CycleSpec struct {
	Of      *Spec  `yaml:"of"`
	Counter *int   `yaml:"counter,omitempty"`
	Key     string `yaml:"key,omitempty"`
}

// SwitchSpec describes a switch node.
type SwitchSpec struct {
	Key     string     `yaml:"key"`
	Cases   []CaseSpec `yaml:"cases"`
	Default *Spec      `yaml:"default,omitempty"`
}

// CaseSpec pairs a dispatch value with the branch run for it.
type CaseSpec struct {
	Value any   `yaml:"value"`
	Then  *Spec `yaml:"then"`
}
