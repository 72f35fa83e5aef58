package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML manifest from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	normalizeSpec(f.Pipeline)
}

func normalizeSpec(s *Spec) {
	if s == nil {
		return
	}

	for i := range s.Let {
		if s.Let[i].To == "" {
			s.Let[i].To = s.Let[i].From
		}
	}

	if s.Cycle != nil {
		if s.Cycle.Counter == nil {
			unbounded := -1
			s.Cycle.Counter = &unbounded
		}

		normalizeSpec(s.Cycle.Of)
	}

	if s.Switch != nil {
		for i := range s.Switch.Cases {
			normalizeSpec(s.Switch.Cases[i].Then)
		}

		normalizeSpec(s.Switch.Default)
	}

	normalizeSpec(s.Append)

	for _, c := range s.Compose {
		normalizeSpec(c)
	}

	for _, c := range s.Concat {
		normalizeSpec(c)
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}
