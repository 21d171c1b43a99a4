// Package declaration loads declared units of work from YAML files.
//
// A declaration file is the caller-facing format: a list of units, each
// naming a kind, a selector, a desired object body and a target state.
// Files are validated statically before any network call.
package declaration

import (
	"fmt"
	"os"

	"campusctl/core/reconcile"

	"gopkg.in/yaml.v3"
)

// File is a parsed declaration file.
type File struct {
	// Units is the ordered list of declared units of work.
	Units []reconcile.Unit `yaml:"units"`
}

// Load reads and validates a declaration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration file: %w", err)
	}
	return Parse(data)
}

// Parse decodes declaration YAML and validates every unit. Validation
// failures report the unit's position so operators can find the entry.
func Parse(data []byte) (*File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid declaration YAML: %w", err)
	}
	if len(file.Units) == 0 {
		return nil, fmt.Errorf("declaration contains no units")
	}

	for i, unit := range file.Units {
		if err := reconcile.Validate(unit); err != nil {
			return nil, fmt.Errorf("unit %d: %w", i+1, err)
		}
	}
	return &file, nil
}
