package fields

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type extensionFile struct {
	Version int          `yaml:"version"`
	Fields  []Descriptor `yaml:"fields"`
}

// Load returns the default registry extended with the descriptors declared in
// the YAML file at path. Entries whose key matches a default replace it.
// An empty path yields the defaults.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading field registry %s: %w", path, err)
	}
	return Parse(b)
}

// Parse builds a registry from YAML extension content.
func Parse(data []byte) (*Registry, error) {
	var ext extensionFile
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return nil, fmt.Errorf("parsing field registry: %w", err)
	}
	if ext.Version != 1 {
		return nil, fmt.Errorf("field registry: unsupported version %d", ext.Version)
	}
	return NewRegistry(append(DefaultDescriptors(), ext.Fields...)...)
}
