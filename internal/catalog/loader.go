package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"landscape-quote/pkg/units"
)

// File is the YAML document shape for an operator-supplied catalog.
type File struct {
	Services []ServiceSpec `yaml:"services"`
}

// ServiceSpec is one catalog entry plus its synonyms.
type ServiceSpec struct {
	Entry    `yaml:",inline"`
	Synonyms []string `yaml:"synonyms"`
}

// Load reads a catalog from a YAML file and validates it. Units must be
// spellings the units package recognizes; they are stored canonically.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Services) == 0 {
		return nil, fmt.Errorf("catalog has no services")
	}

	entries := make([]Entry, 0, len(f.Services))
	synonyms := make(map[string][]string, len(f.Services))
	for _, s := range f.Services {
		canonical, ok := units.Canonical(s.Unit)
		if !ok {
			return nil, fmt.Errorf("service %q: unknown unit %q", s.CanonicalName, s.Unit)
		}
		e := s.Entry
		e.Unit = canonical
		entries = append(entries, e)
		synonyms[NormalizeName(s.CanonicalName)] = s.Synonyms
	}
	return New(entries, synonyms)
}
