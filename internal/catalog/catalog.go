// Package catalog provides the static service catalog: canonical service
// names, price-lookup keys, measurement units, and the synonym index used
// for matching customer phrasing. The catalog is loaded once at process
// start and is read-only afterwards, so unlimited concurrent requests may
// share one instance without locking.
package catalog

import (
	"fmt"
	"strings"

	"landscape-quote/pkg/units"
)

// Entry is one canonical billable service.
type Entry struct {
	CanonicalName string `json:"canonical_name" yaml:"canonical_name"`
	LookupKey     string `json:"lookup_key" yaml:"lookup_key"`
	Unit          string `json:"unit" yaml:"unit"`
	Category      string `json:"category" yaml:"category"`
	Special       bool   `json:"special" yaml:"special"`

	// SetupKey names the mandatory companion setup entry for zone-based
	// specials, empty for ordinary services.
	SetupKey string `json:"setup_key,omitempty" yaml:"setup_key,omitempty"`
}

// Catalog is the immutable lookup structure built from entries and their
// synonyms.
type Catalog struct {
	entries  []Entry
	byName   map[string]Entry
	byKey    map[string]Entry
	synonyms map[string]string // normalized alias -> canonical name
	byCat    map[string][]Entry
}

// New builds a catalog and validates its invariants: lookup keys are
// unique, units are non-empty, and every canonical name has at least one
// synonym. synonyms maps canonical name to its aliases.
func New(entries []Entry, synonyms map[string][]string) (*Catalog, error) {
	c := &Catalog{
		entries:  make([]Entry, 0, len(entries)),
		byName:   make(map[string]Entry, len(entries)),
		byKey:    make(map[string]Entry, len(entries)),
		synonyms: make(map[string]string),
		byCat:    make(map[string][]Entry),
	}

	for _, e := range entries {
		name := NormalizeName(e.CanonicalName)
		if name == "" {
			return nil, fmt.Errorf("catalog entry with empty canonical name")
		}
		if e.LookupKey == "" {
			return nil, fmt.Errorf("catalog entry %q has no lookup key", e.CanonicalName)
		}
		if e.Unit == "" {
			return nil, fmt.Errorf("catalog entry %q has no unit", e.CanonicalName)
		}
		if _, dup := c.byKey[e.LookupKey]; dup {
			return nil, fmt.Errorf("duplicate lookup key %q", e.LookupKey)
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("duplicate canonical name %q", e.CanonicalName)
		}

		e.CanonicalName = name
		c.entries = append(c.entries, e)
		c.byName[name] = e
		c.byKey[e.LookupKey] = e
		c.byCat[e.Category] = append(c.byCat[e.Category], e)

		aliases := synonyms[e.CanonicalName]
		if len(aliases) == 0 {
			aliases = synonyms[name]
		}
		if len(aliases) == 0 {
			return nil, fmt.Errorf("catalog entry %q has no synonyms", e.CanonicalName)
		}
		for _, a := range aliases {
			alias := NormalizeName(a)
			if alias == "" || alias == name {
				continue
			}
			if existing, dup := c.synonyms[alias]; dup && existing != name {
				return nil, fmt.Errorf("synonym %q maps to both %q and %q", a, existing, name)
			}
			c.synonyms[alias] = name
		}
	}

	for _, e := range c.entries {
		if e.SetupKey == "" {
			continue
		}
		if _, ok := c.byKey[e.SetupKey]; !ok {
			return nil, fmt.Errorf("entry %q references unknown setup key %q", e.CanonicalName, e.SetupKey)
		}
	}

	return c, nil
}

// NormalizeName lowercases a service name and collapses whitespace, so
// "Triple  Ground Mulch" and "triple ground mulch" index identically.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Get looks up an entry by canonical name.
func (c *Catalog) Get(name string) (Entry, bool) {
	e, ok := c.byName[NormalizeName(name)]
	return e, ok
}

// BySynonym resolves an alias to its catalog entry.
func (c *Catalog) BySynonym(alias string) (Entry, bool) {
	canonical, ok := c.synonyms[NormalizeName(alias)]
	if !ok {
		return Entry{}, false
	}
	return c.byName[canonical], true
}

// ByLookupKey looks up an entry by its opaque price-table key.
func (c *Catalog) ByLookupKey(key string) (Entry, bool) {
	e, ok := c.byKey[key]
	return e, ok
}

// Entries returns all catalog entries in declaration order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// InCategory returns the entries belonging to a category.
func (c *Catalog) InCategory(category string) []Entry {
	return c.byCat[category]
}

// Aliases returns every known alias (synonyms plus canonical names) mapped
// to its canonical name. The Mapper iterates this for fuzzy matching and
// suggestion generation.
func (c *Catalog) Aliases() map[string]string {
	out := make(map[string]string, len(c.synonyms)+len(c.entries))
	for alias, canonical := range c.synonyms {
		out[alias] = canonical
	}
	for name := range c.byName {
		out[name] = name
	}
	return out
}

// SetupCompanion resolves the mandatory companion setup entry for a
// zone-based special service.
func (c *Catalog) SetupCompanion(e Entry) (Entry, bool) {
	if e.SetupKey == "" {
		return Entry{}, false
	}
	companion, ok := c.byKey[e.SetupKey]
	return companion, ok
}

// ExpectedUnit returns the canonical unit for an entry, validated against
// the units package at load time via Default/Load.
func (c *Catalog) ExpectedUnit(e Entry) units.Unit {
	return e.Unit
}
