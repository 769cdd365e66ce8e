// Package mapping resolves detected service names to canonical catalog
// entries. Resolution runs exact match, then the synonym table, then fuzzy
// Levenshtein distance, each with a fixed confidence ceiling. A service
// that resolves nowhere is carried forward as unmapped with suggestions
// instead of failing the request.
package mapping

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"landscape-quote/internal/catalog"
	"landscape-quote/pkg/api"
	"landscape-quote/pkg/confidence"
	"landscape-quote/pkg/units"
)

// Config holds the tunable matching constants. The fuzzy threshold and the
// confidence ceilings are empirically chosen; treat them as calibration
// knobs, not guaranteed-optimal values.
type Config struct {
	ExactConfidence     float64
	SynonymConfidence   float64
	FuzzyThreshold      float64
	FuzzyScale          float64
	UnitMismatchPenalty float64
	MaxSuggestions      int
}

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() Config {
	return Config{
		ExactConfidence:     0.95,
		SynonymConfidence:   0.85,
		FuzzyThreshold:      0.70,
		FuzzyScale:          0.8,
		UnitMismatchPenalty: 0.8,
		MaxSuggestions:      5,
	}
}

// UnmappedService is a service with no catalog match, carried forward so
// the caller can show suggestions.
type UnmappedService struct {
	api.ValidatedService
	Suggestions []string `json:"suggestions,omitempty"`
}

// Result is the Mapper's output.
type Result struct {
	Mapped   []api.MappedService `json:"mapped"`
	Unmapped []UnmappedService   `json:"unmapped,omitempty"`

	// MappingConfidence is the mean confidence across mapped services,
	// 0 when nothing mapped.
	MappingConfidence float64 `json:"mapping_confidence"`

	Warnings []string `json:"warnings,omitempty"`
}

// Mapper resolves services against the catalog.
type Mapper struct {
	cfg Config
	cat *catalog.Catalog
}

// New builds a Mapper over the given catalog.
func New(cat *catalog.Catalog, cfg Config) *Mapper {
	return &Mapper{cfg: cfg, cat: cat}
}

// Map resolves every service, consolidates duplicates by lookup key, and
// synthesizes missing companion setup entries for zone-based specials.
func (m *Mapper) Map(services []api.ValidatedService) Result {
	var res Result

	for _, svc := range services {
		mapped, ok, warning := m.resolve(svc)
		if !ok {
			res.Unmapped = append(res.Unmapped, UnmappedService{
				ValidatedService: svc,
				Suggestions:      m.Suggestions(svc.Name),
			})
			continue
		}
		if warning != "" {
			res.Warnings = append(res.Warnings, warning)
		}
		res.Mapped = append(res.Mapped, mapped)
	}

	res.Mapped = consolidate(res.Mapped)
	res.Mapped = m.ensureSetupCompanions(res.Mapped)

	var scores []float64
	for _, s := range res.Mapped {
		scores = append(scores, s.Confidence)
	}
	res.MappingConfidence = confidence.Mean(scores)
	return res
}

// resolve maps one service name to a catalog entry. The returned warning
// is non-empty for a unit mismatch, which penalizes confidence rather than
// rejecting the match outright.
func (m *Mapper) resolve(svc api.ValidatedService) (api.MappedService, bool, string) {
	var entry catalog.Entry
	var conf float64

	switch {
	case m.exact(svc.Name, &entry):
		conf = m.cfg.ExactConfidence
	case m.synonym(svc.Name, &entry):
		conf = m.cfg.SynonymConfidence
	default:
		sim, fuzzyEntry, ok := m.fuzzy(svc.Name)
		if !ok {
			return api.MappedService{}, false, ""
		}
		entry = fuzzyEntry
		conf = sim * m.cfg.FuzzyScale
	}

	mapped := api.MappedService{
		ValidatedService: svc,
		CanonicalName:    entry.CanonicalName,
		LookupKey:        entry.LookupKey,
		Category:         entry.Category,
		Special:          entry.Special,
	}

	warning := ""
	if svc.Unit != "" && !units.Compatible(svc.Unit, entry.Unit) {
		conf *= m.cfg.UnitMismatchPenalty
		warning = "unit mismatch for " + entry.CanonicalName + ": got " + svc.Unit + ", expected " + entry.Unit
	}
	mapped.Confidence = confidence.Clamp(conf)
	return mapped, true, warning
}

func (m *Mapper) exact(name string, out *catalog.Entry) bool {
	e, ok := m.cat.Get(name)
	if ok {
		*out = e
	}
	return ok
}

func (m *Mapper) synonym(name string, out *catalog.Entry) bool {
	e, ok := m.cat.BySynonym(name)
	if ok {
		*out = e
	}
	return ok
}

// fuzzy computes normalized Levenshtein similarity against every known
// alias and accepts the best match above the threshold.
func (m *Mapper) fuzzy(name string) (float64, catalog.Entry, bool) {
	norm := catalog.NormalizeName(name)
	if norm == "" {
		return 0, catalog.Entry{}, false
	}

	bestSim := 0.0
	bestCanonical := ""
	for alias, canonical := range m.cat.Aliases() {
		sim := similarity(norm, alias)
		if sim > bestSim {
			bestSim = sim
			bestCanonical = canonical
		}
	}
	if bestSim <= m.cfg.FuzzyThreshold {
		return 0, catalog.Entry{}, false
	}
	entry, ok := m.cat.Get(bestCanonical)
	return bestSim, entry, ok
}

// similarity is 1 - distance/maxLength, in runes.
func similarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// Suggestions returns up to MaxSuggestions canonical names whose aliases
// contain the input text (or vice versa), de-duplicated and sorted for
// stable output.
func (m *Mapper) Suggestions(name string) []string {
	norm := catalog.NormalizeName(name)
	if norm == "" {
		return nil
	}
	seen := make(map[string]struct{})
	for alias, canonical := range m.cat.Aliases() {
		if strings.Contains(alias, norm) || strings.Contains(norm, alias) {
			seen[canonical] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for canonical := range seen {
		out = append(out, canonical)
	}
	sort.Strings(out)
	if len(out) > m.cfg.MaxSuggestions {
		out = out[:m.cfg.MaxSuggestions]
	}
	return out
}

// consolidate merges services sharing a lookup key: quantities add, the
// highest confidence wins. Two segments naming the same canonical service
// must never reach the Calculator as separate line items.
func consolidate(mapped []api.MappedService) []api.MappedService {
	if len(mapped) < 2 {
		return mapped
	}
	byKey := make(map[string]int, len(mapped))
	out := make([]api.MappedService, 0, len(mapped))
	for _, svc := range mapped {
		idx, exists := byKey[svc.LookupKey]
		if !exists {
			byKey[svc.LookupKey] = len(out)
			out = append(out, svc)
			continue
		}
		out[idx].Quantity += svc.Quantity
		if svc.Confidence > out[idx].Confidence {
			out[idx].Confidence = svc.Confidence
		}
		out[idx].IsComplete = out[idx].IsComplete && svc.IsComplete
	}
	return out
}

// ensureSetupCompanions prepends the mandatory setup entry for any mapped
// zone-based special whose companion is absent. Synthesis is idempotent:
// an existing setup entry is never duplicated. This is a deliberate policy
// to avoid silently underpricing composite services.
func (m *Mapper) ensureSetupCompanions(mapped []api.MappedService) []api.MappedService {
	present := make(map[string]struct{}, len(mapped))
	for _, svc := range mapped {
		present[svc.LookupKey] = struct{}{}
	}

	var synthesized []api.MappedService
	for _, svc := range mapped {
		if !svc.Special {
			continue
		}
		entry, ok := m.cat.ByLookupKey(svc.LookupKey)
		if !ok || entry.SetupKey == "" {
			continue
		}
		if _, exists := present[entry.SetupKey]; exists {
			continue
		}
		companion, ok := m.cat.SetupCompanion(entry)
		if !ok {
			continue
		}
		synthesized = append(synthesized, api.MappedService{
			ValidatedService: api.ValidatedService{
				RawService: api.RawService{
					Name:         companion.CanonicalName,
					Quantity:     1,
					Unit:         companion.Unit,
					Confidence:   svc.Confidence,
					OriginalText: svc.OriginalText,
				},
				IsComplete: true,
			},
			CanonicalName: companion.CanonicalName,
			LookupKey:     companion.LookupKey,
			Category:      companion.Category,
			Special:       companion.Special,
		})
		present[companion.LookupKey] = struct{}{}
	}

	if len(synthesized) == 0 {
		return mapped
	}
	return append(synthesized, mapped...)
}
