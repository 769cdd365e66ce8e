package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscape-quote/internal/catalog"
	"landscape-quote/pkg/api"
)

func newMapper(t *testing.T) *Mapper {
	t.Helper()
	return New(catalog.Default(), DefaultConfig())
}

func validated(name string, qty float64, unit string) api.ValidatedService {
	return api.ValidatedService{
		RawService: api.RawService{Name: name, Quantity: qty, Unit: unit, Confidence: 0.9},
		IsComplete: true,
	}
}

func TestExactMatch(t *testing.T) {
	m := newMapper(t)

	res := m.Map([]api.ValidatedService{validated("triple ground mulch", 45, "sqft")})
	require.Len(t, res.Mapped, 1)
	assert.Equal(t, "MULCH_TG", res.Mapped[0].LookupKey)
	assert.Equal(t, 0.95, res.Mapped[0].Confidence)
	assert.Empty(t, res.Unmapped)
}

func TestSynonymMatch(t *testing.T) {
	m := newMapper(t)

	res := m.Map([]api.ValidatedService{validated("bark chips", 45, "sqft")})
	require.Len(t, res.Mapped, 1)
	assert.Equal(t, "triple ground mulch", res.Mapped[0].CanonicalName)
	assert.Equal(t, 0.85, res.Mapped[0].Confidence)
}

func TestFuzzyMatch(t *testing.T) {
	m := newMapper(t)

	// One substitution away from "metal edging": similarity 11/12,
	// scaled by 0.8.
	res := m.Map([]api.ValidatedService{validated("metel edging", 3, "feet")})
	require.Len(t, res.Mapped, 1)
	assert.Equal(t, "EDGE_METAL", res.Mapped[0].LookupKey)
	assert.InDelta(t, (11.0/12.0)*0.8, res.Mapped[0].Confidence, 1e-9)
}

func TestUnmappedWithSuggestions(t *testing.T) {
	m := newMapper(t)

	res := m.Map([]api.ValidatedService{validated("quantum lawn defragmentation", 1, "each")})
	assert.Empty(t, res.Mapped)
	require.Len(t, res.Unmapped, 1)
	assert.Equal(t, "quantum lawn defragmentation", res.Unmapped[0].Name)
}

func TestSuggestions(t *testing.T) {
	m := newMapper(t)

	got := m.Suggestions("rock")
	assert.Equal(t, []string{"river rock", "stone edging"}, got)

	assert.Empty(t, m.Suggestions(""))
}

func TestUnitMismatchPenalty(t *testing.T) {
	m := newMapper(t)

	res := m.Map([]api.ValidatedService{validated("metal edging", 3, "sqft")})
	require.Len(t, res.Mapped, 1)
	assert.InDelta(t, 0.95*0.8, res.Mapped[0].Confidence, 1e-9)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "unit mismatch")
}

func TestConsolidation(t *testing.T) {
	m := newMapper(t)

	// "mulch" resolves via synonym (0.85), the canonical name exactly
	// (0.95); consolidation sums quantities and keeps the higher score.
	res := m.Map([]api.ValidatedService{
		validated("mulch", 20, "sqft"),
		validated("triple ground mulch", 25, "sqft"),
	})
	require.Len(t, res.Mapped, 1)
	assert.Equal(t, 45.0, res.Mapped[0].Quantity)
	assert.Equal(t, 0.95, res.Mapped[0].Confidence)
}

func TestSetupCompanionSynthesis(t *testing.T) {
	m := newMapper(t)

	res := m.Map([]api.ValidatedService{validated("irrigation zones", 5, "zones")})
	require.Len(t, res.Mapped, 2)

	setup := res.Mapped[0]
	assert.Equal(t, "IRR_SETUP", setup.LookupKey)
	assert.Equal(t, 1.0, setup.Quantity)
	assert.Equal(t, "each", setup.Unit)
	assert.True(t, setup.IsComplete)

	assert.Equal(t, "IRR_ZONE", res.Mapped[1].LookupKey)
}

func TestSetupCompanionSynthesisIdempotent(t *testing.T) {
	m := newMapper(t)

	res := m.Map([]api.ValidatedService{
		validated("irrigation zones", 5, "zones"),
		validated("irrigation setup", 1, "each"),
	})

	setups := 0
	for _, svc := range res.Mapped {
		if svc.LookupKey == "IRR_SETUP" {
			setups++
		}
	}
	assert.Equal(t, 1, setups)
}

func TestMappingIsIdempotent(t *testing.T) {
	m := newMapper(t)

	first := m.Map([]api.ValidatedService{
		validated("bark chips", 45, "sqft"),
		validated("irrigation zones", 5, "zones"),
	})
	require.NotEmpty(t, first.Mapped)

	// Re-mapping the canonical output resolves to the same entries with
	// the same quantities, and synthesizes no further companions.
	var again []api.ValidatedService
	for _, svc := range first.Mapped {
		v := svc.ValidatedService
		v.Name = svc.CanonicalName
		again = append(again, v)
	}
	second := m.Map(again)

	require.Len(t, second.Mapped, len(first.Mapped))
	for i := range first.Mapped {
		assert.Equal(t, first.Mapped[i].LookupKey, second.Mapped[i].LookupKey)
		assert.Equal(t, first.Mapped[i].Quantity, second.Mapped[i].Quantity)
	}
}

func TestMappingConfidenceIsMean(t *testing.T) {
	m := newMapper(t)

	res := m.Map([]api.ValidatedService{
		validated("triple ground mulch", 45, "sqft"),
		validated("bark chips", 10, "sqft"),
	})
	// Consolidated into one entry at max confidence.
	require.Len(t, res.Mapped, 1)
	assert.InDelta(t, 0.95, res.MappingConfidence, 1e-9)
}
