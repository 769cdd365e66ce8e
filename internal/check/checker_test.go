package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscape-quote/internal/catalog"
	"landscape-quote/pkg/api"
)

func newChecker(t *testing.T) *Checker {
	t.Helper()
	return New(catalog.Default(), DefaultConfig())
}

func service(name string, qty float64, unit string, conf float64) api.RawService {
	return api.RawService{Name: name, Quantity: qty, Unit: unit, Confidence: conf}
}

func TestCompleteService(t *testing.T) {
	c := newChecker(t)

	res := c.Check([]api.RawService{service("triple ground mulch", 45, "sqft", 0.9)})
	require.Len(t, res.Services, 1)
	assert.True(t, res.Services[0].IsComplete)
	assert.True(t, res.AllComplete)
	assert.Empty(t, res.Questions)
	assert.InDelta(t, 0.9, res.OverallConfidence, 1e-9)
}

func TestZeroQuantityIncomplete(t *testing.T) {
	c := newChecker(t)

	res := c.Check([]api.RawService{service("triple ground mulch", 0, "sqft", 0.9)})
	require.Len(t, res.Services, 1)
	assert.False(t, res.Services[0].IsComplete)
	assert.Contains(t, res.Services[0].MissingInfo, "quantity")
	assert.False(t, res.AllComplete)
	assert.NotEmpty(t, res.Questions)
}

func TestNegativeQuantityIncomplete(t *testing.T) {
	c := newChecker(t)

	res := c.Check([]api.RawService{service("metal edging", -3, "linear_feet", 0.9)})
	assert.False(t, res.AllComplete)
	assert.Contains(t, res.Services[0].MissingInfo, "quantity")
}

func TestMissingUnitIncomplete(t *testing.T) {
	c := newChecker(t)

	res := c.Check([]api.RawService{service("metal edging", 3, "", 0.9)})
	assert.False(t, res.AllComplete)
	assert.Contains(t, res.Services[0].MissingInfo, "unit")
}

func TestIrrigationChecklist(t *testing.T) {
	c := newChecker(t)

	// Zone count and boring answer present: complete.
	svc := service("irrigation zones", 5, "zones", 0.9)
	svc.Attributes = map[string]string{"boring_required": "no"}
	res := c.Check([]api.RawService{svc})
	assert.True(t, res.AllComplete)

	// No boring answer: incomplete with a targeted question.
	svc = service("irrigation zones", 5, "zones", 0.9)
	res = c.Check([]api.RawService{svc})
	require.False(t, res.AllComplete)
	assert.Contains(t, res.Services[0].MissingInfo, "boring_requirement")

	// Synonym naming still triggers the checklist.
	svc = service("sprinkler system", 5, "zones", 0.9)
	res = c.Check([]api.RawService{svc})
	assert.False(t, res.AllComplete)
}

func TestThresholdGating(t *testing.T) {
	c := newChecker(t)

	// Complete service, zero missing info, but confidence below 0.85:
	// a generic clarification question must still be produced.
	res := c.Check([]api.RawService{service("triple ground mulch", 45, "sqft", 0.8)})
	assert.True(t, res.AllComplete)
	assert.Empty(t, res.Services[0].MissingInfo)
	require.Len(t, res.Questions, 1)
}

func TestNoServicesFloor(t *testing.T) {
	c := newChecker(t)

	res := c.Check(nil)
	assert.False(t, res.AllComplete)
	assert.Equal(t, 0.2, res.OverallConfidence)
	assert.NotEmpty(t, res.Questions)
}
