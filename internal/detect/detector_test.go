package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscape-quote/internal/catalog"
	"landscape-quote/pkg/api"
)

func newDetector(t *testing.T) *Detector {
	t.Helper()
	return New(catalog.Default())
}

func TestDetectTwoServicesWithQuantities(t *testing.T) {
	d := newDetector(t)

	res := d.Detect("45 sq ft triple ground mulch and 3 feet metal edging", nil)
	require.Len(t, res.Services, 2)

	mulch := res.Services[0]
	assert.Equal(t, "triple ground mulch", mulch.Name)
	assert.Equal(t, 45.0, mulch.Quantity)
	assert.Equal(t, "sqft", mulch.Unit)

	edging := res.Services[1]
	assert.Equal(t, "metal edging", edging.Name)
	assert.Equal(t, 3.0, edging.Quantity)
	assert.Equal(t, "linear_feet", edging.Unit)

	assert.True(t, res.Analysis.HasMultipleServices)
	assert.True(t, res.Analysis.HasQuantities)
	assert.True(t, res.Analysis.HasUnits)
}

func TestDetectZeroQuantityRetained(t *testing.T) {
	d := newDetector(t)

	res := d.Detect("0 square feet of mulch", nil)
	require.Len(t, res.Services, 1)
	assert.Equal(t, 0.0, res.Services[0].Quantity)
	assert.Equal(t, "sqft", res.Services[0].Unit)
	assert.True(t, res.Analysis.HasQuantities)
}

func TestDetectNegativeQuantityRetained(t *testing.T) {
	d := newDetector(t)

	res := d.Detect("-5 feet of edging", nil)
	require.Len(t, res.Services, 1)
	assert.Equal(t, -5.0, res.Services[0].Quantity)
}

func TestDetectDimensionPair(t *testing.T) {
	d := newDetector(t)

	res := d.Detect("bark chips for 12 by 8 area", nil)
	require.Len(t, res.Services, 1)
	assert.Equal(t, "bark chips", res.Services[0].Name)
	assert.Equal(t, 96.0, res.Services[0].Quantity)
	assert.Equal(t, "sqft", res.Services[0].Unit)
}

func TestDetectCompactDimension(t *testing.T) {
	d := newDetector(t)

	res := d.Detect("15x10 sod installation", nil)
	require.Len(t, res.Services, 1)
	assert.Equal(t, 150.0, res.Services[0].Quantity)
	assert.Equal(t, "sqft", res.Services[0].Unit)
}

func TestCategoryHintRaisesConfidence(t *testing.T) {
	d := newDetector(t)

	unhinted := d.Detect("triple ground mulch", nil)
	require.Len(t, unhinted.Services, 1)

	hinted := d.Detect("", []api.Segment{{Text: "triple ground mulch", CategoryHint: "mulching"}})
	require.Len(t, hinted.Services, 1)

	assert.Equal(t, 0.90, unhinted.Services[0].Confidence)
	assert.Equal(t, 0.95, hinted.Services[0].Confidence)
}

func TestSynonymConfidenceBaseline(t *testing.T) {
	d := newDetector(t)

	res := d.Detect("bark chips", nil)
	require.Len(t, res.Services, 1)
	assert.Equal(t, 0.80, res.Services[0].Confidence)
}

func TestLeftoverFiltersStopwords(t *testing.T) {
	d := newDetector(t)

	res := d.Detect("please put mulch near the gazebo", nil)
	require.Len(t, res.Services, 1)
	// "please" and "the" are stopwords, "mulch" is consumed by the match;
	// the remaining text comes back verbatim as separate fragments.
	assert.Equal(t, []string{"put", "near", "gazebo"}, res.Leftover)
}

func TestDetectNothing(t *testing.T) {
	d := newDetector(t)

	res := d.Detect("hello there", nil)
	assert.Empty(t, res.Services)
	assert.Equal(t, 0.2, res.Analysis.OverallConfidence)
}

func TestBoringAttributeDetection(t *testing.T) {
	d := newDetector(t)

	res := d.Detect("irrigation system with 5 zones no boring", nil)
	require.Len(t, res.Services, 1)
	assert.Equal(t, 5.0, res.Services[0].Quantity)
	assert.Equal(t, "zones", res.Services[0].Unit)
	assert.Equal(t, "no", res.Services[0].Attributes["boring_required"])

	res = d.Detect("sprinkler system with 4 zones boring under the driveway", nil)
	require.Len(t, res.Services, 1)
	assert.Equal(t, "yes", res.Services[0].Attributes["boring_required"])
}

func TestZoneCountParsing(t *testing.T) {
	d := newDetector(t)

	res := d.Detect("irrigation system with 6 zones", nil)
	require.Len(t, res.Services, 1)
	assert.Equal(t, 6.0, res.Services[0].Quantity)
	assert.Equal(t, "zones", res.Services[0].Unit)
}
