package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultKeyToName() map[string]string {
	return map[string]string{
		"MULCH_TG":   "triple ground mulch",
		"EDGE_METAL": "metal edging",
		"IRR_ZONE":   "irrigation zones",
		"IRR_SETUP":  "irrigation setup",
	}
}

func TestCostTableLookup(t *testing.T) {
	table := DefaultCostTable()

	rate, ok := table.Lookup("triple ground mulch")
	require.True(t, ok)
	assert.Equal(t, 1.25, rate.UnitCost)

	// Name normalization applies to lookups.
	rate, ok = table.Lookup("  Triple Ground   Mulch ")
	require.True(t, ok)
	assert.Equal(t, 1.25, rate.UnitCost)

	rate, ok = table.Lookup("unknown service")
	assert.False(t, ok)
	assert.Equal(t, 10.00, rate.UnitCost)
}

func TestMockOracleSession(t *testing.T) {
	ctx := context.Background()
	oracle := NewMockOracle(DefaultCostTable(), defaultKeyToName())

	require.NoError(t, oracle.WriteQuantity(ctx, "MULCH_TG", 45))
	require.NoError(t, oracle.WriteQuantity(ctx, "EDGE_METAL", 3))

	mulch, err := oracle.ReadResult(ctx, "MULCH_TG")
	require.NoError(t, err)
	assert.Equal(t, 56.25, mulch.Cost)
	assert.Equal(t, 0.9, mulch.LaborHours)

	edging, err := oracle.ReadResult(ctx, "EDGE_METAL")
	require.NoError(t, err)
	assert.Equal(t, 19.50, edging.Cost)
	assert.Equal(t, 0.2, edging.LaborHours)

	totals, err := oracle.ReadTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 75.75, totals.TotalCost)
	assert.Equal(t, 1.1, totals.TotalLaborHours)

	require.NoError(t, oracle.Clear(ctx))
	_, err = oracle.ReadResult(ctx, "MULCH_TG")
	assert.Error(t, err)
}

func TestMockOracleRejectsUnknownKey(t *testing.T) {
	oracle := NewMockOracle(DefaultCostTable(), defaultKeyToName())
	err := oracle.WriteQuantity(context.Background(), "NOT_A_KEY", 1)
	assert.ErrorContains(t, err, "unknown lookup key")
}

func TestMockOracleFailNextWrite(t *testing.T) {
	oracle := NewMockOracle(DefaultCostTable(), defaultKeyToName())
	oracle.FailNextWrite = true

	err := oracle.WriteQuantity(context.Background(), "MULCH_TG", 45)
	require.Error(t, err)

	// The failure arms once; the retry succeeds.
	assert.NoError(t, oracle.WriteQuantity(context.Background(), "MULCH_TG", 45))
}

func TestPricingIsMonotonic(t *testing.T) {
	ctx := context.Background()
	oracle := NewMockOracle(DefaultCostTable(), defaultKeyToName())

	var prev float64
	for _, qty := range []float64{10, 20, 40, 80, 160} {
		require.NoError(t, oracle.WriteQuantity(ctx, "MULCH_TG", qty))
		res, err := oracle.ReadResult(ctx, "MULCH_TG")
		require.NoError(t, err)
		assert.Greater(t, res.Cost, prev, "cost must grow with quantity")
		prev = res.Cost
	}
}
