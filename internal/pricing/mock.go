package pricing

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// MockOracle is a deterministic in-memory oracle backed by a cost table.
// It implements the same stateful write/read/clear protocol as the real
// spreadsheet oracle so the Calculator's oracle path is testable without
// network access.
type MockOracle struct {
	mu         sync.Mutex
	table      *CostTable
	keyToName  map[string]string // lookup key -> canonical name
	quantities map[string]float64

	// FailNextWrite forces the next WriteQuantity to fail, for exercising
	// the oracle-failure path in tests.
	FailNextWrite bool
}

// NewMockOracle builds a mock oracle. keyToName maps lookup keys to
// canonical names so rates can be resolved from the table.
func NewMockOracle(table *CostTable, keyToName map[string]string) *MockOracle {
	return &MockOracle{
		table:      table,
		keyToName:  keyToName,
		quantities: make(map[string]float64),
	}
}

func (o *MockOracle) WriteQuantity(_ context.Context, lookupKey string, quantity float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.FailNextWrite {
		o.FailNextWrite = false
		return fmt.Errorf("simulated oracle failure")
	}
	if _, ok := o.keyToName[lookupKey]; !ok {
		return fmt.Errorf("unknown lookup key: %s", lookupKey)
	}
	o.quantities[lookupKey] = quantity
	return nil
}

func (o *MockOracle) ReadResult(_ context.Context, lookupKey string) (Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	qty, ok := o.quantities[lookupKey]
	if !ok {
		return Result{}, fmt.Errorf("no quantity written for key: %s", lookupKey)
	}
	return o.price(lookupKey, qty), nil
}

func (o *MockOracle) ReadTotals(_ context.Context) (Totals, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	cost := decimal.Zero
	hours := decimal.Zero
	for key, qty := range o.quantities {
		r := o.price(key, qty)
		cost = cost.Add(decimal.NewFromFloat(r.Cost))
		hours = hours.Add(decimal.NewFromFloat(r.LaborHours))
	}
	return Totals{
		TotalCost:       cost.Round(2).InexactFloat64(),
		TotalLaborHours: hours.Round(1).InexactFloat64(),
	}, nil
}

func (o *MockOracle) Clear(_ context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.quantities = make(map[string]float64)
	return nil
}

func (o *MockOracle) price(lookupKey string, qty float64) Result {
	rate, _ := o.table.Lookup(o.keyToName[lookupKey])
	cost := decimal.NewFromFloat(rate.UnitCost).Mul(decimal.NewFromFloat(qty))
	hours := decimal.NewFromFloat(rate.LaborHoursPerUnit).Mul(decimal.NewFromFloat(qty))
	return Result{
		Cost:       cost.Round(2).InexactFloat64(),
		LaborHours: hours.Round(1).InexactFloat64(),
	}
}
