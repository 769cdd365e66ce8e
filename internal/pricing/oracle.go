// Package pricing defines the pricing oracle interface consumed by the
// Calculator, an HTTP client for the external spreadsheet-style oracle,
// and the local cost table used by offline and test configurations.
package pricing

import "context"

// Result is the oracle's answer for one lookup key after quantities have
// been written: the total cost and labor hours for that line.
type Result struct {
	Cost       float64 `json:"cost"`
	LaborHours float64 `json:"labor_hours"`
}

// Totals is the oracle's aggregate over all written quantities.
type Totals struct {
	TotalCost       float64 `json:"total_cost"`
	TotalLaborHours float64 `json:"total_labor_hours"`
}

// Oracle is the pricing backend consumed by the Calculator. All calls are
// keyed by an opaque per-tenant identifier carried by the implementation,
// so multiple tenants target isolated pricing tables. The write/read/clear
// protocol is stateful on the oracle side; the Calculator serializes one
// session at a time per Oracle value.
type Oracle interface {
	WriteQuantity(ctx context.Context, lookupKey string, quantity float64) error
	ReadResult(ctx context.Context, lookupKey string) (Result, error)
	ReadTotals(ctx context.Context) (Totals, error)
	Clear(ctx context.Context) error
}
