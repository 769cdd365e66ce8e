// Package calc turns mapped services into priced line items and totals.
// Money is computed with decimals and rounded to 2 places; labor hours to
// 1 place. Pricing comes from the external oracle in production or the
// local cost table in offline and test configurations.
package calc

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"landscape-quote/internal/catalog"
	"landscape-quote/internal/pricing"
	"landscape-quote/pkg/api"
	quoteerrors "landscape-quote/pkg/errors"
)

// Result is the Calculator's output.
type Result struct {
	Services            []api.PricedService      `json:"services"`
	Totals              api.Totals               `json:"totals"`
	SpecialCalculations []api.SpecialCalculation `json:"special_calculations,omitempty"`
}

// Calculator prices mapped services. A nil oracle selects the cost-table
// path. The struct holds no per-request state and is safe for concurrent
// reuse; the mutex only serializes the oracle's stateful
// write/read/clear session.
type Calculator struct {
	cat    *catalog.Catalog
	table  *pricing.CostTable
	oracle pricing.Oracle

	oracleMu sync.Mutex
}

// New builds an offline Calculator priced from the cost table.
func New(cat *catalog.Catalog, table *pricing.CostTable) *Calculator {
	return &Calculator{cat: cat, table: table}
}

// NewWithOracle builds a Calculator backed by the external pricing oracle.
// The cost table remains as documentation of offline rates but is not
// consulted when the oracle answers.
func NewWithOracle(cat *catalog.Catalog, table *pricing.CostTable, oracle pricing.Oracle) *Calculator {
	return &Calculator{cat: cat, table: table, oracle: oracle}
}

// Calculate prices every mapped service and aggregates totals.
//
// Precondition, fatal if violated: every service must carry a valid
// catalog key and quantity > 0. Violations raise a calculation error
// rather than silently pricing at zero.
func (c *Calculator) Calculate(ctx context.Context, mapped []api.MappedService) (*Result, error) {
	for _, svc := range mapped {
		if svc.LookupKey == "" {
			return nil, &quoteerrors.QuoteError{
				Code:        quoteerrors.ErrCodeUnmappableService,
				Message:     "service has no lookup key: " + svc.Name,
				Severity:    quoteerrors.SeverityFatal,
				ServiceName: svc.Name,
			}
		}
		if _, ok := c.cat.ByLookupKey(svc.LookupKey); !ok {
			return nil, &quoteerrors.QuoteError{
				Code:        quoteerrors.ErrCodeUnmappableService,
				Message:     "unknown lookup key: " + svc.LookupKey,
				Severity:    quoteerrors.SeverityFatal,
				ServiceName: svc.Name,
			}
		}
		if svc.Quantity <= 0 {
			return nil, quoteerrors.NewInvalidQuantityError(svc.Name, svc.Quantity)
		}
	}

	var res *Result
	var err error
	if c.oracle != nil {
		res, err = c.calculateWithOracle(ctx, mapped)
	} else {
		res, err = c.calculateFromTable(mapped)
	}
	if err != nil {
		return nil, err
	}

	res.SpecialCalculations = c.specialCalculations(res.Services)
	return res, nil
}

// calculateFromTable prices services from the local cost table. Unknown
// canonical names use the default rate so the pipeline degrades
// gracefully.
func (c *Calculator) calculateFromTable(mapped []api.MappedService) (*Result, error) {
	res := &Result{}
	totalCost := decimal.Zero
	totalHours := decimal.Zero

	for _, svc := range mapped {
		rate, _ := c.table.Lookup(svc.CanonicalName)
		qty := decimal.NewFromFloat(svc.Quantity)
		unitCost := decimal.NewFromFloat(rate.UnitCost)
		cost := unitCost.Mul(qty).Round(2)
		hours := decimal.NewFromFloat(rate.LaborHoursPerUnit).Mul(qty).Round(1)

		res.Services = append(res.Services, api.PricedService{
			MappedService: svc,
			UnitCost:      rate.UnitCost,
			TotalCost:     cost.InexactFloat64(),
			LaborHours:    hours.InexactFloat64(),
		})
		totalCost = totalCost.Add(cost)
		totalHours = totalHours.Add(hours)
	}

	res.Totals = api.Totals{
		TotalCost:       totalCost.Round(2).InexactFloat64(),
		TotalLaborHours: totalHours.Round(1).InexactFloat64(),
	}
	return res, nil
}

// calculateWithOracle runs one write/read/clear session against the
// external oracle. The session is serialized because the oracle keeps
// per-tenant state between calls.
func (c *Calculator) calculateWithOracle(ctx context.Context, mapped []api.MappedService) (*Result, error) {
	c.oracleMu.Lock()
	defer c.oracleMu.Unlock()

	if err := c.oracle.Clear(ctx); err != nil {
		return nil, quoteerrors.NewOracleFailureError("clear", err)
	}
	for _, svc := range mapped {
		if err := c.oracle.WriteQuantity(ctx, svc.LookupKey, svc.Quantity); err != nil {
			return nil, quoteerrors.NewOracleFailureError(svc.LookupKey, err)
		}
	}

	res := &Result{}
	for _, svc := range mapped {
		line, err := c.oracle.ReadResult(ctx, svc.LookupKey)
		if err != nil {
			return nil, quoteerrors.NewOracleFailureError(svc.LookupKey, err)
		}
		cost := decimal.NewFromFloat(line.Cost).Round(2)
		unitCost := decimal.Zero
		if svc.Quantity != 0 {
			unitCost = cost.Div(decimal.NewFromFloat(svc.Quantity)).Round(4)
		}
		res.Services = append(res.Services, api.PricedService{
			MappedService: svc,
			UnitCost:      unitCost.InexactFloat64(),
			TotalCost:     cost.InexactFloat64(),
			LaborHours:    decimal.NewFromFloat(line.LaborHours).Round(1).InexactFloat64(),
		})
	}

	totals, err := c.oracle.ReadTotals(ctx)
	if err != nil {
		return nil, quoteerrors.NewOracleFailureError("totals", err)
	}
	res.Totals = api.Totals{
		TotalCost:       decimal.NewFromFloat(totals.TotalCost).Round(2).InexactFloat64(),
		TotalLaborHours: decimal.NewFromFloat(totals.TotalLaborHours).Round(1).InexactFloat64(),
	}

	if err := c.oracle.Clear(ctx); err != nil {
		return nil, quoteerrors.NewOracleFailureError("clear", err)
	}
	return res, nil
}

// specialCalculations reports the setup-cost vs variable-cost split for
// priced zone-based specials whose companion setup entry is present.
func (c *Calculator) specialCalculations(services []api.PricedService) []api.SpecialCalculation {
	byKey := make(map[string]api.PricedService, len(services))
	for _, s := range services {
		byKey[s.LookupKey] = s
	}

	var out []api.SpecialCalculation
	for _, s := range services {
		entry, ok := c.cat.ByLookupKey(s.LookupKey)
		if !ok || entry.SetupKey == "" {
			continue
		}
		setup, ok := byKey[entry.SetupKey]
		if !ok {
			continue
		}
		out = append(out, api.SpecialCalculation{
			CanonicalName: s.CanonicalName,
			Description:   "setup cost vs per-" + entry.Unit + " cost split",
			SetupCost:     setup.TotalCost,
			VariableCost:  s.TotalCost,
		})
	}
	return out
}
