package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"landscape-quote/internal/catalog"
)

// Rate is the offline price for one canonical service.
type Rate struct {
	UnitCost          float64 `yaml:"unit_cost"`
	LaborHoursPerUnit float64 `yaml:"labor_hours_per_unit"`
}

// CostTable holds per-canonical-name rates for offline and test pricing.
// Unknown names fall back to the default rate so the pipeline degrades
// gracefully instead of failing.
type CostTable struct {
	rates       map[string]Rate
	defaultRate Rate
}

// NewCostTable builds a table from explicit rates.
func NewCostTable(rates map[string]Rate, defaultRate Rate) *CostTable {
	normalized := make(map[string]Rate, len(rates))
	for name, r := range rates {
		normalized[catalog.NormalizeName(name)] = r
	}
	return &CostTable{rates: normalized, defaultRate: defaultRate}
}

// DefaultCostTable returns rates for the built-in catalog.
func DefaultCostTable() *CostTable {
	return NewCostTable(map[string]Rate{
		"triple ground mulch": {UnitCost: 1.25, LaborHoursPerUnit: 0.02},
		"metal edging":        {UnitCost: 6.50, LaborHoursPerUnit: 0.05},
		"stone edging":        {UnitCost: 9.00, LaborHoursPerUnit: 0.08},
		"irrigation zones":    {UnitCost: 650.00, LaborHoursPerUnit: 4.0},
		"irrigation setup":    {UnitCost: 1200.00, LaborHoursPerUnit: 8.0},
		"sod installation":    {UnitCost: 2.10, LaborHoursPerUnit: 0.015},
		"lawn seeding":        {UnitCost: 0.35, LaborHoursPerUnit: 0.004},
		"topsoil delivery":    {UnitCost: 55.00, LaborHoursPerUnit: 0.5},
		"river rock":          {UnitCost: 3.40, LaborHoursPerUnit: 0.03},
		"paver patio":         {UnitCost: 18.50, LaborHoursPerUnit: 0.25},
		"shrub planting":      {UnitCost: 85.00, LaborHoursPerUnit: 0.75},
		"tree removal":        {UnitCost: 450.00, LaborHoursPerUnit: 5.0},
	}, Rate{UnitCost: 10.00, LaborHoursPerUnit: 0.1})
}

// Lookup returns the rate for a canonical name, falling back to the
// default rate. The second return reports whether the name was known.
func (t *CostTable) Lookup(canonicalName string) (Rate, bool) {
	if r, ok := t.rates[catalog.NormalizeName(canonicalName)]; ok {
		return r, true
	}
	return t.defaultRate, false
}

// costTableFile is the YAML document shape for operator-supplied rates.
type costTableFile struct {
	Rates       map[string]Rate `yaml:"rates"`
	DefaultRate Rate            `yaml:"default_rate"`
}

// LoadCostTable reads rates from a YAML file.
func LoadCostTable(path string) (*CostTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cost table: %w", err)
	}
	var f costTableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse cost table: %w", err)
	}
	if len(f.Rates) == 0 {
		return nil, fmt.Errorf("cost table has no rates")
	}
	return NewCostTable(f.Rates, f.DefaultRate), nil
}
