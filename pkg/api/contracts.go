// Package api defines the shared contracts passed between pipeline stages.
// All types are request-scoped value objects: created inside a single
// pipeline invocation and never mutated after the result is returned.
package api

// RawService is a candidate line item extracted from customer text by the
// Detector. Quantity may be zero or negative at this point; the Checker is
// responsible for flagging it, not the Detector.
type RawService struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Confidence   float64 `json:"confidence"` // 0..1
	OriginalText string  `json:"original_text"`

	// CategoryHint is the upstream classifier's label for the segment this
	// service was extracted from, empty when the input was unsegmented.
	CategoryHint string `json:"category_hint,omitempty"`

	// Attributes carries detected special-service facts (e.g. the
	// boring-requirement answer for irrigation work).
	Attributes map[string]string `json:"attributes,omitempty"`
}

// ValidatedService is a RawService after the Checker's completeness rules.
type ValidatedService struct {
	RawService

	IsComplete  bool     `json:"is_complete"`
	MissingInfo []string `json:"missing_info,omitempty"`
	Questions   []string `json:"questions,omitempty"`
}

// MappedService is a ValidatedService resolved against the catalog.
// An empty LookupKey means the service is unmapped and must be excluded
// from pricing.
type MappedService struct {
	ValidatedService

	CanonicalName string `json:"canonical_name"`
	LookupKey     string `json:"lookup_key"`
	Category      string `json:"category"`
	Special       bool   `json:"special"`
}

// PricedService is a MappedService with resolved cost and labor figures.
// TotalCost equals UnitCost * Quantity within rounding tolerance (cost is
// rounded to 2 decimal places, hours to 1).
type PricedService struct {
	MappedService

	UnitCost   float64 `json:"unit_cost"`
	TotalCost  float64 `json:"total_cost"`
	LaborHours float64 `json:"labor_hours"`
}

// Totals aggregates the priced services of one quote.
type Totals struct {
	TotalCost       float64 `json:"total_cost"`
	TotalLaborHours float64 `json:"total_labor_hours"`
}

// InputAnalysis summarizes what the Detector saw in the raw text.
type InputAnalysis struct {
	HasMultipleServices bool    `json:"has_multiple_services"`
	HasQuantities       bool    `json:"has_quantities"`
	HasUnits            bool    `json:"has_units"`
	OverallConfidence   float64 `json:"overall_confidence"`
}

// Segment is one pre-split chunk of customer text with the upstream
// classifier's category label.
type Segment struct {
	Text         string `json:"text"`
	CategoryHint string `json:"category_hint"`
}

// StageTrace is one entry of the append-only debug trace. The orchestrator
// builds these; stages never mutate the trace themselves.
type StageTrace struct {
	Step             string   `json:"step"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
	IntermediateOut  any      `json:"intermediate_output,omitempty"`
	Info             []string `json:"info,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}

// SpecialCalculation explains the cost split of a composite service, e.g.
// irrigation setup cost vs. per-zone cost.
type SpecialCalculation struct {
	CanonicalName string  `json:"canonical_name"`
	Description   string  `json:"description"`
	SetupCost     float64 `json:"setup_cost"`
	VariableCost  float64 `json:"variable_cost"`
}

// FinalResult is the priced quote portion of a successful pipeline run.
type FinalResult struct {
	Services            []PricedService      `json:"services"`
	Totals              Totals               `json:"totals"`
	SpecialCalculations []SpecialCalculation `json:"special_calculations,omitempty"`
}

// PipelineResult is the single output contract of the pipeline. Exactly one
// of the two shapes is meaningful to callers: a priced quote
// (Success && !ClarificationNeeded) or a bounded list of clarification
// questions. It is created once per invocation and never mutated after
// return.
type PipelineResult struct {
	Success                bool           `json:"success"`
	ClarificationNeeded    bool           `json:"clarification_needed"`
	ClarificationQuestions []string       `json:"clarification_questions,omitempty"`
	FinalResult            *FinalResult   `json:"final_result,omitempty"`
	Debug                  []StageTrace   `json:"debug,omitempty"`
	Error                  *PipelineError `json:"error,omitempty"`
}

// PipelineError is the structured error surfaced to callers for a fatal
// stage. Raw stack traces never cross the API boundary.
type PipelineError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Stage     string `json:"stage"`
	RetryHint string `json:"retry_hint,omitempty"`
}
