// Package check decides, per detected service, whether enough information
// exists to price it, and produces clarification prompts when it does not.
// Incompleteness is ordinary data here, never an error: the orchestrator
// branches on the verdict deterministically.
package check

import (
	"fmt"

	"landscape-quote/internal/catalog"
	"landscape-quote/pkg/api"
	"landscape-quote/pkg/confidence"
)

// Config holds the tunable completeness constants. The threshold is
// empirically chosen, not derived from a formal model; tests pin the
// defaults.
type Config struct {
	// CompletionThreshold gates clarification: below it, even complete
	// service sets get a generic question asking for more detail.
	CompletionThreshold float64

	// NoServicesFloor is the overall confidence reported when the Detector
	// found nothing at all.
	NoServicesFloor float64
}

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() Config {
	return Config{
		CompletionThreshold: 0.85,
		NoServicesFloor:     confidence.NoServicesFloor,
	}
}

// Result is the Checker's verdict for one pipeline invocation.
type Result struct {
	Services          []api.ValidatedService `json:"services"`
	OverallConfidence float64                `json:"overall_confidence"`
	AllComplete       bool                   `json:"all_complete"`
	Questions         []string               `json:"questions,omitempty"`
}

// Checker validates detected services for completeness.
type Checker struct {
	cfg Config
	cat *catalog.Catalog
}

// New builds a Checker over the given catalog.
func New(cat *catalog.Catalog, cfg Config) *Checker {
	return &Checker{cfg: cfg, cat: cat}
}

// Check validates each service and aggregates the overall verdict.
// A service is complete iff quantity > 0, unit is non-empty, and any
// special-service checklist passes.
func (c *Checker) Check(raw []api.RawService) Result {
	res := Result{AllComplete: true}

	if len(raw) == 0 {
		res.AllComplete = false
		res.OverallConfidence = c.cfg.NoServicesFloor
		res.Questions = append(res.Questions,
			"What work would you like done? Please describe the services and approximate sizes.")
		return res
	}

	var scores []float64
	for _, svc := range raw {
		validated := c.checkService(svc)
		if !validated.IsComplete {
			res.AllComplete = false
		}
		res.Questions = append(res.Questions, validated.Questions...)
		res.Services = append(res.Services, validated)
		scores = append(scores, svc.Confidence)
	}

	res.OverallConfidence = confidence.Mean(scores)
	if !confidence.AboveThreshold(res.OverallConfidence, c.cfg.CompletionThreshold) {
		res.Questions = append(res.Questions,
			"Could you share a bit more detail about the work you need so we can quote it accurately?")
	}
	return res
}

func (c *Checker) checkService(svc api.RawService) api.ValidatedService {
	v := api.ValidatedService{RawService: svc, IsComplete: true}

	if svc.Quantity <= 0 {
		v.IsComplete = false
		v.MissingInfo = append(v.MissingInfo, "quantity")
		v.Questions = append(v.Questions,
			fmt.Sprintf("How much %s do you need? Please give a quantity greater than zero.", svc.Name))
	}
	if svc.Unit == "" {
		v.IsComplete = false
		v.MissingInfo = append(v.MissingInfo, "unit")
		v.Questions = append(v.Questions,
			fmt.Sprintf("What unit should we measure %s in (square feet, linear feet, each)?", svc.Name))
	}

	c.checkSpecial(&v)
	return v
}

// checkSpecial applies service-specific checklists for special services.
// An irrigation zone service must carry a resolved zone count and a
// boring-requirement answer before it can be considered complete.
func (c *Checker) checkSpecial(v *api.ValidatedService) {
	entry, ok := c.lookup(v.Name)
	if !ok || !entry.Special {
		return
	}

	if entry.SetupKey != "" { // zone-based special
		if v.Quantity <= 0 {
			// Quantity doubles as the zone count; the generic quantity
			// question above does not mention zones, so ask precisely.
			v.IsComplete = false
			v.MissingInfo = append(v.MissingInfo, "zone_count")
			v.Questions = append(v.Questions,
				"How many irrigation zones does your yard need?")
		}
		if _, answered := v.Attributes["boring_required"]; !answered {
			v.IsComplete = false
			v.MissingInfo = append(v.MissingInfo, "boring_requirement")
			v.Questions = append(v.Questions,
				"Will the irrigation line need boring under a sidewalk or driveway?")
		}
	}
}

func (c *Checker) lookup(name string) (catalog.Entry, bool) {
	if e, ok := c.cat.Get(name); ok {
		return e, true
	}
	return c.cat.BySynonym(name)
}
