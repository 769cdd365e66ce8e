package pipeline

import (
	"context"

	"landscape-quote/internal/calc"
	"landscape-quote/internal/check"
	"landscape-quote/internal/detect"
	"landscape-quote/internal/mapping"
	"landscape-quote/pkg/api"
)

// Canned stage stubs for hybrid configurations and orchestrator tests.
// Each returns exactly what it was constructed with, so test flows are
// fully deterministic without touching the real stage logic.

// StubDetector returns a fixed detection result.
type StubDetector struct {
	Result detect.Result
}

func (s StubDetector) Detect(string, []api.Segment) detect.Result { return s.Result }

// StubChecker returns a fixed verdict.
type StubChecker struct {
	Result check.Result
}

func (s StubChecker) Check([]api.RawService) check.Result { return s.Result }

// StubMapper returns a fixed mapping result.
type StubMapper struct {
	Result mapping.Result
}

func (s StubMapper) Map([]api.ValidatedService) mapping.Result { return s.Result }

// StubCalculator returns a fixed priced result or error.
type StubCalculator struct {
	Result *calc.Result
	Err    error
}

func (s StubCalculator) Calculate(context.Context, []api.MappedService) (*calc.Result, error) {
	return s.Result, s.Err
}
