// Package pipeline sequences Detector, Checker, Mapper, and Calculator
// into the staged text-to-quote flow, carrying an append-only debug trace.
// Pipelines hold only their stage implementations and options, so one
// instance may serve unlimited concurrent requests.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"landscape-quote/internal/calc"
	"landscape-quote/internal/check"
	"landscape-quote/internal/classify"
	"landscape-quote/internal/detect"
	"landscape-quote/internal/mapping"
	"landscape-quote/pkg/api"
	quoteerrors "landscape-quote/pkg/errors"
)

// Stage capability interfaces. The factory injects real or stub
// implementations; the orchestrator never inspects which it got.
type (
	// Detector segments raw text into candidate services.
	Detector interface {
		Detect(text string, segments []api.Segment) detect.Result
	}

	// Checker validates candidate services for completeness.
	Checker interface {
		Check(raw []api.RawService) check.Result
	}

	// Mapper resolves services against the catalog.
	Mapper interface {
		Map(services []api.ValidatedService) mapping.Result
	}

	// Calculator prices mapped services.
	Calculator interface {
		Calculate(ctx context.Context, mapped []api.MappedService) (*calc.Result, error)
	}
)

// state is the orchestrator's position in the stage sequence.
type state string

const (
	stateIdle        state = "idle"
	stateDetecting   state = "detecting"
	stateChecking    state = "checking"
	stateMapping     state = "mapping"
	stateCalculating state = "calculating"
	stateDone        state = "done"
	stateError       state = "error"
)

// Options are the static per-pipeline settings.
type Options struct {
	// EarlyReturn stops after the Checker when the verdict is incomplete,
	// so no pricing is ever attempted on incomplete input. Disabling it
	// runs every stage purely for diagnostic output.
	EarlyReturn bool

	// MaxQuestions bounds the clarification list surfaced to callers.
	MaxQuestions int
}

// DefaultOptions returns the production settings.
func DefaultOptions() Options {
	return Options{EarlyReturn: true, MaxQuestions: 5}
}

// Input is one quote request: free text plus optional pre-computed
// segments from the upstream classifier.
type Input struct {
	Text     string        `json:"text"`
	Segments []api.Segment `json:"segments,omitempty"`
}

// Pipeline is the only entry point callers use.
type Pipeline struct {
	detector   Detector
	checker    Checker
	mapper     Mapper
	calculator Calculator
	splitter   classify.Splitter // optional, used when Input.Segments is empty
	opts       Options
	logger     *slog.Logger
}

// New assembles a pipeline from stage implementations. Use the Factory for
// the named presets.
func New(d Detector, c Checker, m Mapper, calc Calculator, opts Options, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxQuestions <= 0 {
		opts.MaxQuestions = DefaultOptions().MaxQuestions
	}
	return &Pipeline{
		detector:   d,
		checker:    c,
		mapper:     m,
		calculator: calc,
		opts:       opts,
		logger:     logger,
	}
}

// WithSplitter attaches an upstream classifier used to segment unhinted
// input. Classifier failure falls back to unsegmented detection.
func (p *Pipeline) WithSplitter(s classify.Splitter) *Pipeline {
	p.splitter = s
	return p
}

// run carries the mutable state of a single invocation, keeping the
// Pipeline itself stateless.
type run struct {
	state  state
	result *api.PipelineResult
}

func (r *run) trace(step state, start time.Time, out any, info []string, warnings []string) {
	r.result.Debug = append(r.result.Debug, api.StageTrace{
		Step:             string(step),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		IntermediateOut:  out,
		Info:             info,
		Warnings:         warnings,
	})
}

// Process runs the staged flow for one request. It always returns a
// result: a priced quote, a bounded list of clarification questions, or a
// structured error for a fatal stage. It never panics through to callers.
func (p *Pipeline) Process(ctx context.Context, in Input) *api.PipelineResult {
	r := &run{state: stateIdle, result: &api.PipelineResult{}}

	if strings.TrimSpace(in.Text) == "" && len(in.Segments) == 0 {
		qe := quoteerrors.NewInputEmptyError()
		p.logger.Info("empty input, asking for details")
		r.result.Success = true
		r.result.ClarificationNeeded = true
		r.result.ClarificationQuestions = []string{
			"What work would you like done? Please describe the services and approximate sizes.",
		}
		r.trace(stateDetecting, time.Now(), nil, []string{qe.Error()}, nil)
		return r.result
	}

	segments := in.Segments
	if len(segments) == 0 && p.splitter != nil {
		if classification, err := p.splitter.SplitAndCategorize(ctx, in.Text); err == nil {
			segments = classification.SegmentList()
		} else {
			p.logger.Warn("classifier unavailable, detecting unsegmented", "error", err)
		}
	}

	// detecting
	r.state = stateDetecting
	start := time.Now()
	det := p.detector.Detect(in.Text, segments)
	r.trace(stateDetecting, start, det, []string{
		fmt.Sprintf("detected %d candidate services", len(det.Services)),
	}, nil)

	// checking
	r.state = stateChecking
	start = time.Now()
	chk := p.checker.Check(det.Services)
	r.trace(stateChecking, start, chk, []string{
		fmt.Sprintf("overall confidence %.2f", chk.OverallConfidence),
	}, nil)

	incomplete := !chk.AllComplete || len(chk.Questions) > 0
	if incomplete && p.opts.EarlyReturn {
		r.state = stateDone
		r.result.Success = true
		r.result.ClarificationNeeded = true
		r.result.ClarificationQuestions = p.boundQuestions(chk.Questions)
		return r.result
	}

	// mapping
	r.state = stateMapping
	start = time.Now()
	mp := p.mapper.Map(chk.Services)
	r.trace(stateMapping, start, mp, []string{
		fmt.Sprintf("mapped %d, unmapped %d, mapping confidence %.2f",
			len(mp.Mapped), len(mp.Unmapped), mp.MappingConfidence),
	}, mp.Warnings)

	questions := append([]string{}, chk.Questions...)
	for _, u := range mp.Unmapped {
		q := fmt.Sprintf("We couldn't match %q to a service we offer.", u.Name)
		if len(u.Suggestions) > 0 {
			q += " Did you mean: " + strings.Join(u.Suggestions, ", ") + "?"
		}
		questions = append(questions, q)
	}

	if len(mp.Mapped) == 0 {
		r.state = stateDone
		r.result.Success = true
		r.result.ClarificationNeeded = true
		if len(questions) == 0 {
			questions = []string{"What work would you like done? Please describe the services and approximate sizes."}
		}
		r.result.ClarificationQuestions = p.boundQuestions(questions)
		return r.result
	}

	// calculating
	r.state = stateCalculating
	start = time.Now()
	priced, err := p.calculator.Calculate(ctx, mp.Mapped)
	if err != nil {
		if incomplete {
			// Diagnostic-only run past an incomplete verdict: a pricing
			// failure here is expected, not fatal.
			r.trace(stateCalculating, start, nil, nil, []string{err.Error()})
			r.state = stateDone
			r.result.Success = true
			r.result.ClarificationNeeded = true
			r.result.ClarificationQuestions = p.boundQuestions(questions)
			return r.result
		}
		r.state = stateError
		p.logger.Error("calculation failed", "error", err)
		r.trace(stateCalculating, start, nil, nil, []string{err.Error()})
		r.result.Success = false
		r.result.Error = toPipelineError(err, stateCalculating)
		return r.result
	}
	r.trace(stateCalculating, start, priced, []string{
		fmt.Sprintf("priced %d services, total %.2f", len(priced.Services), priced.Totals.TotalCost),
	}, nil)

	r.state = stateDone
	r.result.Success = true
	r.result.ClarificationNeeded = incomplete || len(mp.Unmapped) > 0
	r.result.ClarificationQuestions = p.boundQuestions(questions)
	r.result.FinalResult = &api.FinalResult{
		Services:            priced.Services,
		Totals:              priced.Totals,
		SpecialCalculations: priced.SpecialCalculations,
	}
	return r.result
}

// boundQuestions de-duplicates and caps the clarification list.
func (p *Pipeline) boundQuestions(questions []string) []string {
	seen := make(map[string]struct{}, len(questions))
	var out []string
	for _, q := range questions {
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
		if len(out) == p.opts.MaxQuestions {
			break
		}
	}
	return out
}

func toPipelineError(err error, stage state) *api.PipelineError {
	if qe, ok := err.(*quoteerrors.QuoteError); ok {
		return &api.PipelineError{
			Code:      qe.Code,
			Message:   qe.Message,
			Stage:     string(stage),
			RetryHint: qe.RetryHint,
		}
	}
	return &api.PipelineError{
		Code:    "INTERNAL",
		Message: err.Error(),
		Stage:   string(stage),
	}
}
