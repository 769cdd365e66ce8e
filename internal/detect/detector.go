// Package detect segments raw customer text into candidate services with
// quantities and units. Zero and negative quantities are retained so the
// Checker can flag them explicitly instead of the Detector silently
// discarding them.
package detect

import (
	"strings"

	"landscape-quote/internal/catalog"
	"landscape-quote/pkg/api"
	"landscape-quote/pkg/confidence"
	"landscape-quote/pkg/units"
)

// Result is the Detector's output for one invocation.
type Result struct {
	Services []api.RawService  `json:"services"`
	Leftover []string          `json:"leftover,omitempty"`
	Analysis api.InputAnalysis `json:"analysis"`
}

// Detector extracts candidate services from free text.
type Detector struct {
	cat     *catalog.Catalog
	phrases *phraseIndex
	stop    map[string]struct{}
}

// New builds a Detector over the given catalog.
func New(cat *catalog.Catalog) *Detector {
	return &Detector{
		cat:     cat,
		phrases: newPhraseIndex(cat),
		stop:    defaultStopwords(),
	}
}

// Detect extracts services from text. When segments are supplied by the
// upstream classifier they are processed individually with their category
// hints; otherwise the whole text is treated as one unhinted segment.
func (d *Detector) Detect(text string, segments []api.Segment) Result {
	if len(segments) == 0 {
		segments = []api.Segment{{Text: text}}
	}

	var res Result
	for _, seg := range segments {
		d.detectSegment(seg, &res)
	}

	res.Analysis.HasMultipleServices = len(res.Services) > 1
	var scores []float64
	for _, s := range res.Services {
		scores = append(scores, s.Confidence)
	}
	if len(scores) == 0 {
		res.Analysis.OverallConfidence = confidence.NoServicesFloor
	} else {
		res.Analysis.OverallConfidence = confidence.Mean(scores)
	}
	return res
}

func (d *Detector) detectSegment(seg api.Segment, res *Result) {
	tokens := tokenize(seg.Text)
	if len(tokens) == 0 {
		return
	}
	consumed := make([]bool, len(tokens))

	measurements := d.extractMeasurements(tokens, consumed)
	matches := d.phrases.match(tokens, consumed, seg.CategoryHint)
	attrs := detectAttributes(seg.Text)

	for _, m := range matches {
		svc := api.RawService{
			Name:         m.name,
			OriginalText: seg.Text,
			CategoryHint: seg.CategoryHint,
			Confidence:   d.matchConfidence(m, seg.CategoryHint),
		}
		if meas := claimMeasurement(measurements, m.start); meas != nil {
			svc.Quantity = meas.quantity
			svc.Unit = meas.unit
			// An explicit zero still counts as a stated quantity.
			res.Analysis.HasQuantities = true
			if meas.unit != "" {
				res.Analysis.HasUnits = true
			}
		}
		if m.entry.Special && len(attrs) > 0 {
			svc.Attributes = attrs
		}
		res.Services = append(res.Services, svc)
	}

	res.Leftover = append(res.Leftover, d.leftover(tokens, consumed)...)
}

// extractMeasurements finds dimension pairs and quantity+unit phrases,
// marking their tokens consumed.
func (d *Detector) extractMeasurements(tokens []token, consumed []bool) []*measurement {
	var out []*measurement

	for i := 0; i < len(tokens); i++ {
		if consumed[i] {
			continue
		}
		if m, ok := parseDimension(tokens, i); ok {
			out = append(out, &m)
			markConsumed(consumed, m.start, m.end)
			i = m.end - 1
			continue
		}
		qty, ok := parseNumber(tokens[i].Norm)
		if !ok {
			continue
		}
		m := measurement{start: i, end: i + 1, quantity: qty}
		// Try a two-token unit ("square feet", "cubic yards") before a
		// single-token one.
		if i+2 < len(tokens) {
			if u, ok := units.Canonical(tokens[i+1].Norm + " " + tokens[i+2].Norm); ok {
				m.unit = u
				m.end = i + 3
			}
		}
		if m.unit == "" && i+1 < len(tokens) {
			if u, ok := units.Canonical(tokens[i+1].Norm); ok {
				m.unit = u
				m.end = i + 2
			}
		}
		out = append(out, &m)
		markConsumed(consumed, m.start, m.end)
		i = m.end - 1
	}
	return out
}

// claimMeasurement assigns the nearest unclaimed measurement to a service
// match: closest one before the phrase, falling back to the closest after.
func claimMeasurement(measurements []*measurement, svcStart int) *measurement {
	var best *measurement
	for _, m := range measurements {
		if m.claimed || m.start >= svcStart {
			continue
		}
		if best == nil || m.start > best.start {
			best = m
		}
	}
	if best == nil {
		for _, m := range measurements {
			if m.claimed {
				continue
			}
			if best == nil || m.start < best.start {
				best = m
			}
		}
	}
	if best != nil {
		best.claimed = true
	}
	return best
}

func (d *Detector) matchConfidence(m phraseMatch, hint string) float64 {
	hinted := hint != "" && strings.EqualFold(hint, m.entry.Category)
	switch {
	case m.exact && hinted:
		return confidence.HintedExactMatch
	case m.exact:
		return confidence.ExactMatch
	case hinted:
		return confidence.HintedSynonymMatch
	default:
		return confidence.SynonymMatch
	}
}

// leftover groups unconsumed non-stopword tokens into contiguous fragments,
// returned verbatim for diagnostics.
func (d *Detector) leftover(tokens []token, consumed []bool) []string {
	var fragments []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			fragments = append(fragments, strings.Join(current, " "))
			current = nil
		}
	}
	for i, t := range tokens {
		if consumed[i] {
			flush()
			continue
		}
		if _, stop := d.stop[t.Norm]; stop || t.Norm == "" {
			flush()
			continue
		}
		current = append(current, t.Text)
	}
	flush()
	return fragments
}

func markConsumed(consumed []bool, start, end int) {
	for i := start; i < end; i++ {
		consumed[i] = true
	}
}

// detectAttributes scans a segment for special-service facts that the
// Checker needs, currently the boring-requirement answer for irrigation
// work crossing hardscape.
func detectAttributes(text string) map[string]string {
	lower := strings.ToLower(text)
	attrs := map[string]string{}
	switch {
	case strings.Contains(lower, "no boring"), strings.Contains(lower, "without boring"):
		attrs["boring_required"] = "no"
	case strings.Contains(lower, "boring"),
		strings.Contains(lower, "under the sidewalk"),
		strings.Contains(lower, "under the driveway"),
		strings.Contains(lower, "under sidewalk"),
		strings.Contains(lower, "under driveway"):
		attrs["boring_required"] = "yes"
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"the", "a", "an", "and", "or", "of", "for", "in", "on", "at", "to",
		"with", "my", "our", "your", "i", "we", "you", "need", "needs",
		"want", "wants", "would", "like", "please", "some", "also", "get",
		"have", "do", "done", "area", "around", "along", "about", "it",
	}
	stop := make(map[string]struct{}, len(words))
	for _, w := range words {
		stop[w] = struct{}{}
	}
	return stop
}
