// Package confidence provides confidence score math utilities.
package confidence

// Mean is the arithmetic mean of the scores, or 0 for an empty slice.
// Stage-level confidence aggregation uses the plain mean so a single weak
// candidate cannot zero out an otherwise solid quote.
func Mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// AboveThreshold checks if confidence meets minimum requirement.
func AboveThreshold(score, threshold float64) bool {
	return score >= threshold
}

// Clamp ensures confidence is in valid range [0, 1].
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Baseline confidences assigned by the Detector. Hinted exact matches rank
// above plain exact matches, which rank above bare synonym hits. These are
// empirically chosen and tunable, not derived from a formal model.
const (
	HintedExactMatch   = 0.95
	ExactMatch         = 0.90
	HintedSynonymMatch = 0.85
	SynonymMatch       = 0.80

	// NoServicesFloor is the overall confidence reported when nothing was
	// detected at all.
	NoServicesFloor = 0.2
)
