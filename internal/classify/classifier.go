// Package classify defines the upstream category-hint classifier consumed
// before the Detector. The real classifier is an external service; the
// static splitter keeps dev and mock configurations network-free.
package classify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"landscape-quote/internal/catalog"
	"landscape-quote/pkg/api"
	"landscape-quote/pkg/platform"
)

// Classification is the external classifier's output: parallel slices of
// text segments and their category labels.
type Classification struct {
	Categories []string `json:"categories"`
	Segments   []string `json:"segments"`
}

// Segments pairs the parallel slices into detector input. A missing
// category for a segment yields an empty hint rather than an error.
func (c Classification) SegmentList() []api.Segment {
	out := make([]api.Segment, 0, len(c.Segments))
	for i, s := range c.Segments {
		seg := api.Segment{Text: s}
		if i < len(c.Categories) {
			seg.CategoryHint = c.Categories[i]
		}
		out = append(out, seg)
	}
	return out
}

// Splitter proposes category splits for raw customer text.
type Splitter interface {
	SplitAndCategorize(ctx context.Context, text string) (Classification, error)
}

// HTTPSplitter calls the external text-classification service. Calls are
// time-bounded; on failure the pipeline falls back to unsegmented
// detection rather than waiting.
type HTTPSplitter struct {
	baseURL string
	client  *platform.HTTPClient
}

// NewHTTPSplitter builds a classifier client with a single-digit-second
// timeout.
func NewHTTPSplitter(baseURL string) *HTTPSplitter {
	return &HTTPSplitter{
		baseURL: baseURL,
		client:  platform.NewHTTPClient(1, 4*time.Second),
	}
}

type splitRequest struct {
	Text string `json:"text"`
}

func (s *HTTPSplitter) SplitAndCategorize(ctx context.Context, text string) (Classification, error) {
	var out Classification
	err := s.client.PostJSON(ctx, s.baseURL+"/v1/classify", splitRequest{Text: text}, &out)
	if err != nil {
		return Classification{}, fmt.Errorf("classify: %w", err)
	}
	return out, nil
}

// StaticSplitter is the deterministic stub: it splits on common
// conjunctions and guesses each segment's category from catalog keywords.
type StaticSplitter struct {
	cat *catalog.Catalog
}

// NewStaticSplitter builds the stub over the given catalog.
func NewStaticSplitter(cat *catalog.Catalog) *StaticSplitter {
	return &StaticSplitter{cat: cat}
}

func (s *StaticSplitter) SplitAndCategorize(_ context.Context, text string) (Classification, error) {
	var c Classification
	for _, segment := range splitSegments(text) {
		c.Segments = append(c.Segments, segment)
		c.Categories = append(c.Categories, s.guessCategory(segment))
	}
	return c, nil
}

func splitSegments(text string) []string {
	replaced := strings.NewReplacer(" and ", "|", ",", "|", ";", "|", " plus ", "|").Replace(text)
	var out []string
	for _, part := range strings.Split(replaced, "|") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// guessCategory returns the category of the longest catalog alias found in
// the segment, empty when nothing matches.
func (s *StaticSplitter) guessCategory(segment string) string {
	lower := " " + strings.ToLower(segment) + " "
	best := ""
	bestLen := 0
	for alias, canonical := range s.cat.Aliases() {
		if len(alias) <= bestLen {
			continue
		}
		if strings.Contains(lower, " "+alias+" ") {
			if entry, ok := s.cat.Get(canonical); ok {
				best = entry.Category
				bestLen = len(alias)
			}
		}
	}
	return best
}
