package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscape-quote/internal/catalog"
)

func TestStaticSplitterSegments(t *testing.T) {
	s := NewStaticSplitter(catalog.Default())

	c, err := s.SplitAndCategorize(context.Background(),
		"45 sq ft of triple ground mulch and 3 feet of metal edging")
	require.NoError(t, err)
	require.Len(t, c.Segments, 2)
	assert.Equal(t, []string{"mulching", "edging"}, c.Categories)
}

func TestStaticSplitterUnknownCategory(t *testing.T) {
	s := NewStaticSplitter(catalog.Default())

	c, err := s.SplitAndCategorize(context.Background(), "paint the fence")
	require.NoError(t, err)
	require.Len(t, c.Segments, 1)
	assert.Equal(t, "", c.Categories[0])
}

func TestSegmentListPairsHints(t *testing.T) {
	c := Classification{
		Segments:   []string{"a", "b"},
		Categories: []string{"mulching"},
	}
	segs := c.SegmentList()
	require.Len(t, segs, 2)
	assert.Equal(t, "mulching", segs[0].CategoryHint)
	assert.Equal(t, "", segs[1].CategoryHint)
}
