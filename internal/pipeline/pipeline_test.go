package pipeline

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"originality/internal/chunk"
)

var errTest = errors.New("test error")

func TestAnalyzeSegments(t *testing.T) {
	segs := []chunk.Segment{
		{ID: 0, Text: "a"},
		{ID: 1, Text: "b"},
		{ID: 2, Text: "c"},
		{ID: 3, Text: "d"},
	}

	var called atomic.Int32
	errs := AnalyzeSegments(segs, 2, func(seg chunk.Segment) error {
		called.Add(1)
		if seg.ID == 1 || seg.ID == 3 {
			return errTest
		}
		return nil
	})

	assert.Equal(t, int32(len(segs)), called.Load())
	require.Len(t, errs, 2)
	var segErr *SegmentError
	require.ErrorAs(t, errs[0], &segErr)
	assert.Equal(t, 1, segErr.SegmentID)
	assert.ErrorIs(t, errs[1], errTest)
}

func TestAnalyzeSegmentsEmpty(t *testing.T) {
	assert.Nil(t, AnalyzeSegments(nil, 4, func(chunk.Segment) error { return errTest }))
	assert.Nil(t, AnalyzeSegments([]chunk.Segment{{ID: 0}}, 0, nil))
}

func TestAnalyzeSegmentsDefaultWorkers(t *testing.T) {
	segs := make([]chunk.Segment, 10)
	for i := range segs {
		segs[i].ID = i
	}
	var called atomic.Int32
	errs := AnalyzeSegments(segs, 0, func(chunk.Segment) error {
		called.Add(1)
		return nil
	})
	assert.Empty(t, errs)
	assert.Equal(t, int32(10), called.Load())
}
