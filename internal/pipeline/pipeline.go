// Package pipeline fans per-segment work out to a bounded set of workers.
package pipeline

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"originality/internal/chunk"
)

type Analyzer func(seg chunk.Segment) error

// SegmentError ties a worker failure to the segment that caused it.
type SegmentError struct {
	SegmentID int
	Err       error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %d: %v", e.SegmentID, e.Err)
}

func (e *SegmentError) Unwrap() error { return e.Err }

// AnalyzeSegments runs fn over every segment with at most workers goroutines.
// Errors come back ordered by segment ID. workers <= 0 means one per CPU.
func AnalyzeSegments(segments []chunk.Segment, workers int, fn Analyzer) []error {
	if len(segments) == 0 || fn == nil {
		return nil
	}
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	workers = min(workers, len(segments))

	jobs := make(chan chunk.Segment)
	errs := make(chan *SegmentError, len(segments))
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seg := range jobs {
				if err := fn(seg); err != nil {
					errs <- &SegmentError{SegmentID: seg.ID, Err: err}
				}
			}
		}()
	}

	for _, seg := range segments {
		jobs <- seg
	}
	close(jobs)
	wg.Wait()
	close(errs)

	collected := make([]*SegmentError, 0, len(errs))
	for err := range errs {
		collected = append(collected, err)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].SegmentID < collected[j].SegmentID })

	out := make([]error, len(collected))
	for i, err := range collected {
		out[i] = err
	}
	return out
}
