package scan

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result aggregates every scanner's matches in scanner order.
type Result struct {
	Matches     []Match
	Errors      []CallError
	ErrorCounts map[Source]int
	TimedOut    []string
}

func (r Result) ErrorTotal() int {
	total := 0
	for _, n := range r.ErrorCounts {
		total += n
	}
	return total
}

// Orchestrator runs a fixed set of scanners under one shared budget.
type Orchestrator struct {
	Scanners   []Scanner
	Budget     time.Duration
	Concurrent bool

	logger *slog.Logger
}

func NewOrchestrator(scanners []Scanner, budget time.Duration, concurrent bool, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Orchestrator{
		Scanners:   scanners,
		Budget:     budget,
		Concurrent: concurrent,
		logger:     logger.With("component", "scan"),
	}
}

// Run executes the scanners. A scanner that fails or finds nothing never
// affects the others. Cancelling ctx aborts the run with ctx.Err().
func (o *Orchestrator) Run(ctx context.Context, doc Document) (Result, error) {
	slots := make([]Outcome, len(o.Scanners))

	if o.Concurrent {
		var g errgroup.Group
		for i, s := range o.Scanners {
			g.Go(func() error {
				slots[i] = s.Scan(ctx, doc, o.Budget)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, s := range o.Scanners {
			if ctx.Err() != nil {
				break
			}
			slots[i] = s.Scan(ctx, doc, o.Budget)
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{ErrorCounts: map[Source]int{}}
	for i, out := range slots {
		res.Matches = append(res.Matches, out.Matches...)
		res.Errors = append(res.Errors, out.Errors...)
		for _, ce := range out.Errors {
			res.ErrorCounts[ce.Source]++
		}
		if out.TimedOut {
			res.TimedOut = append(res.TimedOut, o.Scanners[i].Name())
		}
		o.logger.Info("scanner finished",
			"stage", "SCAN",
			"scanner", o.Scanners[i].Name(),
			"matches", len(out.Matches),
			"errors", len(out.Errors),
			"timed_out", out.TimedOut,
		)
	}
	return res, nil
}
