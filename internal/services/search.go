package services

import (
	"context"
	"errors"
	"fmt"
	"goal-route-service/internal/domain"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// MaxSearchConcurrency caps in-flight evaluations when a search runs in parallel.
const MaxSearchConcurrency = 6

// EvaluateFunc scores one candidate. Errors wrapping domain.ErrProviderUnavailable
// abort the search; any other error only discards the candidate.
type EvaluateFunc func(ctx context.Context, c domain.Candidate) (domain.RouteEvaluation, error)

type SearchParams struct {
	Plan     domain.GoalPlan
	Stream   CandidateStream
	Budget   int
	Evaluate EvaluateFunc

	// Concurrency above 1 evaluates candidates in parallel, capped at MaxSearchConcurrency.
	Concurrency int
	// Deadline bounds the whole search; on breach the outcome is exhausted.
	Deadline time.Duration
}

// Search is a satisficing loop: it stops at the first candidate inside the
// strict band, else falls back to the closest candidate seen if it is within
// the relaxed limit.
//
// A parent context cancellation is returned as an error alongside an
// exhausted outcome so superseded searches can be discarded by the caller.
func Search(ctx context.Context, p SearchParams) (domain.SearchOutcome, error) {
	parent := ctx
	if p.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Deadline)
		defer cancel()
	}

	var (
		r   searchResult
		err error
	)
	if p.Concurrency > 1 {
		r, err = searchParallel(ctx, p)
	} else {
		r, err = searchSequential(ctx, p)
	}

	if r.hit != nil {
		return domain.SearchOutcome{Status: domain.StatusAccepted, Evaluation: r.hit, AttemptsUsed: r.attempts}, nil
	}
	exhausted := domain.SearchOutcome{Status: domain.StatusExhausted, AttemptsUsed: r.attempts}
	if err != nil {
		return exhausted, fmt.Errorf("search: %w", err)
	}
	if perr := parent.Err(); perr != nil {
		return exhausted, fmt.Errorf("search: %w", perr)
	}
	if ctx.Err() != nil {
		return exhausted, nil
	}

	if r.best != nil && r.best.AbsDifferenceKm <= p.Plan.BestEffortLimitKm() {
		return domain.SearchOutcome{Status: domain.StatusBestEffort, Evaluation: r.best, AttemptsUsed: r.attempts}, nil
	}
	return exhausted, nil
}

type searchResult struct {
	hit      *domain.RouteEvaluation
	best     *domain.RouteEvaluation
	attempts int
}

// offer records ev, returning true when it is a strict hit.
func (r *searchResult) offer(ev domain.RouteEvaluation) bool {
	if ev.WithinStrict {
		if r.hit == nil {
			r.hit = &ev
		}
		return true
	}
	if r.best == nil || ev.AbsDifferenceKm < r.best.AbsDifferenceKm {
		r.best = &ev
	}
	return false
}

func searchSequential(ctx context.Context, p SearchParams) (searchResult, error) {
	var r searchResult

	for r.attempts < p.Budget {
		if ctx.Err() != nil {
			break
		}
		c, ok := p.Stream.Next()
		if !ok {
			break
		}
		r.attempts++

		ev, err := p.Evaluate(ctx, c)
		if err != nil {
			if errors.Is(err, domain.ErrProviderUnavailable) {
				return r, err
			}
			continue
		}
		if r.offer(ev) {
			return r, nil
		}
	}

	return r, nil
}

func searchParallel(ctx context.Context, p SearchParams) (searchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(p.Concurrency, MaxSearchConcurrency))

	var (
		mu sync.Mutex
		r  searchResult
	)

	launched := 0
	for launched < p.Budget {
		if gctx.Err() != nil {
			break
		}
		c, ok := p.Stream.Next()
		if !ok {
			break
		}
		launched++

		g.Go(func() error {
			ev, err := p.Evaluate(gctx, c)
			if err != nil {
				if errors.Is(err, domain.ErrProviderUnavailable) {
					return err
				}
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			if r.offer(ev) {
				cancel()
			}
			return nil
		})
	}

	err := g.Wait()
	r.attempts = launched
	if r.hit != nil {
		return r, nil
	}
	return r, err
}
