package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"spendwise/internal/analytics"
	"spendwise/internal/budget"
	"spendwise/internal/cache"
	"spendwise/internal/core"
)

// AnalyticsSource is the read side of the store the analytics need.
type AnalyticsSource interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	ListBudgets(ctx context.Context) ([]core.Budget, error)
	Revision(ctx context.Context) (int64, error)
}

// Overview bundles every derived view of the data at one instant.
type Overview struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Revision    int64             `json:"revision"`
	Analytics   analytics.Data    `json:"analytics"`
	Insights    []string          `json:"insights"`
	Budgets     []budget.Progress `json:"budgets"`
}

// Alerts returns the budgets whose status is at least min.
func (o Overview) Alerts(min budget.Status) []budget.Progress {
	out := []budget.Progress{}
	for _, p := range o.Budgets {
		if p.Status.AtLeast(min) {
			out = append(out, p)
		}
	}
	return out
}

// AnalyticsService computes overviews and caches them per store revision
// and calendar day.
type AnalyticsService struct {
	source AnalyticsSource
	clock  Clock
	cache  cache.Cache[Overview]
	group  singleflight.Group
}

// NewAnalyticsService creates the service. A nil cache disables caching.
func NewAnalyticsService(source AnalyticsSource, clock Clock, c cache.Cache[Overview]) *AnalyticsService {
	return &AnalyticsService{source: source, clock: clock, cache: c}
}

// Overview returns the overview for the current instant, reusing a cached
// one computed earlier the same day from the same store revision.
func (s *AnalyticsService) Overview(ctx context.Context) (Overview, error) {
	now := s.clock()
	rev, err := s.source.Revision(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("read store revision: %w", err)
	}
	key := cacheKey(rev, now)

	if s.cache != nil {
		if ov, ok := s.cache.Get(key); ok {
			return ov, nil
		}
	}

	// The computation outlives the caller that started it: other requests
	// may be waiting on the same key.
	shareCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		ov, err := s.Compute(shareCtx, now)
		if err != nil {
			return Overview{}, err
		}
		if s.cache != nil {
			s.cache.Set(key, ov)
		}
		return ov, nil
	})

	select {
	case <-ctx.Done():
		return Overview{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Overview{}, res.Err
		}
		if res.Shared {
			slog.DebugContext(ctx, "Analytics computation shared", "key", key)
		}
		return res.Val.(Overview), nil
	}
}

// Compute builds a fresh overview at now without touching the cache.
func (s *AnalyticsService) Compute(ctx context.Context, now time.Time) (Overview, error) {
	var (
		txns    []core.Transaction
		budgets []core.Budget
		rev     int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if rev, err = s.source.Revision(gctx); err != nil {
			return fmt.Errorf("read store revision: %w", err)
		}
		if txns, err = s.source.ListTransactions(gctx); err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if budgets, err = s.source.ListBudgets(gctx); err != nil {
			return fmt.Errorf("load budgets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	start := time.Now()
	data := analytics.Calculate(txns, now)
	ov := Overview{
		GeneratedAt: now,
		Revision:    rev,
		Analytics:   data,
		Insights:    analytics.Insights(data),
		Budgets:     budget.CalculateAll(budgets, txns, now),
	}

	slog.DebugContext(ctx, "Analytics computed",
		"transactions", len(txns),
		"budgets", len(budgets),
		"revision", rev,
		"duration", time.Since(start))
	return ov, nil
}

// Invalidate drops every cached overview.
func (s *AnalyticsService) Invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

func cacheKey(rev int64, now time.Time) string {
	return fmt.Sprintf("%d@%s", rev, core.DateOf(now))
}
