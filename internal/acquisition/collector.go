// Package acquisition gathers one reading per metric id from a Source and
// hands the scoring engine a complete batch.
package acquisition

import (
	"context"
	"fmt"
	"sync"

	"code.cloudfoundry.org/lager/v3"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/yusufkecer/body-score-backend/internal/domain"
)

const DefaultConcurrency = 4

// Source resolves the single best reading for a metric id. ok is false when
// the source has no data for that id.
type Source interface {
	Fetch(ctx context.Context, metricID string) (reading domain.Reading, ok bool, err error)
}

type SourceFunc func(ctx context.Context, metricID string) (domain.Reading, bool, error)

func (f SourceFunc) Fetch(ctx context.Context, metricID string) (domain.Reading, bool, error) {
	return f(ctx, metricID)
}

type Collector struct {
	logger      lager.Logger
	concurrency int
}

func NewCollector(logger lager.Logger, concurrency int) *Collector {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Collector{logger: logger.Session("collector"), concurrency: concurrency}
}

// Collect fetches every id concurrently and returns only after all fetches
// have finished, so the batch never holds a partially replaced category.
// A failed fetch leaves that metric absent; the failures are returned as a
// multierror alongside the readings that did arrive. Readings come back in
// the order of ids.
func (c *Collector) Collect(ctx context.Context, src Source, ids []string) ([]domain.Reading, error) {
	logger := c.logger.Session("collect", lager.Data{"ids": len(ids)})

	results := make([]*domain.Reading, len(ids))

	var (
		mu     sync.Mutex
		result *multierror.Error
	)

	var g errgroup.Group
	g.SetLimit(c.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			reading, ok, err := src.Fetch(ctx, id)
			if err != nil {
				logger.Error("failed-to-fetch", err, lager.Data{"metric": id})
				mu.Lock()
				result = multierror.Append(result, fmt.Errorf("fetch %s: %w", id, err))
				mu.Unlock()
				return nil
			}
			if !ok {
				logger.Debug("no-data", lager.Data{"metric": id})
				return nil
			}

			if reading.ID == "" {
				reading.ID = id
			}
			reading = reading.WithDefaults()
			results[i] = &reading
			return nil
		})
	}

	// fetch errors are collected above, never returned to the group
	_ = g.Wait()

	readings := make([]domain.Reading, 0, len(ids))
	for _, r := range results {
		if r != nil {
			readings = append(readings, *r)
		}
	}

	logger.Debug("collected", lager.Data{"readings": len(readings)})

	if err := ctx.Err(); err != nil {
		return readings, err
	}
	return readings, result.ErrorOrNil()
}
