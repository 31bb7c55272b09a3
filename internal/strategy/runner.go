package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/gamma-omg/coin-backtest/internal/market"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Runner struct {
	log     *zap.Logger
	workers int
}

func NewRunner(log *zap.Logger, workers int) *Runner {
	return &Runner{
		log:     log,
		workers: max(workers, 1),
	}
}

// Run executes every strategy against the same series. Runs share nothing
// but the read-only series, so results do not depend on the worker count;
// they are returned in the order of the strategies.
func (r *Runner) Run(ctx context.Context, series []market.PricePoint, strategies []Strategy) ([]Result, error) {
	results := make([]Result, len(strategies))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, s := range strategies {
		g.Go(func() error {
			started := time.Now()
			r.log.Info("strategy run started", zap.String("run", s.Name()))

			res, err := s.Run(ctx, series)
			if err != nil {
				return fmt.Errorf("strategy %s failed: %w", s.Name(), err)
			}

			results[i] = res
			r.log.Info("strategy run finished",
				zap.String("run", s.Name()),
				zap.Duration("elapsed", time.Since(started)),
				zap.Int("trades", len(res.Trades)),
				zap.Int("refused", res.Refused),
				zap.Stringer("capital", res.Final.Capital),
				zap.Stringer("gains", res.Final.Gains))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
