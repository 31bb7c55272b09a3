package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/gamma-omg/coin-backtest/internal/market"
	"github.com/gamma-omg/coin-backtest/internal/wallet"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type IntervalParams struct {
	IntervalSize decimal.Decimal
	MaxPrice     decimal.Decimal
	BuySize      decimal.Decimal
	MinProfit    decimal.Decimal
}

func (p IntervalParams) validate() error {
	if !p.IntervalSize.IsPositive() {
		return fmt.Errorf("%w: interval size must be positive: %s", wallet.ErrInvalidArgument, p.IntervalSize)
	}
	if !p.MaxPrice.IsPositive() {
		return fmt.Errorf("%w: max price must be positive: %s", wallet.ErrInvalidArgument, p.MaxPrice)
	}
	if !p.BuySize.IsPositive() {
		return fmt.Errorf("%w: buy size must be positive: %s", wallet.ErrInvalidArgument, p.BuySize)
	}
	if !p.MinProfit.IsPositive() {
		return fmt.Errorf("%w: min profit must be positive: %s", wallet.ErrInvalidArgument, p.MinProfit)
	}

	return nil
}

// IntervalTrader splits the price axis into fixed-width buckets. Falling
// through a bucket boundary buys BuySize worth of coin at the boundary price,
// rising through one sells every position that made at least MinProfit.
type IntervalTrader struct {
	name    string
	capital decimal.Decimal
	params  IntervalParams
	log     *zap.Logger
}

func NewIntervalTrader(name string, capital decimal.Decimal, params IntervalParams, log *zap.Logger) (*IntervalTrader, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	return &IntervalTrader{
		name:    name,
		capital: capital,
		params:  params,
		log:     log,
	}, nil
}

func (t *IntervalTrader) Name() string {
	return t.name
}

func (t *IntervalTrader) Run(ctx context.Context, series []market.PricePoint) (Result, error) {
	w, err := wallet.New(t.capital)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create wallet: %w", err)
	}

	run := intervalRun{IntervalTrader: t, wallet: w}

	var cur int64
	started := false
	for i, p := range series {
		if err := checkContext(ctx, i); err != nil {
			return Result{}, err
		}

		if !p.Valid() {
			continue
		}

		next := t.interval(p.Price.Decimal)
		if !started {
			cur, started = next, true
			continue
		}

		// boundaries are handled one at a time, so a jump across several
		// buckets behaves like a walk through each of them
		switch {
		case next > cur:
			for k := cur + 1; k <= next; k++ {
				if err := run.sellAt(p.Time, k); err != nil {
					return Result{}, err
				}
			}
		case next < cur:
			for k := cur; k > next; k-- {
				if err := run.buyAt(p.Time, k); err != nil {
					return Result{}, err
				}
			}
		}

		cur = next
	}

	return Result{
		Name:         t.name,
		Kind:         KindBuyLowSellHigh,
		StartCapital: t.capital,
		Final:        w.Snapshot(),
		Trades:       run.trades,
		Refused:      run.refused,
	}, nil
}

func (t *IntervalTrader) interval(price decimal.Decimal) int64 {
	q, _ := price.QuoRem(t.params.IntervalSize, 0)
	return q.IntPart()
}

func (t *IntervalTrader) boundary(k int64) decimal.Decimal {
	return decimal.NewFromInt(k).Mul(t.params.IntervalSize)
}

type intervalRun struct {
	*IntervalTrader
	journal
	wallet  *wallet.Wallet
	refused int
}

func (r *intervalRun) sellAt(ts time.Time, k int64) error {
	price := r.boundary(k)
	sales, err := r.wallet.TakeProfits(price, r.params.MinProfit)
	if err != nil {
		return fmt.Errorf("failed to take profits at %s: %w", price, err)
	}

	if len(sales) > 0 {
		r.log.Debug("profits taken",
			zap.String("run", r.name),
			zap.Time("time", ts),
			zap.Stringer("price", price),
			zap.Int("positions", len(sales)))
	}

	r.sold(ts, sales)
	return nil
}

func (r *intervalRun) buyAt(ts time.Time, k int64) error {
	crossed := r.boundary(k)
	if crossed.GreaterThan(r.params.MaxPrice) {
		return nil
	}

	target := units(r.params.BuySize, crossed).Sub(r.wallet.Held(crossed))
	if !target.IsPositive() {
		return nil
	}

	ok, err := r.wallet.Buy(crossed, target)
	if err != nil {
		return fmt.Errorf("failed to buy at %s: %w", crossed, err)
	}

	if !ok {
		r.refused++
		r.log.Debug("buy refused",
			zap.String("run", r.name),
			zap.Time("time", ts),
			zap.Stringer("price", crossed),
			zap.Stringer("capital", r.wallet.Capital()))
		return nil
	}

	r.bought(ts, crossed, target)
	return nil
}
