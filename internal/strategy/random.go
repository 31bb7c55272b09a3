package strategy

import (
	"context"
	"fmt"

	"github.com/gamma-omg/coin-backtest/internal/market"
	"github.com/gamma-omg/coin-backtest/internal/wallet"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type randSource interface {
	Float64() float64
}

type RandomParams struct {
	Chance    float64
	MaxPrice  decimal.Decimal
	BuySize   decimal.Decimal
	MinProfit decimal.Decimal
}

func (p RandomParams) validate() error {
	if p.Chance < 0 || p.Chance > 1 {
		return fmt.Errorf("%w: chance must be within [0,1]: %v", wallet.ErrInvalidArgument, p.Chance)
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

type RandomBuyer struct {
	name    string
	capital decimal.Decimal
	params  RandomParams
	rng     randSource
	log     *zap.Logger
}

func NewRandomBuyer(name string, capital decimal.Decimal, params RandomParams, rng randSource, log *zap.Logger) (*RandomBuyer, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", wallet.ErrInvalidArgument)
	}

	return &RandomBuyer{
		name:    name,
		capital: capital,
		params:  params,
		rng:     rng,
		log:     log,
	}, nil
}

func (b *RandomBuyer) Name() string {
	return b.name
}

func (b *RandomBuyer) Run(ctx context.Context, series []market.PricePoint) (Result, error) {
	w, err := wallet.New(b.capital)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create wallet: %w", err)
	}

	var j journal
	refused := 0
	for i, p := range series {
		if err := checkContext(ctx, i); err != nil {
			return Result{}, err
		}

		if !p.Valid() {
			continue
		}

		price := p.Price.Decimal
		if b.rng.Float64() < b.params.Chance && price.LessThan(b.params.MaxPrice) {
			amount := units(b.params.BuySize, price)
			if amount.IsPositive() {
				ok, err := w.Buy(price, amount)
				if err != nil {
					return Result{}, fmt.Errorf("failed to buy at %s: %w", price, err)
				}

				if ok {
					j.bought(p.Time, price, amount)
				} else {
					refused++
					b.log.Debug("buy refused",
						zap.String("run", b.name),
						zap.Time("time", p.Time),
						zap.Stringer("price", price),
						zap.Stringer("capital", w.Capital()))
				}
			}
		}

		sales, err := w.TakeProfits(price, b.params.MinProfit)
		if err != nil {
			return Result{}, fmt.Errorf("failed to take profits at %s: %w", price, err)
		}
		j.sold(p.Time, sales)
	}

	return Result{
		Name:         b.name,
		Kind:         KindBuyRandom,
		StartCapital: b.capital,
		Final:        w.Snapshot(),
		Trades:       j.trades,
		Refused:      refused,
	}, nil
}
