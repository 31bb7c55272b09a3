package strategy

import (
	"context"
	"fmt"

	"github.com/gamma-omg/coin-backtest/internal/market"
	"github.com/gamma-omg/coin-backtest/internal/wallet"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaxGain returns the profit of a trader who knows the next price in advance:
// all-in before every rise, all-out before every drop, liquidated at the end.
// It is an upper bound, not a strategy, and grows without limit on long series.
func MaxGain(points []market.PricePoint, capital decimal.Decimal) decimal.Decimal {
	var j journal
	final, _ := maxGain(context.Background(), points, capital, &j)
	return final.Sub(capital)
}

func maxGain(ctx context.Context, points []market.PricePoint, capital decimal.Decimal, j *journal) (decimal.Decimal, error) {
	valid := make([]market.PricePoint, 0, len(points))
	for _, p := range points {
		if p.Valid() {
			valid = append(valid, p)
		}
	}

	cash := capital
	coin := decimal.Zero
	entry := decimal.Zero
	for i, p := range valid {
		if err := checkContext(ctx, i); err != nil {
			return cash, err
		}

		price := p.Price.Decimal
		last := i == len(valid)-1
		holding := coin.IsPositive()

		if holding && (last || valid[i+1].Price.Decimal.LessThan(price)) {
			cash = cash.Add(coin.Mul(price))
			j.sold(p.Time, []wallet.Sale{{
				BuyPrice:  entry,
				SellPrice: price,
				Amount:    coin,
				Gain:      price.Sub(entry).Mul(coin),
			}})
			coin = decimal.Zero
			continue
		}

		if !holding && !last && valid[i+1].Price.Decimal.GreaterThan(price) {
			amount := units(cash, price)
			if !amount.IsPositive() {
				continue
			}

			coin = amount
			entry = price
			cash = cash.Sub(amount.Mul(price))
			j.bought(p.Time, price, amount)
		}
	}

	return cash, nil
}

type MaxGainStrategy struct {
	name    string
	capital decimal.Decimal
	log     *zap.Logger
}

func NewMaxGainStrategy(name string, capital decimal.Decimal, log *zap.Logger) (*MaxGainStrategy, error) {
	if capital.IsNegative() {
		return nil, fmt.Errorf("%w: capital cannot be negative: %s", wallet.ErrInvalidArgument, capital)
	}

	return &MaxGainStrategy{
		name:    name,
		capital: capital,
		log:     log,
	}, nil
}

func (s *MaxGainStrategy) Name() string {
	return s.name
}

func (s *MaxGainStrategy) Run(ctx context.Context, series []market.PricePoint) (Result, error) {
	var j journal
	final, err := maxGain(ctx, series, s.capital, &j)
	if err != nil {
		return Result{}, fmt.Errorf("max gain estimation interrupted: %w", err)
	}

	gain := final.Sub(s.capital)
	s.log.Debug("max gain estimated",
		zap.String("run", s.name),
		zap.Int("trades", len(j.trades)),
		zap.Stringer("gain", gain))

	return Result{
		Name:         s.name,
		Kind:         KindMaxGain,
		StartCapital: s.capital,
		Final: wallet.Snapshot{
			Capital: final,
			Gains:   gain,
		},
		Trades: j.trades,
	}, nil
}
