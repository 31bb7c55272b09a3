package strategy

import (
	"context"
	"time"

	"github.com/gamma-omg/coin-backtest/internal/market"
	"github.com/gamma-omg/coin-backtest/internal/wallet"
	"github.com/shopspring/decimal"
)

const (
	KindMaxGain        = "max_gain"
	KindBuyLowSellHigh = "buylow_sellhigh"
	KindBuyRandom      = "buy_random"
)

// amountPrecision is the number of decimal places kept for coin amounts.
const amountPrecision = 16

const ctxCheckInterval = 1024

type Strategy interface {
	Name() string
	Run(ctx context.Context, series []market.PricePoint) (Result, error)
}

type Result struct {
	Name         string
	Kind         string
	StartCapital decimal.Decimal
	Final        wallet.Snapshot
	Trades       []market.Trade
	Refused      int
}

func (r Result) Gain() decimal.Decimal {
	return r.Final.Gains
}

// GainPct is the realized gain relative to the starting capital.
func (r Result) GainPct() float64 {
	if r.StartCapital.IsZero() {
		return 0
	}

	pct, _ := r.Final.Gains.Div(r.StartCapital).Float64()
	return pct
}

// units converts a quote-currency sum into a coin amount, truncating so the
// cost never exceeds the sum.
func units(sum, price decimal.Decimal) decimal.Decimal {
	q, _ := sum.QuoRem(price, amountPrecision)
	return q
}

func checkContext(ctx context.Context, i int) error {
	if i%ctxCheckInterval != 0 {
		return nil
	}

	return ctx.Err()
}

type journal struct {
	trades []market.Trade
}

func (j *journal) bought(t time.Time, price, amount decimal.Decimal) {
	j.trades = append(j.trades, market.Trade{
		Time:   t,
		Side:   market.SideBuy,
		Price:  price,
		Amount: amount,
	})
}

func (j *journal) sold(t time.Time, sales []wallet.Sale) {
	for _, s := range sales {
		j.trades = append(j.trades, market.Trade{
			Time:   t,
			Side:   market.SideSell,
			Price:  s.SellPrice,
			Amount: s.Amount,
			Gain:   s.Gain,
		})
	}
}
