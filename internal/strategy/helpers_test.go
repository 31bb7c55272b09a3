package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/gamma-omg/coin-backtest/internal/market"
	"github.com/gamma-omg/coin-backtest/internal/wallet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const seriesStart = 1514764800

func series(prices ...float64) []market.PricePoint {
	points := make([]market.PricePoint, len(prices))
	for i, p := range prices {
		ts := int64(seriesStart + 60*i)
		if math.IsNaN(p) {
			points[i] = market.PricePoint{Time: time.Unix(ts, 0).UTC()}
			continue
		}
		points[i] = market.NewPricePoint(ts, p)
	}
	return points
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func assertDecimal(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s, got %s", want, got)
}

// assertConserved checks that no money appeared outside of realized gains.
func assertConserved(t *testing.T, res Result) {
	t.Helper()

	s := res.Final
	assertDecimal(t, res.StartCapital.Add(s.Gains), s.Capital.Add(s.CostBasis()))
	assert.False(t, s.Capital.IsNegative())
	for _, p := range s.Holdings {
		assert.True(t, p.Amount.IsPositive())
	}
}

type seqRand struct {
	vals  []float64
	calls int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.calls%len(r.vals)]
	r.calls++
	return v
}

func assertPosition(t *testing.T, price, amount decimal.Decimal, p wallet.Position) {
	t.Helper()
	assertDecimal(t, price, p.BuyPrice)
	assertDecimal(t, amount, p.Amount)
}
