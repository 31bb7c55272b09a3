package strategy

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/gamma-omg/coin-backtest/internal/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMaxGain_increasing(t *testing.T) {
	for n := 2; n <= 8; n++ {
		t.Run(fmt.Sprintf("case_%d", n), func(t *testing.T) {
			prices := make([]float64, n)
			for i := range prices {
				prices[i] = float64(i + 1)
			}

			gain := MaxGain(series(prices...), dec(1000))
			assertDecimal(t, dec(1000*float64(n-1)), gain)
		})
	}
}

func TestMaxGain(t *testing.T) {
	tbl := []struct {
		prices  []float64
		capital float64
		gain    float64
	}{
		{prices: []float64{5, 4, 3, 2, 1}, capital: 1000, gain: 0},
		{prices: []float64{1, 2, 1, 2}, capital: 100, gain: 300},
		{prices: []float64{1, math.NaN(), 2}, capital: 100, gain: 100},
		{prices: []float64{2, 2, 2}, capital: 100, gain: 0},
		{prices: []float64{4, 2, 4, 3}, capital: 100, gain: 100},
		{prices: []float64{10}, capital: 100, gain: 0},
		{prices: []float64{}, capital: 100, gain: 0},
		{prices: []float64{1, 2, 3}, capital: 0, gain: 0},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			gain := MaxGain(series(c.prices...), dec(c.capital))
			assertDecimal(t, dec(c.gain), gain)
		})
	}
}

func TestMaxGain_divergesWithoutCap(t *testing.T) {
	const rises = 200

	prices := make([]float64, 0, 2*rises)
	for range rises {
		prices = append(prices, 1, 2)
	}

	want := decimal.NewFromInt(1)
	for range rises {
		want = want.Mul(decimal.NewFromInt(2))
	}

	gain := MaxGain(series(prices...), decimal.NewFromInt(1))
	assertDecimal(t, want.Sub(decimal.NewFromInt(1)), gain)
}

func TestMaxGainStrategy_Run(t *testing.T) {
	s, err := NewMaxGainStrategy(KindMaxGain, dec(1000), zap.NewNop())
	require.NoError(t, err)

	res, err := s.Run(context.Background(), series(1, 2, 3, 2, 4))
	require.NoError(t, err)

	assert.Equal(t, KindMaxGain, res.Name)
	assert.Equal(t, KindMaxGain, res.Kind)
	assertDecimal(t, dec(1000), res.StartCapital)
	// buy 1000 @1, sell @3, buy 1500 @2, sell @4
	assertDecimal(t, dec(6000), res.Final.Capital)
	assertDecimal(t, dec(5000), res.Gain())
	assert.Empty(t, res.Final.Holdings)
	assert.InDelta(t, 5.0, res.GainPct(), 1e-9)

	require.Len(t, res.Trades, 4)
	assert.Equal(t, market.SideBuy, res.Trades[0].Side)
	assert.Equal(t, market.SideSell, res.Trades[1].Side)
	assertDecimal(t, dec(2000), res.Trades[1].Gain)
	assertDecimal(t, dec(1500), res.Trades[2].Amount)
	assertDecimal(t, dec(3000), res.Trades[3].Gain)
}

func TestMaxGainStrategy_negativeCapital(t *testing.T) {
	_, err := NewMaxGainStrategy(KindMaxGain, dec(-1), zap.NewNop())
	require.Error(t, err)
}

func TestMaxGainStrategy_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := NewMaxGainStrategy(KindMaxGain, dec(1000), zap.NewNop())
	require.NoError(t, err)

	_, err = s.Run(ctx, series(1, 2, 3))
	assert.ErrorIs(t, err, context.Canceled)
}
