package market

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPoint struct {
	ts    int64
	price float64
}

func toPoints(in []testPoint) []PricePoint {
	points := make([]PricePoint, len(in))
	for i, p := range in {
		points[i] = NewPricePoint(p.ts, p.price)
	}
	return points
}

func TestDownsample(t *testing.T) {
	tbl := []struct {
		interval time.Duration
		in       []testPoint
		out      []testPoint
	}{
		{
			interval: 3 * time.Minute,
			in: []testPoint{
				{0, 1}, {60, 2}, {120, 3}, {180, 4}, {240, 5},
			},
			out: []testPoint{
				{0, 3}, {180, 5},
			},
		},
		{
			interval: time.Hour,
			in: []testPoint{
				{30, 10}, {3599, 11}, {7200, 12},
			},
			out: []testPoint{
				{30, 11}, {7200, 12},
			},
		},
		{
			interval: 0,
			in: []testPoint{
				{1, 1}, {2, 0}, {3, 3},
			},
			out: []testPoint{
				{1, 1}, {3, 3},
			},
		},
		{
			interval: time.Minute,
			in:       []testPoint{},
			out:      []testPoint{},
		},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			out := Downsample(toPoints(c.in), c.interval)
			require.Len(t, out, len(c.out))

			for j, want := range c.out {
				assert.Equal(t, want.ts, out[j].Time.Unix())
				assert.True(t, decimal.NewFromFloat(want.price).Equal(out[j].Price.Decimal))
			}
		})
	}
}

func TestDownsample_skipsMissingPrices(t *testing.T) {
	in := []PricePoint{
		NewPricePoint(0, 5),
		{Time: time.Unix(30, 0)},
		NewPricePoint(600, 7),
	}

	out := Downsample(in, 5*time.Minute)
	require.Len(t, out, 2)
	assert.True(t, decimal.NewFromInt(5).Equal(out[0].Price.Decimal))
	assert.True(t, decimal.NewFromInt(7).Equal(out[1].Price.Decimal))
}
