package report

import (
	"time"

	"github.com/gamma-omg/coin-backtest/internal/market"
	"github.com/gamma-omg/coin-backtest/internal/strategy"
	"github.com/gamma-omg/coin-backtest/internal/wallet"
	"github.com/shopspring/decimal"
)

const seriesStart = 1514764800

func at(i int) time.Time {
	return time.Unix(int64(seriesStart+60*i), 0).UTC()
}

func series(prices ...float64) []market.PricePoint {
	points := make([]market.PricePoint, len(prices))
	for i, p := range prices {
		points[i] = market.NewPricePoint(at(i).Unix(), p)
	}
	return points
}

func sampleResult() strategy.Result {
	return strategy.Result{
		Name:         "buylow_sellhigh",
		Kind:         strategy.KindBuyLowSellHigh,
		StartCapital: decimal.NewFromInt(1000),
		Final: wallet.Snapshot{
			Capital: decimal.NewFromInt(1050),
			Gains:   decimal.NewFromInt(100),
			Holdings: []wallet.Position{
				{BuyPrice: decimal.NewFromInt(50), Amount: decimal.NewFromInt(1)},
			},
		},
		Trades: []market.Trade{
			{Time: at(0), Side: market.SideBuy, Price: decimal.NewFromInt(100), Amount: decimal.NewFromInt(1)},
			{Time: at(1), Side: market.SideSell, Price: decimal.NewFromInt(200), Amount: decimal.NewFromInt(1), Gain: decimal.NewFromInt(100)},
			{Time: at(2), Side: market.SideBuy, Price: decimal.NewFromInt(50), Amount: decimal.NewFromInt(1)},
		},
		Refused: 1,
	}
}
