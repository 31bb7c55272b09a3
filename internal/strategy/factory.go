package strategy

import (
	"fmt"
	"math/rand/v2"

	"github.com/gamma-omg/coin-backtest/internal/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func Create(capital float64, ref config.StrategyReference, log *zap.Logger) ([]Strategy, error) {
	return create(capital, ref, kindOf(ref), log)
}

// create names single runs after base; buy_random trials get a -<trial> suffix.
func create(capital float64, ref config.StrategyReference, base string, log *zap.Logger) ([]Strategy, error) {
	start := decimal.NewFromFloat(capital)

	switch cfg := ref.Strategy.(type) {
	case config.MaxGain:
		s, err := NewMaxGainStrategy(base, start, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create max gain strategy: %w", err)
		}
		return []Strategy{s}, nil

	case config.BuyLowSellHigh:
		s, err := NewIntervalTrader(base, start, IntervalParams{
			IntervalSize: decimal.NewFromFloat(cfg.IntervalSize),
			MaxPrice:     decimal.NewFromFloat(cfg.MaxPrice),
			BuySize:      decimal.NewFromFloat(cfg.BuySize),
			MinProfit:    decimal.NewFromFloat(cfg.MinProfit),
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create interval strategy: %w", err)
		}
		return []Strategy{s}, nil

	case config.BuyRandom:
		params := RandomParams{
			Chance:    cfg.Chance,
			MaxPrice:  decimal.NewFromFloat(cfg.MaxPrice),
			BuySize:   decimal.NewFromFloat(cfg.BuySize),
			MinProfit: decimal.NewFromFloat(cfg.MinProfit),
		}

		trials := max(cfg.Trials, 1)
		res := make([]Strategy, 0, trials)
		for i := range trials {
			name := base
			if trials > 1 {
				name = fmt.Sprintf("%s-%d", base, i)
			}

			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
			s, err := NewRandomBuyer(name, start, params, rng, log)
			if err != nil {
				return nil, fmt.Errorf("failed to create random strategy: %w", err)
			}
			res = append(res, s)
		}
		return res, nil
	}

	return nil, fmt.Errorf("unknown strategy: %v", ref)
}

// CreateAll builds every configured strategy. When a kind is configured more
// than once its runs are named <kind>.<index> so names stay unique.
func CreateAll(cfg config.Config, log *zap.Logger) ([]Strategy, error) {
	kinds := map[string]int{}
	for _, ref := range cfg.Strategies {
		kinds[kindOf(ref)]++
	}

	var res []Strategy
	for i, ref := range cfg.Strategies {
		base := kindOf(ref)
		if kinds[base] > 1 {
			base = fmt.Sprintf("%s.%d", base, i)
		}

		s, err := create(cfg.Capital, ref, base, log)
		if err != nil {
			return nil, fmt.Errorf("strategies[%d]: %w", i, err)
		}
		res = append(res, s...)
	}

	return res, nil
}

func kindOf(ref config.StrategyReference) string {
	switch ref.Strategy.(type) {
	case config.MaxGain:
		return KindMaxGain
	case config.BuyLowSellHigh:
		return KindBuyLowSellHigh
	case config.BuyRandom:
		return KindBuyRandom
	default:
		return ""
	}
}
