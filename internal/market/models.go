package market

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PricePoint struct {
	Time  time.Time
	Price decimal.NullDecimal
}

func NewPricePoint(ts int64, price float64) PricePoint {
	return PricePoint{
		Time:  time.Unix(ts, 0).UTC(),
		Price: decimal.NewNullDecimal(decimal.NewFromFloat(price)),
	}
}

// Valid reports whether the point carries a usable (present, positive) price.
func (p PricePoint) Valid() bool {
	return p.Price.Valid && p.Price.Decimal.IsPositive()
}

type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return fmt.Sprintf("side_%d", int(s))
	}
}

type Trade struct {
	Time   time.Time
	Side   Side
	Price  decimal.Decimal
	Amount decimal.Decimal
	Gain   decimal.Decimal
}
