package wallet

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
)

type Sale struct {
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
	Amount    decimal.Decimal
	Gain      decimal.Decimal
}

type Snapshot struct {
	Capital  decimal.Decimal
	Gains    decimal.Decimal
	Holdings []Position
}

// CostBasis is the capital locked in open positions at their buy prices.
func (s Snapshot) CostBasis() decimal.Decimal {
	return costBasis(s.Holdings)
}

type Wallet struct {
	capital  decimal.Decimal
	gains    decimal.Decimal
	holdings holdings
}

func New(capital decimal.Decimal) (*Wallet, error) {
	if capital.IsNegative() {
		return nil, fmt.Errorf("%w: starting capital cannot be negative: %s", ErrInvalidArgument, capital)
	}

	return &Wallet{capital: capital}, nil
}

func (w *Wallet) Capital() decimal.Decimal {
	return w.capital
}

func (w *Wallet) Gains() decimal.Decimal {
	return w.gains
}

// Held returns the amount held at exactly the given buy price.
func (w *Wallet) Held(price decimal.Decimal) decimal.Decimal {
	return w.holdings.amount(price)
}

func (w *Wallet) Holdings() []Position {
	return w.holdings.snapshot()
}

func (w *Wallet) CostBasis() decimal.Decimal {
	return costBasis(w.holdings)
}

func (w *Wallet) Snapshot() Snapshot {
	return Snapshot{
		Capital:  w.capital,
		Gains:    w.gains,
		Holdings: w.holdings.snapshot(),
	}
}

// Buy reports false without touching the wallet when the cost exceeds the
// available capital.
func (w *Wallet) Buy(price, amount decimal.Decimal) (bool, error) {
	if !price.IsPositive() {
		return false, fmt.Errorf("%w: buy price must be positive: %s", ErrInvalidArgument, price)
	}
	if !amount.IsPositive() {
		return false, fmt.Errorf("%w: buy amount must be positive: %s", ErrInvalidArgument, amount)
	}

	cost := price.Mul(amount)
	if cost.GreaterThan(w.capital) {
		return false, nil
	}

	w.capital = w.capital.Sub(cost)
	w.holdings.add(price, amount)
	return true, nil
}

func (w *Wallet) Sell(buyPrice, sellPrice, amount decimal.Decimal) (Sale, error) {
	if !buyPrice.IsPositive() {
		return Sale{}, fmt.Errorf("%w: buy price must be positive: %s", ErrInvalidArgument, buyPrice)
	}
	if !sellPrice.IsPositive() {
		return Sale{}, fmt.Errorf("%w: sell price must be positive: %s", ErrInvalidArgument, sellPrice)
	}
	if !amount.IsPositive() {
		return Sale{}, fmt.Errorf("%w: sell amount must be positive: %s", ErrInvalidArgument, amount)
	}

	if !w.holdings.remove(buyPrice, amount) {
		return Sale{}, fmt.Errorf("%w: cannot sell %s bought at %s, holding %s",
			ErrInsufficientHoldings, amount, buyPrice, w.holdings.amount(buyPrice))
	}

	gain := sellPrice.Sub(buyPrice).Mul(amount)
	w.capital = w.capital.Add(sellPrice.Mul(amount))
	w.gains = w.gains.Add(gain)

	return Sale{
		BuyPrice:  buyPrice,
		SellPrice: sellPrice,
		Amount:    amount,
		Gain:      gain,
	}, nil
}

// TakeProfits sells, in full, every position bought at least minProfit below
// sellPrice. Positions are taken from a snapshot made before the first sale,
// in ascending buy price order.
func (w *Wallet) TakeProfits(sellPrice, minProfit decimal.Decimal) ([]Sale, error) {
	if !sellPrice.IsPositive() {
		return nil, fmt.Errorf("%w: sell price must be positive: %s", ErrInvalidArgument, sellPrice)
	}
	if !minProfit.IsPositive() {
		return nil, fmt.Errorf("%w: min profit must be positive: %s", ErrInvalidArgument, minProfit)
	}

	var sales []Sale
	for _, p := range w.holdings.snapshot() {
		if sellPrice.Sub(p.BuyPrice).LessThan(minProfit) {
			continue
		}

		s, err := w.Sell(p.BuyPrice, sellPrice, p.Amount)
		if err != nil {
			return sales, fmt.Errorf("failed to take profit on position bought at %s: %w", p.BuyPrice, err)
		}
		sales = append(sales, s)
	}

	return sales, nil
}

func costBasis(positions []Position) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range positions {
		sum = sum.Add(p.BuyPrice.Mul(p.Amount))
	}
	return sum
}
