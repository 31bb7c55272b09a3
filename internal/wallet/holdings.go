package wallet

import (
	"slices"

	"github.com/shopspring/decimal"
)

type Position struct {
	BuyPrice decimal.Decimal
	Amount   decimal.Decimal
}

// holdings is kept sorted by buy price; prices are unique.
type holdings []Position

func comparePrice(p Position, price decimal.Decimal) int {
	return p.BuyPrice.Cmp(price)
}

func (h holdings) find(price decimal.Decimal) (int, bool) {
	return slices.BinarySearchFunc(h, price, comparePrice)
}

func (h holdings) amount(price decimal.Decimal) decimal.Decimal {
	i, ok := h.find(price)
	if !ok {
		return decimal.Zero
	}

	return h[i].Amount
}

func (h *holdings) add(price, amount decimal.Decimal) {
	i, ok := h.find(price)
	if ok {
		(*h)[i].Amount = (*h)[i].Amount.Add(amount)
		return
	}

	*h = slices.Insert(*h, i, Position{BuyPrice: price, Amount: amount})
}

func (h *holdings) remove(price, amount decimal.Decimal) bool {
	i, ok := h.find(price)
	if !ok || (*h)[i].Amount.LessThan(amount) {
		return false
	}

	left := (*h)[i].Amount.Sub(amount)
	if left.IsPositive() {
		(*h)[i].Amount = left
		return true
	}

	*h = slices.Delete(*h, i, i+1)
	return true
}

func (h holdings) snapshot() []Position {
	return slices.Clone(h)
}
