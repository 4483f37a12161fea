package service

import (
	"github.com/shopspring/decimal"

	"github.com/mrussa/storefront/internal/repo"
)

const totalPlaces = 2

// Total sums quantity x unit price over items in exact decimal arithmetic
// and rounds once, half to even, to two places. The result does not
// depend on item order.
func Total(items []repo.Item) float64 {
	sum := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.UnitPrice).Mul(decimal.NewFromInt(int64(it.Quantity)))
		sum = sum.Add(line)
	}
	f, _ := sum.RoundBank(totalPlaces).Float64()
	return f
}
