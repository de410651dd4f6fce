package calc

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CompetitorPrice is an observed price point in local currency.
type CompetitorPrice struct {
	Label      string          `json:"label"`
	LocalPrice decimal.Decimal `json:"local_price"`
}

// Comparison is the implied economics of selling at one competitor's price.
type Comparison struct {
	Label      string          `json:"label"`
	LocalPrice decimal.Decimal `json:"local_price"`

	// ImpliedProfit is the reference-currency profit of selling at this
	// price point with our total cost and platform fee.
	ImpliedProfit decimal.Decimal `json:"implied_profit"`

	// ImpliedMarginPct is profit as a percentage of the price. It is
	// undefined for a zero price; check MarginDefined before use.
	ImpliedMarginPct decimal.Decimal `json:"implied_margin_pct"`
	MarginDefined    bool            `json:"margin_defined"`
}

// MarketComparison aggregates the per-competitor rows.
type MarketComparison struct {
	Rows []Comparison `json:"rows"`

	// AverageLocal is the unweighted mean of the competitor prices.
	AverageLocal decimal.Decimal `json:"average_local"`
}

// Compare computes, for each observed competitor price, the profit and
// margin we would realize selling at that price with our cost structure,
// plus the average observed price. A zero competitor price yields a row
// with MarginDefined=false rather than a division failure.
func Compare(prices []CompetitorPrice, totalCostReference, feePct, exchangeRate decimal.Decimal) (MarketComparison, error) {
	if !exchangeRate.IsPositive() {
		return MarketComparison{}, fmt.Errorf("exchange rate must be positive, got %s", exchangeRate)
	}

	feeFraction := feePct.Div(hundred)

	out := MarketComparison{Rows: make([]Comparison, 0, len(prices))}
	sum := decimal.Zero
	for _, p := range prices {
		reference := p.LocalPrice.Div(exchangeRate)
		profit := reference.Sub(totalCostReference).Sub(reference.Mul(feeFraction))

		row := Comparison{
			Label:         p.Label,
			LocalPrice:    p.LocalPrice,
			ImpliedProfit: profit,
		}
		if !reference.IsZero() {
			row.ImpliedMarginPct = profit.Div(reference).Mul(hundred)
			row.MarginDefined = true
		}
		out.Rows = append(out.Rows, row)
		sum = sum.Add(p.LocalPrice)
	}

	if len(prices) > 0 {
		out.AverageLocal = sum.Div(decimal.NewFromInt(int64(len(prices))))
	}
	return out, nil
}
