package calc

import (
	"github.com/shopspring/decimal"

	"shipquote/internal/market"
)

// degenerateDivisor is the cutoff below which margin-based pricing is
// abandoned. When fee + margin come within 5% of eating the whole selling
// price, the recommended price is twice the total cost instead. Business
// rule, not an error.
var degenerateDivisor = decimal.RequireFromString("0.05")

// PriceQuote is the pricing engine output.
type PriceQuote struct {
	// TotalCost is goods cost plus shipping, reference currency.
	TotalCost decimal.Decimal `json:"total_cost"`

	// SellingReference is the recommended selling price in the
	// reference currency, before local rounding.
	SellingReference decimal.Decimal `json:"selling_reference"`

	// SellingLocal is the recommended selling price converted to local
	// currency and rounded up per the market's rounding policy.
	SellingLocal decimal.Decimal `json:"selling_local"`

	// NetProfit is SellingReference × margin fraction.
	NetProfit decimal.Decimal `json:"net_profit"`

	// FallbackApplied is set when the ×2-of-cost fallback price was
	// used instead of margin-based pricing.
	FallbackApplied bool `json:"fallback_applied"`
}

// Price derives the recommended selling price and net profit.
//
// sellingPrice = totalCost / (1 − fee% − margin%) while the divisor exceeds
// 0.05; at or below that the fallback of totalCost×2 applies. Percentages
// are taken as given: nothing clamps them to [0,100], so a negative margin
// legally yields a price below cost.
func Price(t market.Tariff, goodsCost, shippingReference, marginPct, feePct decimal.Decimal) PriceQuote {
	totalCost := goodsCost.Add(shippingReference)
	marginFraction := marginPct.Div(hundred)

	divisor := one.Sub(feePct.Div(hundred)).Sub(marginFraction)

	var selling decimal.Decimal
	fallback := false
	if divisor.GreaterThan(degenerateDivisor) {
		selling = totalCost.Div(divisor)
	} else {
		selling = totalCost.Mul(two)
		fallback = true
	}

	local := selling.Mul(t.ExchangeRate)
	if t.RoundLocalTo > 0 {
		local = roundUpToMultiple(local, t.RoundLocalTo)
	}

	return PriceQuote{
		TotalCost:        totalCost,
		SellingReference: selling,
		SellingLocal:     local,
		NetProfit:        selling.Mul(marginFraction),
		FallbackApplied:  fallback,
	}
}

func roundUpToMultiple(v decimal.Decimal, multiple int64) decimal.Decimal {
	m := decimal.NewFromInt(multiple)
	return v.Div(m).Ceil().Mul(m)
}
