package calc

import (
	"testing"

	"github.com/shopspring/decimal"

	"shipquote/internal/market"
)

func TestPrice_MarginBasedPricing(t *testing.T) {
	th := tariff(t, market.Thailand)

	// 20 + 6.6 = 26.6 total; divisor = 1 - 0.08 - 0.30 = 0.62.
	q := Price(th, d("20"), d("6.6"), d("30"), d("8"))

	decEqual(t, "totalCost", q.TotalCost, "26.6")
	decNear(t, "sellingReference", q.SellingReference, "42.903225806451613")
	decNear(t, "netProfit", q.NetProfit, "12.870967741935484")
	if q.FallbackApplied {
		t.Fatalf("fallback applied with healthy divisor")
	}

	// selling × (1 − fee − margin) must reconstruct the total cost.
	back := q.SellingReference.Mul(d("0.62"))
	decNear(t, "selling×divisor", back, "26.6")
}

func TestPrice_NetProfitIdentity(t *testing.T) {
	th := tariff(t, market.Thailand)

	for _, margin := range []string{"-10", "0", "15", "30", "60", "95"} {
		q := Price(th, d("50"), d("7.5"), d(margin), d("5"))
		want := q.SellingReference.Mul(d(margin).Div(decimal.NewFromInt(100)))
		if !q.NetProfit.Equal(want) {
			t.Fatalf("margin=%s: netProfit = %s, want selling×fraction = %s", margin, q.NetProfit, want)
		}
	}
}

func TestPrice_DegenerateFallbackDoublesCost(t *testing.T) {
	th := tariff(t, market.Thailand)

	// margin 70% + fee 30%: divisor is exactly 0.
	q := Price(th, d("20"), d("6.6"), d("70"), d("30"))

	decEqual(t, "sellingReference", q.SellingReference, "53.2")
	if !q.FallbackApplied {
		t.Fatalf("expected fallback for zero divisor")
	}
	decEqual(t, "netProfit", q.NetProfit, "37.24")
}

func TestPrice_FallbackBoundaryIsExact(t *testing.T) {
	th := tariff(t, market.Thailand)

	// divisor = 0.05 exactly: fallback applies (the rule is divisor > 0.05).
	at := Price(th, d("10"), d("0"), d("50"), d("45"))
	if !at.FallbackApplied {
		t.Fatalf("divisor = 0.05 must use the fallback price")
	}
	decEqual(t, "selling at boundary", at.SellingReference, "20")

	// divisor = 0.051: margin-based pricing applies.
	above := Price(th, d("10"), d("0"), d("50"), d("44.9"))
	if above.FallbackApplied {
		t.Fatalf("divisor = 0.051 must not use the fallback price")
	}
	decNear(t, "selling just above boundary", above.SellingReference, "196.078431372549020")

	// Fee + margin beyond 100%: still the fallback, never an error.
	beyond := Price(th, d("10"), d("0"), d("80"), d("40"))
	if !beyond.FallbackApplied {
		t.Fatalf("negative divisor must use the fallback price")
	}
	decEqual(t, "selling beyond 100%", beyond.SellingReference, "20")
}

func TestPrice_NegativeMarginSellsBelowCost(t *testing.T) {
	th := tariff(t, market.Thailand)

	q := Price(th, d("100"), d("0"), d("-10"), d("0"))

	// divisor = 1.1, so the recommended price undercuts cost.
	decNear(t, "sellingReference", q.SellingReference, "90.909090909090909")
	if !q.SellingReference.LessThan(q.TotalCost) {
		t.Fatalf("selling %s not below cost %s with negative margin", q.SellingReference, q.TotalCost)
	}
	if !q.NetProfit.IsNegative() {
		t.Fatalf("netProfit = %s, want negative", q.NetProfit)
	}
}

func TestPrice_LocalConversionWithoutRounding(t *testing.T) {
	th := tariff(t, market.Thailand)

	q := Price(th, d("20"), d("6.6"), d("30"), d("8"))
	decNear(t, "sellingLocal", q.SellingLocal, "214.516129032258065")
}

func TestPrice_VietnamRoundsLocalUpToHundred(t *testing.T) {
	vn := tariff(t, market.Vietnam)

	// 10 / 0.7 × 3500 = 50000 exactly; the rounded price must not move.
	exact := Price(vn, d("10"), d("0"), d("20"), d("10"))
	decEqual(t, "sellingLocal (aligned)", exact.SellingLocal, "50000")

	// 10.01 / 0.7 × 3500 = 50050: rounds up to 50100.
	up := Price(vn, d("10.01"), d("0"), d("20"), d("10"))
	decEqual(t, "sellingLocal (rounded up)", up.SellingLocal, "50100")
	if up.SellingLocal.LessThan(up.SellingReference.Mul(vn.ExchangeRate)) {
		t.Fatalf("local rounding must never round down")
	}
}
