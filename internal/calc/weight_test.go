package calc

import (
	"testing"

	"github.com/shopspring/decimal"
)

func decEqual(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	w := decimal.RequireFromString(want)
	if !got.Equal(w) {
		t.Fatalf("%s = %s, want %s", name, got, w)
	}
}

func decNear(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	w := decimal.RequireFromString(want)
	tol := decimal.RequireFromString("0.000000001")
	if got.Sub(w).Abs().GreaterThan(tol) {
		t.Fatalf("%s = %s, want %s (±%s)", name, got, w, tol)
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestResolveWeight_ActualDominates(t *testing.T) {
	vol, chargeable := ResolveWeight(d("0.1"), d("10"), d("10"), d("5"))

	decNear(t, "volumetricKg", vol, "0.083333333333")
	decEqual(t, "chargeableKg", chargeable, "0.1")
}

func TestResolveWeight_VolumetricDominates(t *testing.T) {
	vol, chargeable := ResolveWeight(d("0.05"), d("20"), d("15"), d("10"))

	decEqual(t, "volumetricKg", vol, "0.5")
	decEqual(t, "chargeableKg", chargeable, "0.5")
}

func TestResolveWeight_NegativeDimensionsPropagate(t *testing.T) {
	// Inputs are not validated; a negative dimension makes the volumetric
	// weight negative and the actual weight wins the max.
	vol, chargeable := ResolveWeight(d("0.3"), d("-10"), d("10"), d("5"))

	if !vol.IsNegative() {
		t.Fatalf("volumetricKg = %s, want negative", vol)
	}
	decEqual(t, "chargeableKg", chargeable, "0.3")
}

func TestResolveWeight_AllZero(t *testing.T) {
	vol, chargeable := ResolveWeight(decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)

	decEqual(t, "volumetricKg", vol, "0")
	decEqual(t, "chargeableKg", chargeable, "0")
}

func TestBillableWeight_AlignedValueIsNoOp(t *testing.T) {
	billable, steps := BillableWeight(d("0.1"), 10)

	decEqual(t, "billableKg", billable, "0.1")
	if steps != 10 {
		t.Fatalf("unitSteps = %d, want 10", steps)
	}
}

func TestBillableWeight_RoundsUpNeverDown(t *testing.T) {
	billable, steps := BillableWeight(d("0.083333333333"), 10)

	decEqual(t, "billableKg", billable, "0.09")
	if steps != 9 {
		t.Fatalf("unitSteps = %d, want 9", steps)
	}
	if billable.LessThan(d("0.083333333333")) {
		t.Fatalf("billable weight %s rounded below chargeable weight", billable)
	}
}

func TestBillableWeight_LegacyHundredGramIncrement(t *testing.T) {
	billable, steps := BillableWeight(d("0.083333333333"), 100)

	decEqual(t, "billableKg", billable, "0.1")
	if steps != 1 {
		t.Fatalf("unitSteps = %d, want 1", steps)
	}

	billable, steps = BillableWeight(d("0.25"), 100)
	decEqual(t, "billableKg", billable, "0.3")
	if steps != 3 {
		t.Fatalf("unitSteps = %d, want 3", steps)
	}
}

func TestBillableWeight_ZeroWeight(t *testing.T) {
	billable, steps := BillableWeight(decimal.Zero, 10)

	decEqual(t, "billableKg", billable, "0")
	if steps != 0 {
		t.Fatalf("unitSteps = %d, want 0", steps)
	}
}
