// Package calc implements the pricing core: chargeable weight resolution,
// shipping cost, recommended selling price, and competitor comparison. All
// functions are pure; callers recompute on every input change.
package calc

import "github.com/shopspring/decimal"

// volumetricDivisor converts cm³ to kg. Fixed across markets and channels.
var volumetricDivisor = decimal.NewFromInt(6000)

var (
	thousand = decimal.NewFromInt(1000)
	hundred  = decimal.NewFromInt(100)
	one      = decimal.NewFromInt(1)
	two      = decimal.NewFromInt(2)
)

// ResolveWeight returns the volumetric weight (L×W×H/6000) and the raw
// chargeable weight, the greater of actual and volumetric.
//
// Inputs are not validated: negative or zero dimensions propagate
// arithmetically, so a non-positive volumetric weight simply leaves the
// actual weight as the chargeable weight. Callers own input validation.
func ResolveWeight(actualKg, lengthCm, widthCm, heightCm decimal.Decimal) (volumetricKg, chargeableKg decimal.Decimal) {
	volumetricKg = lengthCm.Mul(widthCm).Mul(heightCm).Div(volumetricDivisor)
	chargeableKg = decimal.Max(actualKg, volumetricKg)
	return volumetricKg, chargeableKg
}

// BillableWeight rounds the chargeable weight up to the market's billing
// increment and returns the rounded weight together with the number of
// increment units, the step count used by the banded standard tariff.
// Rounding an already-aligned weight is a no-op.
func BillableWeight(chargeableKg decimal.Decimal, incrementGrams int64) (billableKg decimal.Decimal, unitSteps int64) {
	increment := decimal.NewFromInt(incrementGrams)
	steps := chargeableKg.Mul(thousand).Div(increment).Ceil()
	return steps.Mul(increment).Div(thousand), steps.IntPart()
}
