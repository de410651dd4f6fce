package calc

import (
	"github.com/shopspring/decimal"

	"shipquote/internal/market"
)

// ShippingCost is a shipping price in both currencies.
type ShippingCost struct {
	Local     decimal.Decimal `json:"local"`
	Reference decimal.Decimal `json:"reference"`
}

// Shipping prices the billable weight on the given channel.
//
// The standard channel is banded: zone base plus step rate per billing
// increment, in local currency. Bulk channels bill flat per kilogram in the
// reference currency, flooring the weight at the channel minimum; zone is
// ignored for bulk. Unknown zone or channel combinations are errors.
func Shipping(t market.Tariff, channel market.Channel, zone market.Zone, billableKg decimal.Decimal, unitSteps int64) (ShippingCost, error) {
	if channel == market.Standard {
		zr, err := t.ZoneRate(zone)
		if err != nil {
			return ShippingCost{}, err
		}
		local := zr.Base.Add(zr.StepRate.Mul(decimal.NewFromInt(unitSteps)))
		return ShippingCost{
			Local:     local,
			Reference: local.Div(t.ExchangeRate),
		}, nil
	}

	br, err := t.BulkRate(channel)
	if err != nil {
		return ShippingCost{}, err
	}
	effectiveKg := decimal.Max(billableKg, br.MinKg)
	reference := effectiveKg.Mul(br.PerKg)
	return ShippingCost{
		Local:     reference.Mul(t.ExchangeRate),
		Reference: reference,
	}, nil
}
