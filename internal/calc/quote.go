package calc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"shipquote/internal/market"
)

// Inputs is the full input tuple of one quote computation.
type Inputs struct {
	Market  market.Code    `json:"market"`
	Channel market.Channel `json:"channel"`
	Zone    market.Zone    `json:"zone"`

	ActualWeightKg decimal.Decimal `json:"actual_weight_kg"`
	LengthCm       decimal.Decimal `json:"length_cm"`
	WidthCm        decimal.Decimal `json:"width_cm"`
	HeightCm       decimal.Decimal `json:"height_cm"`

	// GoodsCost is in the reference currency.
	GoodsCost       decimal.Decimal `json:"goods_cost"`
	TargetMarginPct decimal.Decimal `json:"target_margin_pct"`
	PlatformFeePct  decimal.Decimal `json:"platform_fee_pct"`

	Competitors []CompetitorPrice `json:"competitors,omitempty"`
}

// Result is the derived quote. It is recomputed wholesale from Inputs on
// every change; nothing here is cached or partially invalidated.
type Result struct {
	Market   market.Code    `json:"market"`
	Currency string         `json:"currency"`
	Channel  market.Channel `json:"channel"`
	Zone     market.Zone    `json:"zone"`

	VolumetricKg decimal.Decimal `json:"volumetric_kg"`
	ChargeableKg decimal.Decimal `json:"chargeable_kg"`
	UnitSteps    int64           `json:"unit_steps"`

	ShippingLocal     decimal.Decimal `json:"shipping_local"`
	ShippingReference decimal.Decimal `json:"shipping_reference"`

	TotalCost        decimal.Decimal `json:"total_cost"`
	SellingReference decimal.Decimal `json:"selling_reference"`
	SellingLocal     decimal.Decimal `json:"selling_local"`
	NetProfit        decimal.Decimal `json:"net_profit"`
	FallbackApplied  bool            `json:"fallback_applied"`

	Comparison *MarketComparison `json:"comparison,omitempty"`
}

// Calculator computes quotes against a validated rate book.
type Calculator struct {
	book *market.Book
}

// NewCalculator returns a Calculator backed by book.
func NewCalculator(book *market.Book) *Calculator {
	return &Calculator{book: book}
}

// Book exposes the underlying rate book.
func (c *Calculator) Book() *market.Book {
	return c.book
}

// Compute runs the whole pipeline: weight resolution, shipping, pricing,
// and, when competitor prices are supplied, the market comparison. It is a
// pure function of in; an unknown market/zone/channel combination is the
// only error condition.
func (c *Calculator) Compute(in Inputs) (Result, error) {
	tariff, err := c.book.Tariff(in.Market)
	if err != nil {
		return Result{}, err
	}
	if !in.Channel.Valid() {
		return Result{}, fmt.Errorf("%w: %q", market.ErrUnknownChannel, in.Channel)
	}

	volumetric, chargeable := ResolveWeight(in.ActualWeightKg, in.LengthCm, in.WidthCm, in.HeightCm)
	billable, steps := BillableWeight(chargeable, tariff.IncrementGrams)

	shipping, err := Shipping(tariff, in.Channel, in.Zone, billable, steps)
	if err != nil {
		return Result{}, err
	}

	price := Price(tariff, in.GoodsCost, shipping.Reference, in.TargetMarginPct, in.PlatformFeePct)

	res := Result{
		Market:            in.Market,
		Currency:          tariff.Currency,
		Channel:           in.Channel,
		Zone:              in.Zone,
		VolumetricKg:      volumetric,
		ChargeableKg:      billable,
		UnitSteps:         steps,
		ShippingLocal:     shipping.Local,
		ShippingReference: shipping.Reference,
		TotalCost:         price.TotalCost,
		SellingReference:  price.SellingReference,
		SellingLocal:      price.SellingLocal,
		NetProfit:         price.NetProfit,
		FallbackApplied:   price.FallbackApplied,
	}

	if len(in.Competitors) > 0 {
		cmp, err := Compare(in.Competitors, price.TotalCost, in.PlatformFeePct, tariff.ExchangeRate)
		if err != nil {
			return Result{}, err
		}
		res.Comparison = &cmp
	}

	return res, nil
}
