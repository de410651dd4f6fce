// Package market holds the per-market tariff book: exchange rates, the
// zone-banded standard channel coefficients, bulk per-kg rates, and the
// billing rules (increment, local price rounding) that vary by market.
//
// Tariffs are data, not code. Lookups never fall back to a default table:
// an unknown market, zone, or channel is a configuration error.
package market

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Code identifies a destination market.
type Code string

const (
	Thailand    Code = "TH"
	Malaysia    Code = "MY"
	Philippines Code = "PH"
	Vietnam     Code = "VN"
)

// Channel identifies a shipping channel. The standard channel is priced per
// zone with a base fee plus a per-increment surcharge; the bulk channels are
// flat per-kilogram with a minimum billable weight.
type Channel string

const (
	Standard Channel = "standard"
	Land     Channel = "land"
	Air      Channel = "air"
	Sea      Channel = "sea"
)

// IsBulk reports whether the channel bills flat per kilogram.
func (c Channel) IsBulk() bool {
	return c == Land || c == Air || c == Sea
}

// Valid reports whether c is a recognized channel tag.
func (c Channel) Valid() bool {
	return c == Standard || c.IsBulk()
}

// Zone is a geographic tariff bracket within a market. Valid members depend
// on the market; zone 1 is always the cheapest bracket.
type Zone int

var (
	ErrUnknownMarket  = errors.New("unknown market")
	ErrUnknownZone    = errors.New("zone not configured for market")
	ErrUnknownChannel = errors.New("channel not configured for market")
)

// ZoneRate holds the standard-channel coefficients for one zone, in local
// currency: cost = Base + unitSteps*StepRate.
type ZoneRate struct {
	Base     decimal.Decimal `json:"base"`
	StepRate decimal.Decimal `json:"step_rate"`
}

// BulkRate holds a flat per-kg rate in the reference currency and the
// minimum billable weight for one bulk channel.
type BulkRate struct {
	PerKg decimal.Decimal `json:"per_kg"`
	MinKg decimal.Decimal `json:"min_kg"`
}

// Tariff is the complete rate configuration for one market.
type Tariff struct {
	Code     Code   `json:"code"`
	Currency string `json:"currency"`

	// ExchangeRate is local currency units per 1 reference currency unit.
	ExchangeRate decimal.Decimal `json:"exchange_rate"`

	// IncrementGrams is the billing increment for the standard channel.
	// Chargeable weight is rounded up to this before banding.
	IncrementGrams int64 `json:"increment_grams"`

	// RoundLocalTo rounds the local selling price up to the nearest
	// multiple. Zero disables rounding.
	RoundLocalTo int64 `json:"round_local_to"`

	Zones map[Zone]ZoneRate    `json:"zones"`
	Bulk  map[Channel]BulkRate `json:"bulk"`
}

// ZoneRate returns the standard-channel coefficients for z.
func (t Tariff) ZoneRate(z Zone) (ZoneRate, error) {
	zr, ok := t.Zones[z]
	if !ok {
		return ZoneRate{}, fmt.Errorf("%w: market %s has no zone %d", ErrUnknownZone, t.Code, z)
	}
	return zr, nil
}

// BulkRate returns the flat per-kg rate for a bulk channel.
func (t Tariff) BulkRate(c Channel) (BulkRate, error) {
	br, ok := t.Bulk[c]
	if !ok {
		return BulkRate{}, fmt.Errorf("%w: market %s does not offer %q", ErrUnknownChannel, t.Code, c)
	}
	return br, nil
}

// ZoneList returns the configured zones in ascending order.
func (t Tariff) ZoneList() []Zone {
	zones := make([]Zone, 0, len(t.Zones))
	for z := range t.Zones {
		zones = append(zones, z)
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i] < zones[j] })
	return zones
}

// ChannelList returns the configured channels, standard first.
func (t Tariff) ChannelList() []Channel {
	channels := []Channel{Standard}
	for _, c := range []Channel{Land, Air, Sea} {
		if _, ok := t.Bulk[c]; ok {
			channels = append(channels, c)
		}
	}
	return channels
}

func (t Tariff) validate() error {
	if t.Code == "" {
		return fmt.Errorf("tariff without market code")
	}
	if t.Currency == "" {
		return fmt.Errorf("market %s: missing currency", t.Code)
	}
	if !t.ExchangeRate.IsPositive() {
		return fmt.Errorf("market %s: exchange rate must be positive, got %s", t.Code, t.ExchangeRate)
	}
	if t.IncrementGrams <= 0 {
		return fmt.Errorf("market %s: billing increment must be positive, got %d", t.Code, t.IncrementGrams)
	}
	if t.RoundLocalTo < 0 {
		return fmt.Errorf("market %s: round_local_to must not be negative, got %d", t.Code, t.RoundLocalTo)
	}
	if len(t.Zones) == 0 {
		return fmt.Errorf("market %s: at least one zone is required", t.Code)
	}
	for z, zr := range t.Zones {
		if z <= 0 {
			return fmt.Errorf("market %s: invalid zone %d", t.Code, z)
		}
		if zr.Base.IsNegative() || zr.StepRate.IsNegative() {
			return fmt.Errorf("market %s zone %d: negative coefficient", t.Code, z)
		}
	}
	for c, br := range t.Bulk {
		if !c.IsBulk() {
			return fmt.Errorf("market %s: %q is not a bulk channel", t.Code, c)
		}
		if br.PerKg.IsNegative() {
			return fmt.Errorf("market %s channel %s: negative per-kg rate", t.Code, c)
		}
		if br.MinKg.IsNegative() {
			return fmt.Errorf("market %s channel %s: negative minimum weight", t.Code, c)
		}
	}
	return nil
}

// Book is a validated, read-only collection of tariffs.
type Book struct {
	tariffs map[Code]Tariff
}

// NewBook validates the given tariffs and returns a Book. A broken table is
// rejected here so that a misconfiguration surfaces at startup, not in the
// middle of a quote.
func NewBook(tariffs []Tariff) (*Book, error) {
	if len(tariffs) == 0 {
		return nil, fmt.Errorf("rate book is empty")
	}
	byCode := make(map[Code]Tariff, len(tariffs))
	for _, t := range tariffs {
		if err := t.validate(); err != nil {
			return nil, err
		}
		if _, dup := byCode[t.Code]; dup {
			return nil, fmt.Errorf("duplicate tariff for market %s", t.Code)
		}
		byCode[t.Code] = t
	}
	return &Book{tariffs: byCode}, nil
}

// Tariff returns the tariff for code, or ErrUnknownMarket.
func (b *Book) Tariff(code Code) (Tariff, error) {
	t, ok := b.tariffs[code]
	if !ok {
		return Tariff{}, fmt.Errorf("%w: %q", ErrUnknownMarket, code)
	}
	return t, nil
}

// Codes returns the configured market codes in stable order.
func (b *Book) Codes() []Code {
	codes := make([]Code, 0, len(b.tariffs))
	for c := range b.tariffs {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
