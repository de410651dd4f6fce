package calc

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"shipquote/internal/market"
)

func tariff(t *testing.T, code market.Code) market.Tariff {
	t.Helper()
	tr, err := market.DefaultBook().Tariff(code)
	if err != nil {
		t.Fatalf("load tariff %s: %v", code, err)
	}
	return tr
}

func TestShipping_StandardChannelThailandZone1(t *testing.T) {
	th := tariff(t, market.Thailand)

	// 100g at 10g increments: 23 baht base + 10 steps × 1 baht.
	cost, err := Shipping(th, market.Standard, 1, d("0.1"), 10)
	if err != nil {
		t.Fatalf("Shipping returned error: %v", err)
	}

	decEqual(t, "local", cost.Local, "33")
	decEqual(t, "reference", cost.Reference, "6.6")
}

func TestShipping_StandardChannelMonotonicInWeight(t *testing.T) {
	th := tariff(t, market.Thailand)

	prev := decimal.NewFromInt(-1)
	for steps := int64(0); steps <= 50; steps++ {
		kg := decimal.NewFromInt(steps * 10).Div(decimal.NewFromInt(1000))
		cost, err := Shipping(th, market.Standard, 2, kg, steps)
		if err != nil {
			t.Fatalf("Shipping(steps=%d) returned error: %v", steps, err)
		}
		if cost.Local.LessThan(prev) {
			t.Fatalf("cost decreased at steps=%d: %s < %s", steps, cost.Local, prev)
		}
		prev = cost.Local
	}
}

func TestShipping_BulkChannelFloorsAtMinimumWeight(t *testing.T) {
	th := tariff(t, market.Thailand)

	// Land to TH: 6.5 CNY/kg, 10kg minimum.
	below, err := Shipping(th, market.Land, 0, d("2"), 0)
	if err != nil {
		t.Fatalf("Shipping below minimum returned error: %v", err)
	}
	atMin, err := Shipping(th, market.Land, 0, d("10"), 0)
	if err != nil {
		t.Fatalf("Shipping at minimum returned error: %v", err)
	}

	decEqual(t, "below-minimum reference", below.Reference, "65")
	if !below.Reference.Equal(atMin.Reference) {
		t.Fatalf("cost below minimum (%s) != cost at minimum (%s)", below.Reference, atMin.Reference)
	}

	above, err := Shipping(th, market.Land, 0, d("12"), 0)
	if err != nil {
		t.Fatalf("Shipping above minimum returned error: %v", err)
	}
	decEqual(t, "above-minimum reference", above.Reference, "78")
	decEqual(t, "above-minimum local", above.Local, "390")
}

func TestShipping_BulkChannelIgnoresZone(t *testing.T) {
	th := tariff(t, market.Thailand)

	a, err := Shipping(th, market.Air, 1, d("6"), 0)
	if err != nil {
		t.Fatalf("Shipping zone 1 returned error: %v", err)
	}
	b, err := Shipping(th, market.Air, 99, d("6"), 0)
	if err != nil {
		t.Fatalf("Shipping zone 99 returned error: %v", err)
	}

	if !a.Reference.Equal(b.Reference) {
		t.Fatalf("bulk cost depends on zone: %s vs %s", a.Reference, b.Reference)
	}
	decEqual(t, "air reference", a.Reference, "84")
}

func TestShipping_UnknownZoneFailsFast(t *testing.T) {
	my := tariff(t, market.Malaysia)

	_, err := Shipping(my, market.Standard, 4, d("0.5"), 50)
	if !errors.Is(err, market.ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
}

func TestShipping_UnofferedBulkChannelFailsFast(t *testing.T) {
	ph := tariff(t, market.Philippines)

	_, err := Shipping(ph, market.Land, 0, d("20"), 0)
	if !errors.Is(err, market.ErrUnknownChannel) {
		t.Fatalf("expected ErrUnknownChannel, got %v", err)
	}
}
