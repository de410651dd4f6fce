// Package cmd - quote command
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"shipquote/internal/calc"
	"shipquote/internal/market"
)

var (
	quoteMarket      string
	quoteChannel     string
	quoteZone        int
	quoteWeight      string
	quoteLength      string
	quoteWidth       string
	quoteHeight      string
	quoteCost        string
	quoteMargin      string
	quoteFee         string
	quoteCompetitors []string
	quoteAsJSON      bool
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute shipping cost and retail price for one listing",
	Long: `Compute the billable weight, channel shipping cost, and the retail
price implied by the target margin for a single listing.

Dimensions are in centimeters and weights in kilograms. Goods cost is
in the reference currency; the selling price is reported in both the
reference and the destination currency.

Examples:
  shipquote quote --market TH --channel standard --zone 1 --weight 0.1 --length 10 --width 10 --height 5 --cost 20 --margin 30 --fee 8
  shipquote quote --market MY --channel air --weight 12 --cost 80 --margin 25 --fee 6 --competitor "shop A=140" --competitor "shop B=155"`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteMarket, "market", "m", "", "destination market code (TH, MY, PH, VN)")
	quoteCmd.Flags().StringVarP(&quoteChannel, "channel", "c", "standard", "shipping channel (standard, land, air, sea)")
	quoteCmd.Flags().IntVarP(&quoteZone, "zone", "z", 1, "destination zone for the standard channel")
	quoteCmd.Flags().StringVarP(&quoteWeight, "weight", "w", "0", "actual weight in kg")
	quoteCmd.Flags().StringVar(&quoteLength, "length", "0", "parcel length in cm")
	quoteCmd.Flags().StringVar(&quoteWidth, "width", "0", "parcel width in cm")
	quoteCmd.Flags().StringVar(&quoteHeight, "height", "0", "parcel height in cm")
	quoteCmd.Flags().StringVar(&quoteCost, "cost", "0", "goods cost in the reference currency")
	quoteCmd.Flags().StringVar(&quoteMargin, "margin", "0", "target margin percentage")
	quoteCmd.Flags().StringVar(&quoteFee, "fee", "0", "platform fee percentage")
	quoteCmd.Flags().StringArrayVar(&quoteCompetitors, "competitor", nil, `competitor price as "label=price" (repeatable)`)
	quoteCmd.Flags().BoolVar(&quoteAsJSON, "json", false, "print the result as JSON")

	_ = quoteCmd.MarkFlagRequired("market")
}

func runQuote(cmd *cobra.Command, args []string) error {
	book, err := loadBook()
	if err != nil {
		return err
	}

	in, err := buildQuoteInputs()
	if err != nil {
		return err
	}

	res, err := calc.NewCalculator(book).Compute(in)
	if err != nil {
		return err
	}

	if quoteAsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printQuote(cmd.OutOrStdout(), res)
	return nil
}

func buildQuoteInputs() (calc.Inputs, error) {
	in := calc.Inputs{
		Market:  market.Code(strings.ToUpper(strings.TrimSpace(quoteMarket))),
		Channel: market.Channel(strings.ToLower(strings.TrimSpace(quoteChannel))),
		Zone:    market.Zone(quoteZone),
	}

	for _, f := range []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"weight", quoteWeight, &in.ActualWeightKg},
		{"length", quoteLength, &in.LengthCm},
		{"width", quoteWidth, &in.WidthCm},
		{"height", quoteHeight, &in.HeightCm},
		{"cost", quoteCost, &in.GoodsCost},
		{"margin", quoteMargin, &in.TargetMarginPct},
		{"fee", quoteFee, &in.PlatformFeePct},
	} {
		d, err := decimal.NewFromString(f.value)
		if err != nil {
			return calc.Inputs{}, fmt.Errorf("invalid --%s value %q", f.name, f.value)
		}
		*f.dst = d
	}

	competitors, err := parseCompetitorFlags(quoteCompetitors)
	if err != nil {
		return calc.Inputs{}, err
	}
	in.Competitors = competitors

	return in, nil
}

// parseCompetitorFlags parses repeated "label=price" flag values.
func parseCompetitorFlags(values []string) ([]calc.CompetitorPrice, error) {
	if len(values) == 0 {
		return nil, nil
	}

	prices := make([]calc.CompetitorPrice, 0, len(values))
	for _, v := range values {
		label, raw, ok := strings.Cut(v, "=")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, fmt.Errorf(`invalid --competitor value %q, expected "label=price"`, v)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid price in --competitor value %q", v)
		}
		prices = append(prices, calc.CompetitorPrice{Label: label, LocalPrice: price})
	}
	return prices, nil
}

func printQuote(w io.Writer, res calc.Result) {
	fmt.Fprintf(w, "Quote for %s (%s, %s channel", res.Market, res.Currency, res.Channel)
	if !res.Channel.IsBulk() {
		fmt.Fprintf(w, ", zone %d", res.Zone)
	}
	fmt.Fprintln(w, ")")

	fmt.Fprintf(w, "  volumetric weight   %s kg\n", res.VolumetricKg)
	fmt.Fprintf(w, "  chargeable weight   %s kg (%d units)\n", res.ChargeableKg, res.UnitSteps)
	fmt.Fprintf(w, "  shipping            %s %s (%s reference)\n", res.ShippingLocal, res.Currency, res.ShippingReference)
	fmt.Fprintf(w, "  total cost          %s reference\n", res.TotalCost)
	fmt.Fprintf(w, "  selling price       %s %s (%s reference)\n", res.SellingLocal, res.Currency, res.SellingReference)
	fmt.Fprintf(w, "  net profit          %s reference\n", res.NetProfit)
	if res.FallbackApplied {
		fmt.Fprintln(w, "  note: margin and fee left no headroom, price set to 2x cost")
	}

	if res.Comparison == nil {
		return
	}

	fmt.Fprintln(w, "Competitor comparison")
	for _, row := range res.Comparison.Rows {
		if !row.MarginDefined {
			fmt.Fprintf(w, "  %-20s %s %s  (no price, margin undefined)\n", row.Label, row.LocalPrice, res.Currency)
			continue
		}
		fmt.Fprintf(w, "  %-20s %s %s  profit %s, margin %s%%\n",
			row.Label, row.LocalPrice, res.Currency, row.ImpliedProfit, row.ImpliedMarginPct)
	}
	fmt.Fprintf(w, "  market average      %s %s\n", res.Comparison.AverageLocal, res.Currency)
}
