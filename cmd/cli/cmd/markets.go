// Package cmd - markets command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// marketsCmd represents the markets command
var marketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "List the markets in the active rate book",
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := loadBook()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, code := range book.Codes() {
			t, err := book.Tariff(code)
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "%s  %s, rate %s, %dg billing increment\n",
				t.Code, t.Currency, t.ExchangeRate, t.IncrementGrams)
			for _, zone := range t.ZoneList() {
				rate, err := t.ZoneRate(zone)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "  zone %d  base %s + %s per unit\n", zone, rate.Base, rate.StepRate)
			}
			for _, ch := range t.ChannelList() {
				if !ch.IsBulk() {
					continue
				}
				rate, err := t.BulkRate(ch)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "  %-6s  %s/kg, min %s kg\n", ch, rate.PerKg, rate.MinKg)
			}
		}
		return nil
	},
}
