// Package cmd provides the CLI commands for shipquote.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shipquote/internal/logging"
	"shipquote/internal/market"
)

var (
	ratesFile string
	verbose   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shipquote",
	Short: "Compute cross-border shipping costs and retail prices",
	Long: `shipquote computes landed shipping cost and a margin-derived retail
price for cross-border e-commerce listings.

Examples:
  shipquote quote --market TH --channel standard --zone 1 --weight 0.1 --length 10 --width 10 --height 5 --cost 20 --margin 30 --fee 8
  shipquote quote --market VN --channel sea --weight 120 --cost 300 --margin 25 --fee 6
  shipquote markets`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&ratesFile, "rates", "", "JSON rate book overriding the built-in tables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(marketsCmd)
	rootCmd.AddCommand(versionCmd)
}

func initLogging() {
	level := "warn"
	if verbose {
		level = "debug"
	}
	logging.Init(level)
}

// loadBook resolves the rate book for a command run.
func loadBook() (*market.Book, error) {
	if ratesFile == "" {
		return market.DefaultBook(), nil
	}
	book, err := market.LoadBook(ratesFile)
	if err != nil {
		return nil, fmt.Errorf("load rate book %s: %w", ratesFile, err)
	}
	return book, nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "shipquote version 0.1.0")
	},
}
