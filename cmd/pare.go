package main

import (
	"fmt"

	"github.com/gamma-omg/coin-backtest/internal/market"
	"github.com/spf13/cobra"
)

var (
	pareIn      string
	pareOut     string
	pareMinYear int
)

var pareCmd = &cobra.Command{
	Use:   "pare",
	Short: "Reduce a raw price export to timestamp,price rows",
	Long: `Reduce a raw price export to timestamp,price rows without header
    ex) coin-backtest pare --in ./data/raw.csv --out ./data/btc.csv --min-year 2018`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := market.PareFile(pareIn, pareOut, pareMinYear)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s\n", n, pareOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pareCmd)
	pareCmd.Flags().StringVarP(&pareIn, "in", "i", "", "Raw export path")
	pareCmd.Flags().StringVarP(&pareOut, "out", "o", "", "Output path")
	pareCmd.Flags().IntVar(&pareMinYear, "min-year", 0, "Drop rows before this year")
	pareCmd.MarkFlagRequired("in")
	pareCmd.MarkFlagRequired("out")
}
