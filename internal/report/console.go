package report

import (
	"fmt"
	"io"

	"github.com/gamma-omg/coin-backtest/internal/strategy"
	"github.com/olekukonko/tablewriter"
)

type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// PrintRun prints the final holdings of a run followed by its capital and gains.
func (c *Console) PrintRun(res strategy.Result) error {
	fmt.Fprintf(c.out, "\n== %s ==\n", res.Name)

	if len(res.Final.Holdings) > 0 {
		tbl := tablewriter.NewWriter(c.out)
		tbl.Header("Buy price", "Amount", "Cost")
		for _, p := range res.Final.Holdings {
			err := tbl.Append(
				p.BuyPrice.StringFixed(2),
				p.Amount.String(),
				p.BuyPrice.Mul(p.Amount).StringFixed(2),
			)
			if err != nil {
				return fmt.Errorf("failed to append holding of %s: %w", res.Name, err)
			}
		}
		if err := tbl.Render(); err != nil {
			return fmt.Errorf("failed to render holdings of %s: %w", res.Name, err)
		}
	} else {
		fmt.Fprintln(c.out, "  no holdings")
	}

	fmt.Fprintf(c.out, "  Capital: %s\n", res.Final.Capital.StringFixed(2))
	fmt.Fprintf(c.out, "  Gains:   %s (%.2f%%)\n", res.Final.Gains.StringFixed(2), res.GainPct()*100)
	if res.Refused > 0 {
		fmt.Fprintf(c.out, "  Refused: %d\n", res.Refused)
	}

	return nil
}

// PrintSummary prints one row per run.
func (c *Console) PrintSummary(results []strategy.Result) error {
	tbl := tablewriter.NewWriter(c.out)
	tbl.Header("Run", "Strategy", "Capital", "Gains", "Gain %", "Trades", "Held")

	for _, r := range results {
		err := tbl.Append(
			r.Name,
			r.Kind,
			r.Final.Capital.StringFixed(2),
			r.Final.Gains.StringFixed(2),
			fmt.Sprintf("%.2f", r.GainPct()*100),
			fmt.Sprintf("%d", len(r.Trades)),
			fmt.Sprintf("%d", len(r.Final.Holdings)),
		)
		if err != nil {
			return fmt.Errorf("failed to append summary of %s: %w", r.Name, err)
		}
	}

	fmt.Fprintln(c.out)
	if err := tbl.Render(); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}

	return nil
}
