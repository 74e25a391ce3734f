package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/etnz/valuation"
)

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "display the current portfolio status" }
func (*statusCmd) Usage() string {
	return `pval status

  Runs the valuation pipeline and prints the most recent portfolio state:
  portfolio totals, group values, and per-asset holdings.
`
}

func (*statusCmd) SetFlags(*flag.FlagSet) {}

func (*statusCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	_, table, err := runPipeline(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	s, err := valuation.NewSnapshot(table, cfg.Groups, cfg.AnalysisCurrency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Portfolio status on %s (%s)\n\n", s.On, s.Currency)
	fmt.Printf("  Value:    %s\n", s.Value)
	fmt.Printf("  Cost:     %s\n", s.Cost)
	fmt.Printf("  Profit:   %s\n", s.Profit)
	fmt.Printf("  Drawdown: %.2f%%\n\n", s.Drawdown*100)

	w := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tVALUE")
	for _, g := range s.Groups {
		fmt.Fprintf(w, "%s\t%s\n", g.Group, g.Value)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "ASSET\tCOUNT\tUNIT\tVALUE\tCOST\tPROFIT")
	for _, a := range s.Assets {
		fmt.Fprintf(w, "%s\t%g\t%s\t%s\t%s\t%s\n", a.Asset, a.Count, a.UnitValue, a.Value, a.Cost, a.Profit)
	}
	w.Flush()
	return subcommands.ExitSuccess
}
