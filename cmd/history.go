package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type historyCmd struct {
	tail int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the portfolio valuation history" }
func (*historyCmd) Usage() string {
	return `pval history [-n <days>]

  Runs the valuation pipeline and prints the portfolio-level history:
  value, cost, profit and drawdown per date.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.tail, "n", 30, "Number of most recent days to display, 0 for all.")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	first := 0
	if c.tail > 0 && table.Len() > c.tail {
		first = table.Len() - c.tail
	}
	p := table.Portfolio()
	w := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tVALUE\tCOST\tPROFIT\tDRAWDOWN")
	for i := first; i < table.Len(); i++ {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f%%\n",
			table.Day(i), p.Value[i], p.Cost[i], p.Profit[i], p.Drawdown[i]*100)
	}
	w.Flush()
	return subcommands.ExitSuccess
}
