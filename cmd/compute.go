package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/etnz/valuation"
)

// File names of the three exported artifacts, as reporting dashboards expect them.
const (
	eventsFile    = "portfolio_data.csv"
	valuationFile = "portfolio_data_calculations.csv"
	statusFile    = "portfolio_status.csv"
)

type computeCmd struct{}

func (*computeCmd) Name() string { return "compute" }
func (*computeCmd) Synopsis() string {
	return "run the full valuation pipeline and write the CSV artifacts"
}
func (*computeCmd) Usage() string {
	return `pval compute

  Decodes every configured broker file, merges the transactions with the
  local market data, runs the valuation engine, and writes three CSV files
  into the output directory: the unified event log, the full valuation
  history, and the current status.
`
}

func (*computeCmd) SetFlags(*flag.FlagSet) {}

func (*computeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	events, table, err := runPipeline(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	snapshot, err := valuation.NewSnapshot(table, cfg.Groups, cfg.AnalysisCurrency)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory %q: %v\n", cfg.OutputDir, err)
		return subcommands.ExitFailure
	}
	exports := []struct {
		name   string
		encode func(f *os.File) error
	}{
		{eventsFile, func(f *os.File) error { return valuation.EncodeEvents(f, events) }},
		{valuationFile, func(f *os.File) error { return valuation.EncodeValuation(f, table) }},
		{statusFile, func(f *os.File) error { return valuation.EncodeSnapshot(f, snapshot) }},
	}
	for _, e := range exports {
		path := filepath.Join(cfg.OutputDir, e.name)
		out, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", path, err)
			return subcommands.ExitFailure
		}
		err = e.encode(out)
		out.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", path, err)
			return subcommands.ExitFailure
		}
		logger.Info().Str("file", path).Msg("written")
	}
	fmt.Printf("Successfully wrote artifacts to %s\n", cfg.OutputDir)
	return subcommands.ExitSuccess
}
