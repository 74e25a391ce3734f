package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/valuation"
	"github.com/etnz/valuation/date"
)

const eodhdAPIKeyEnv = "EODHD_API_KEY"

type fetchCmd struct {
	apiKey string
	latest bool
}

func (*fetchCmd) Name() string { return "fetch" }
func (*fetchCmd) Synopsis() string {
	return "download daily prices and exchange rates into the local market data store"
}
func (*fetchCmd) Usage() string {
	return `pval fetch [-latest]

  Downloads, for every configured asset, the daily close series since the
  first transaction date, and for every payment currency the daily exchange
  rate to the analysis currency. The result is written to the market data
  store file, so later 'compute' and 'status' runs work offline.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.apiKey, "eodhd-api-key", "", "EODHD API key. If missing it is read from the environment variable "+eodhdAPIKeyEnv+". You can get one at https://eodhd.com/")
	f.BoolVar(&c.latest, "latest", false, "Also fetch today's live quote for each asset.")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.apiKey == "" {
		c.apiKey = os.Getenv(eodhdAPIKeyEnv)
	}
	if c.apiKey == "" {
		fmt.Fprintf(os.Stderr, "Error: no EODHD API key, set -eodhd-api-key or %s\n", eodhdAPIKeyEnv)
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	prices := valuation.NewPriceTable()
	for _, asset := range cfg.Assets {
		h, err := valuation.FetchDaily(c.apiKey, asset.Ticker, cfg.FirstTransaction)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		if c.latest {
			if quote, err := valuation.FetchLatest(c.apiKey, asset.Ticker); err != nil {
				logger.Warn().Str("asset", asset.Name).Err(err).Msg("no live quote")
			} else {
				h.Append(date.Today(), quote)
			}
		}
		logger.Info().Str("asset", asset.Name).Int("days", h.Len()).Msg("fetched prices")
		prices.AddHistory(asset.Name, h)
	}

	rates := valuation.NewRateTable()
	rates.AddIdentity(cfg.AnalysisCurrency, cfg.FirstTransaction)
	for _, currency := range cfg.Currencies() {
		if currency == cfg.AnalysisCurrency {
			continue
		}
		pair := currency + cfg.AnalysisCurrency
		h, err := valuation.FetchDaily(c.apiKey, valuation.ForexSymbol(pair), cfg.FirstTransaction)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		logger.Info().Str("pair", pair).Int("days", h.Len()).Msg("fetched rates")
		rates.AddHistory(pair, h)
	}

	out, err := os.Create(cfg.MarketFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating market data %q: %v\n", cfg.MarketFile, err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := valuation.EncodeMarket(out, prices, rates); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing market data %q: %v\n", cfg.MarketFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully wrote market data to %s\n", cfg.MarketFile)
	return subcommands.ExitSuccess
}
