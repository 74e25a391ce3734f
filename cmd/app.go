// Package cmd implements the CLI application to value a portfolio.
package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/etnz/valuation"
)

// Commands returns the subcommands of the application.
// A main package will call Commands() to register them, and Execute() on the user-selected one.
func Commands() []subcommands.Command {
	return []subcommands.Command{
		&fetchCmd{},
		&computeCmd{},
		&statusCmd{},
		&historyCmd{},
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "valuation.json", "Path to the portfolio configuration file (JSON format)")

// logger reports run progress on stderr; results go to stdout or to the
// configured output files.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// LoadConfig reads and validates the portfolio configuration.
func LoadConfig() (*valuation.Config, error) {
	content, err := os.ReadFile(*configFile)
	if err != nil {
		return nil, fmt.Errorf("cannot read configuration %q: %w", *configFile, err)
	}
	var cfg valuation.Config
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse configuration %q: %w", *configFile, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %q: %w", *configFile, err)
	}
	return &cfg, nil
}

// loadMarket reads the local market data store declared in the configuration.
func loadMarket(cfg *valuation.Config) (*valuation.PriceTable, *valuation.RateTable, error) {
	f, err := os.Open(cfg.MarketFile)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open market data %q (run 'fetch' first): %w", cfg.MarketFile, err)
	}
	defer f.Close()
	prices, rates, err := valuation.DecodeMarket(f)
	if err != nil {
		return nil, nil, err
	}
	// The identity pair keeps same-currency conversions on the uniform path
	// even for hand-built stores that omit it.
	rates.AddIdentity(cfg.AnalysisCurrency, cfg.FirstTransaction)
	return prices, rates, nil
}

// runPipeline executes the full valuation pipeline: decode the sources,
// merge them with market data, and valuate.
func runPipeline(cfg *valuation.Config) (*valuation.EventTable, *valuation.ValuationTable, error) {
	prices, rates, err := loadMarket(cfg)
	if err != nil {
		return nil, nil, err
	}

	assets := cfg.AssetNames()
	sources := make([][]valuation.TransactionRecord, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		f, err := os.Open(src.File)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open source %q: %w", src.Name, err)
		}
		records, err := valuation.DecodeTransactions(f, src, assets)
		f.Close()
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("source", src.Name).Int("transactions", len(records)).Msg("decoded source")
		sources = append(sources, records)
	}

	currencies := make(map[string]string, len(cfg.Assets))
	for _, a := range cfg.Assets {
		currencies[a.Name] = a.Currency
	}
	merger := &valuation.Merger{
		AnalysisCurrency: cfg.AnalysisCurrency,
		AssetCurrencies:  currencies,
		Rates:            rates,
		FirstTransaction: cfg.FirstTransaction,
	}
	events, err := merger.Merge(prices, sources...)
	if err != nil {
		return nil, nil, err
	}
	table := valuation.Valuate(events)
	logger.Info().Int("events", events.Len()).Int("days", table.Len()).Msg("valuation computed")
	return events, table, nil
}
