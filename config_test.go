package valuation

import (
	"encoding/json"
	"testing"

	"github.com/etnz/valuation/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		AnalysisCurrency: "EUR",
		Assets: []Asset{
			{Name: "X", Ticker: "X.PA", Currency: "EUR"},
			{Name: "Y", Ticker: "Y.US", Currency: "USD"},
		},
		Groups: map[string][]string{
			"Stocks": {"X"},
			"Funds":  {"Y"},
		},
		Sources: []Source{{
			Name:        "degiro",
			File:        "degiro.csv",
			Transaction: ColumnSpec{Column: "transaction", Currency: "EUR"},
			Fee:         ColumnSpec{Column: "fee", Currency: "EUR"},
		}},
		FirstTransaction: day("2025-01-01"),
		MarketFile:       "market.jsonl",
		OutputDir:        "out",
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad analysis currency",
			mutate:  func(c *Config) { c.AnalysisCurrency = "euro" },
			wantErr: "invalid analysis currency",
		},
		{
			name:    "unknown analysis currency",
			mutate:  func(c *Config) { c.AnalysisCurrency = "ZZZ" },
			wantErr: "unknown currency code",
		},
		{
			name:    "no assets",
			mutate:  func(c *Config) { c.Assets = nil },
			wantErr: "no assets",
		},
		{
			name:    "duplicate asset",
			mutate:  func(c *Config) { c.Assets = append(c.Assets, c.Assets[0]) },
			wantErr: "declared twice",
		},
		{
			name:    "asset without ticker",
			mutate:  func(c *Config) { c.Assets[0].Ticker = "" },
			wantErr: "has no ticker",
		},
		{
			name:    "source without fee column",
			mutate:  func(c *Config) { c.Sources[0].Fee.Column = "" },
			wantErr: "must map both",
		},
		{
			name:    "missing first transaction",
			mutate:  func(c *Config) { c.FirstTransaction = date.Date{} },
			wantErr: "first transaction date",
		},
		{
			name:    "group names unknown asset",
			mutate:  func(c *Config) { c.Groups["Stocks"] = []string{"X", "Z"} },
			wantErr: "unknown asset",
		},
		{
			name:    "asset in no group",
			mutate:  func(c *Config) { delete(c.Groups, "Funds") },
			wantErr: "",
		},
		{
			name:    "asset in two groups",
			mutate:  func(c *Config) { c.Groups["Funds"] = []string{"X", "Y"} },
			wantErr: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfigAccessors(t *testing.T) {
	c := validConfig()

	assert.Equal(t, []string{"X", "Y"}, c.AssetNames())

	require.NotNil(t, c.Asset("Y"))
	assert.Equal(t, "Y.US", c.Asset("Y").Ticker)
	assert.Nil(t, c.Asset("Z"))

	assert.ElementsMatch(t, []string{"EUR", "USD"}, c.Currencies())

	group, err := c.GroupOf("X")
	require.NoError(t, err)
	assert.Equal(t, "Stocks", group)
}

func TestConfigJSON(t *testing.T) {
	raw := `{
		"analysis_currency": "EUR",
		"assets": [{"name": "X", "ticker": "X.PA", "currency": "EUR"}],
		"groups": {"Stocks": ["X"]},
		"sources": [{
			"name": "degiro",
			"file": "degiro.csv",
			"transaction": {"column": "transaction", "currency": "EUR"},
			"fee": {"column": "fee", "currency": "EUR"}
		}],
		"first_transaction": "2025-01-01",
		"market_file": "market.jsonl",
		"output_dir": "out"
	}`
	var c Config
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	require.NoError(t, c.Validate())
	assert.Equal(t, day("2025-01-01"), c.FirstTransaction)
	assert.Equal(t, "EUR", c.Sources[0].Transaction.Currency)
}

func TestValidateCurrency(t *testing.T) {
	assert.NoError(t, ValidateCurrency("EUR"))
	assert.NoError(t, ValidateCurrency("JPY"))
	assert.Error(t, ValidateCurrency("eur"))
	assert.Error(t, ValidateCurrency("EU"))
	assert.Error(t, ValidateCurrency("ZZZ"))
}
