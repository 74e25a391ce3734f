package valuation

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/Rhymond/go-money"
	"github.com/etnz/valuation/date"
)

// currencyCodeRegex checks for the format: 3 uppercase letters.
var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrency checks that a string is a well-formed, known ISO 4217
// currency code.
func ValidateCurrency(code string) error {
	if !currencyCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid currency format: must be 3 uppercase letters, got %q", code)
	}
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency code %q", code)
	}
	return nil
}

// Asset declares one security of the portfolio: the name used in transaction
// files and reports, the ticker used to fetch its price series, and the
// currency its prices are quoted in.
type Asset struct {
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
	Currency string `json:"currency"`
}

// ColumnSpec maps a source-specific column name to the currency of the
// amounts it holds.
type ColumnSpec struct {
	Column   string `json:"column"`
	Currency string `json:"currency"`
}

// Source declares one broker transaction file and the source-specific
// semantics of its payment columns.
type Source struct {
	Name        string     `json:"name"`
	File        string     `json:"file"`
	Transaction ColumnSpec `json:"transaction"`
	Fee         ColumnSpec `json:"fee"`
}

// Config is the immutable configuration surface of a valuation run. It is
// constructed once at startup (by the CLI, from a JSON file) and passed by
// reference into each component; the core performs no file or flag parsing
// itself.
type Config struct {
	// AnalysisCurrency is the single currency in which all values are
	// ultimately expressed.
	AnalysisCurrency string `json:"analysis_currency"`
	// Assets lists the securities of the portfolio.
	Assets []Asset `json:"assets"`
	// Groups maps a group name (e.g. an asset class) to the names of its
	// member assets. Membership must be a strict partition of Assets.
	Groups map[string][]string `json:"groups"`
	// Sources lists the broker transaction files to merge.
	Sources []Source `json:"sources"`
	// FirstTransaction is the cutoff: price history before that date is
	// discarded, so the valuation starts at the real (or chosen) beginning
	// of the portfolio.
	FirstTransaction date.Date `json:"first_transaction"`
	// MarketFile is the local JSONL store of fetched price and rate series.
	MarketFile string `json:"market_file"`
	// OutputDir receives the three CSV exports.
	OutputDir string `json:"output_dir"`
}

// AssetNames returns the configured asset names, in declaration order.
func (c *Config) AssetNames() []string {
	names := make([]string, 0, len(c.Assets))
	for _, a := range c.Assets {
		names = append(names, a.Name)
	}
	return names
}

// Asset returns the declaration of the named asset, or nil if unknown.
func (c *Config) Asset(name string) *Asset {
	for i := range c.Assets {
		if c.Assets[i].Name == name {
			return &c.Assets[i]
		}
	}
	return nil
}

// Currencies returns the distinct currencies appearing anywhere in the
// configuration: asset quote currencies, payment and fee currencies, and the
// analysis currency itself.
func (c *Config) Currencies() []string {
	var currencies []string
	add := func(cur string) {
		if cur != "" && !slices.Contains(currencies, cur) {
			currencies = append(currencies, cur)
		}
	}
	add(c.AnalysisCurrency)
	for _, a := range c.Assets {
		add(a.Currency)
	}
	for _, s := range c.Sources {
		add(s.Transaction.Currency)
		add(s.Fee.Currency)
	}
	return currencies
}

// GroupOf returns the single group the named asset belongs to. It returns a
// *UnknownAssetGroupError when the asset is in zero or several groups.
func (c *Config) GroupOf(asset string) (string, error) {
	return groupOf(c.Groups, asset)
}

// Validate checks the configuration for coherence: known currencies, unique
// asset names, complete source column mappings, and a strict group partition
// (every asset in exactly one group, no member naming an unknown asset).
func (c *Config) Validate() error {
	if err := ValidateCurrency(c.AnalysisCurrency); err != nil {
		return fmt.Errorf("invalid analysis currency: %w", err)
	}
	if len(c.Assets) == 0 {
		return fmt.Errorf("no assets configured")
	}
	seen := make(map[string]bool, len(c.Assets))
	for _, a := range c.Assets {
		if a.Name == "" {
			return fmt.Errorf("asset with empty name")
		}
		if seen[a.Name] {
			return fmt.Errorf("asset %q declared twice", a.Name)
		}
		seen[a.Name] = true
		if a.Ticker == "" {
			return fmt.Errorf("asset %q has no ticker", a.Name)
		}
		if err := ValidateCurrency(a.Currency); err != nil {
			return fmt.Errorf("asset %q: %w", a.Name, err)
		}
	}
	for _, s := range c.Sources {
		if s.File == "" {
			return fmt.Errorf("source %q has no file", s.Name)
		}
		if s.Transaction.Column == "" || s.Fee.Column == "" {
			return fmt.Errorf("source %q must map both a transaction and a fee column", s.Name)
		}
		if err := ValidateCurrency(s.Transaction.Currency); err != nil {
			return fmt.Errorf("source %q transaction column: %w", s.Name, err)
		}
		if err := ValidateCurrency(s.Fee.Currency); err != nil {
			return fmt.Errorf("source %q fee column: %w", s.Name, err)
		}
	}
	if c.FirstTransaction.IsZero() {
		return fmt.Errorf("first transaction date is not set")
	}
	// groups must reference known assets only
	for group, members := range c.Groups {
		for _, m := range members {
			if !seen[m] {
				return fmt.Errorf("group %q names unknown asset %q", group, m)
			}
		}
	}
	// and form a strict partition of the assets
	for _, a := range c.Assets {
		if _, err := c.GroupOf(a.Name); err != nil {
			return err
		}
	}
	return nil
}
