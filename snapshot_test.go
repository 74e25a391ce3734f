package valuation

import (
	"errors"
	"testing"
)

func TestNewSnapshot(t *testing.T) {
	v := Valuate(setupScenario(t))
	groups := map[string][]string{
		"Stocks": {"X"},
		"Funds":  {"Y"},
	}
	s, err := NewSnapshot(v, groups, "EUR")
	if err != nil {
		t.Fatalf("NewSnapshot() failed: %v", err)
	}

	if s.On != day("2025-01-03") {
		t.Errorf("On = %s, want 2025-01-03", s.On)
	}
	if !s.Value.Equal(EUR(900)) {
		t.Errorf("Value = %s, want €900", s.Value)
	}
	if !s.Cost.Equal(EUR(1005)) {
		t.Errorf("Cost = %s, want €1005", s.Cost)
	}
	if !s.Profit.Equal(EUR(-105)) {
		t.Errorf("Profit = %s, want €-105", s.Profit)
	}
	if s.Drawdown != -0.25 {
		t.Errorf("Drawdown = %v, want -0.25", s.Drawdown)
	}

	if len(s.Assets) != 2 {
		t.Fatalf("got %d asset statuses, want 2", len(s.Assets))
	}
	x := s.Assets[0]
	if x.Asset != "X" || x.Count != 10 || !x.Value.Equal(EUR(900)) {
		t.Errorf("asset X status = %+v", x)
	}

	// Groups come out sorted by name.
	if len(s.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(s.Groups))
	}
	if s.Groups[0].Group != "Funds" || s.Groups[1].Group != "Stocks" {
		t.Errorf("group order = [%s %s], want [Funds Stocks]", s.Groups[0].Group, s.Groups[1].Group)
	}
	if !s.Groups[1].Value.Equal(EUR(900)) {
		t.Errorf("Stocks value = %s, want €900", s.Groups[1].Value)
	}
	if !s.Groups[0].Value.Equal(EUR(0)) {
		t.Errorf("Funds value = %s, want €0", s.Groups[0].Value)
	}
}

func TestNewSnapshotGroupPartition(t *testing.T) {
	v := Valuate(setupScenario(t))

	tests := []struct {
		name   string
		groups map[string][]string
		asset  string
	}{
		{
			name:   "asset in no group",
			groups: map[string][]string{"Stocks": {"X"}},
			asset:  "Y",
		},
		{
			name:   "asset in two groups",
			groups: map[string][]string{"Stocks": {"X", "Y"}, "Funds": {"Y"}},
			asset:  "Y",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSnapshot(v, tt.groups, "EUR")
			var unknown *UnknownAssetGroupError
			if !errors.As(err, &unknown) {
				t.Fatalf("NewSnapshot() error = %v, want *UnknownAssetGroupError", err)
			}
			if unknown.Asset != tt.asset {
				t.Errorf("offending asset = %q, want %q", unknown.Asset, tt.asset)
			}
		})
	}
}

func TestNewSnapshotEmptyTable(t *testing.T) {
	v := Valuate(&EventTable{assets: []string{"X"}})
	if _, err := NewSnapshot(v, map[string][]string{"Stocks": {"X"}}, "EUR"); err == nil {
		t.Fatal("NewSnapshot() accepted an empty valuation table")
	}
}
