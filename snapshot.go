package valuation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/valuation/date"
)

// AssetStatus is the current state of one asset in the snapshot.
type AssetStatus struct {
	Asset     string
	Count     float64
	UnitValue Money
	Value     Money
	Cost      Money
	Profit    Money
}

// GroupStatus is the aggregated current value of one configured group.
type GroupStatus struct {
	Group string
	Value Money
}

// Snapshot is the most recent row of a valuation table plus group-level
// aggregates, the terminal artifact of a run.
type Snapshot struct {
	On       date.Date
	Currency string
	Assets   []AssetStatus // in table column order
	Groups   []GroupStatus // sorted by group name
	Value    Money
	Cost     Money
	Profit   Money
	Drawdown float64
}

// groupOf returns the single group claiming 'asset' in the membership map,
// or a *UnknownAssetGroupError when the asset is in zero or several groups.
func groupOf(groups map[string][]string, asset string) (string, error) {
	var found []string
	for group, members := range groups {
		if slices.Contains(members, asset) {
			found = append(found, group)
		}
	}
	if len(found) != 1 {
		slices.Sort(found) // deterministic error message
		return "", &UnknownAssetGroupError{Asset: asset, Groups: found}
	}
	return found[0], nil
}

// NewSnapshot extracts the latest row of the valuation table and aggregates
// asset values into the configured groups. Group membership must be a strict
// partition: an asset in zero or several groups yields a
// *UnknownAssetGroupError.
func NewSnapshot(t *ValuationTable, groups map[string][]string, currency string) (*Snapshot, error) {
	n := t.Len()
	if n == 0 {
		return nil, fmt.Errorf("cannot snapshot an empty valuation table")
	}
	last := n - 1
	p := t.Portfolio()
	s := &Snapshot{
		On:       t.Day(last),
		Currency: currency,
		Value:    M(p.Value[last], currency),
		Cost:     M(p.Cost[last], currency),
		Profit:   M(p.Profit[last], currency),
		Drawdown: p.Drawdown[last],
	}

	groupValues := make(map[string]float64, len(groups))
	for _, asset := range t.Assets() {
		group, err := groupOf(groups, asset)
		if err != nil {
			return nil, err
		}
		series := t.Asset(asset)
		groupValues[group] += series.Value[last]
		s.Assets = append(s.Assets, AssetStatus{
			Asset:     asset,
			Count:     series.Count[last],
			UnitValue: M(series.UnitValue[last], currency),
			Value:     M(series.Value[last], currency),
			Cost:      M(series.Cost[last], currency),
			Profit:    M(series.Profit[last], currency),
		})
	}
	for group, value := range groupValues {
		s.Groups = append(s.Groups, GroupStatus{Group: group, Value: M(value, currency)})
	}
	slices.SortFunc(s.Groups, func(a, b GroupStatus) int {
		return strings.Compare(a.Group, b.Group)
	})
	return s, nil
}
