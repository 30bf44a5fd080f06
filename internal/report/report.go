// Package report renders run results as validation data JSON and reads it
// back for the flatten, diff and browse commands.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"tzvalidate/internal/fixture"
	"tzvalidate/internal/oracle"
	"tzvalidate/internal/sample"
)

// ValidationData is the collection of all zones and their test items.
type ValidationData struct {
	StartYear         int      `json:"start_year"`
	UntilYear         int      `json:"until_year"`
	EpochYear         int      `json:"epoch_year"`
	Scope             string   `json:"scope"`
	Source            string   `json:"source"`
	Version           string   `json:"version"`
	TzVersion         string   `json:"tz_version"`
	HasValidAbbrev    bool     `json:"has_valid_abbrev"`
	HasValidDst       bool     `json:"has_valid_dst"`
	OffsetGranularity int      `json:"offset_granularity"`
	RunID             string   `json:"run_id,omitempty"`
	TestData          TestData `json:"test_data"`
}

// TestData maps zone names to their entries.
type TestData map[string]TestEntry

// TestEntry splits a zone's items into transitions and samples.
type TestEntry struct {
	Transitions []TestItem `json:"transitions"`
	Samples     []TestItem `json:"samples"`
}

// TestItem is the wire form of a sample.Item. Epoch is relative to the
// report's epoch year.
type TestItem struct {
	Epoch       int64  `json:"epoch"`
	TotalOffset int    `json:"total_offset"`
	DstOffset   int    `json:"dst_offset"`
	Year        int    `json:"y"`
	Month       int    `json:"M"`
	Day         int    `json:"d"`
	Hour        int    `json:"h"`
	Minute      int    `json:"m"`
	Second      int    `json:"s"`
	Abbrev      string `json:"abbrev"`
	Type        string `json:"type"`
	Resolution  string `json:"resolution,omitempty"`
}

// Header is the run metadata written alongside the items.
type Header struct {
	StartYear int
	UntilYear int
	EpochYear int
	RunID     string
	Source    oracle.SourceInfo
}

// EpochOffset returns the Unix seconds of January 1 of epochYear, UTC.
func EpochOffset(epochYear int) int64 {
	return time.Date(epochYear, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
}

// NewTestItem converts a sample to its wire form.
func NewTestItem(it sample.Item, epochYear int) TestItem {
	ti := TestItem{
		Epoch:       it.Instant - EpochOffset(epochYear),
		TotalOffset: it.TotalOffset,
		DstOffset:   it.DSTOffset,
		Year:        it.Local.Year,
		Month:       it.Local.Month,
		Day:         it.Local.Day,
		Hour:        it.Local.Hour,
		Minute:      it.Local.Minute,
		Second:      it.Local.Second,
		Abbrev:      it.Abbrev,
		Type:        string(it.Kind),
	}
	if it.Resolution == oracle.Overlap {
		ti.Resolution = string(it.Resolution)
	}
	return ti
}

// Build assembles the report for a run. With sorted set, each list is
// ordered by epoch; otherwise scan order is kept.
func Build(h Header, res *fixture.Result, sorted bool) *ValidationData {
	vd := &ValidationData{
		StartYear:         h.StartYear,
		UntilYear:         h.UntilYear,
		EpochYear:         h.EpochYear,
		Scope:             "complete",
		Source:            h.Source.Source,
		Version:           h.Source.Version,
		TzVersion:         h.Source.TzVersion,
		HasValidAbbrev:    h.Source.HasValidAbbrev,
		HasValidDst:       h.Source.HasValidDST,
		OffsetGranularity: h.Source.OffsetGranularity,
		RunID:             h.RunID,
		TestData:          make(TestData, len(res.Zones)),
	}
	for _, z := range res.Zones {
		entry := TestEntry{Transitions: []TestItem{}, Samples: []TestItem{}}
		for _, it := range z.Store.Items() {
			ti := NewTestItem(it, h.EpochYear)
			if it.Kind.IsTransition() {
				entry.Transitions = append(entry.Transitions, ti)
			} else {
				entry.Samples = append(entry.Samples, ti)
			}
		}
		if sorted {
			SortItems(entry.Transitions)
			SortItems(entry.Samples)
		}
		vd.TestData[z.Name] = entry
	}
	return vd
}

// SortItems orders items by epoch, keeping the relative order of equal ones.
func SortItems(items []TestItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Epoch < items[j].Epoch })
}

// Zones returns the zone names in lexical order.
func (vd *ValidationData) Zones() []string {
	names := make([]string, 0, len(vd.TestData))
	for z := range vd.TestData {
		names = append(names, z)
	}
	sort.Strings(names)
	return names
}

// Encode writes vd as indented JSON.
func Encode(w io.Writer, vd *ValidationData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(vd); err != nil {
		return fmt.Errorf("encode validation data: %w", err)
	}
	return nil
}

// ErrItemType is returned by Decode for an item whose type code is unknown
// or sits in the wrong list.
var ErrItemType = errors.New("unexpected item type")

// Decode reads validation data JSON.
func Decode(r io.Reader) (*ValidationData, error) {
	var vd ValidationData
	if err := json.NewDecoder(r).Decode(&vd); err != nil {
		return nil, fmt.Errorf("decode validation data: %w", err)
	}
	if vd.TestData == nil {
		vd.TestData = TestData{}
	}
	for zone, e := range vd.TestData {
		if err := checkTypes(zone, "transitions", e.Transitions, true); err != nil {
			return nil, err
		}
		if err := checkTypes(zone, "samples", e.Samples, false); err != nil {
			return nil, err
		}
	}
	return &vd, nil
}

func checkTypes(zone, list string, items []TestItem, transitions bool) error {
	for i, it := range items {
		k := sample.Kind(it.Type)
		if !k.Valid() || k.IsTransition() != transitions {
			return fmt.Errorf("%w: %s %s[%d] has type %q", ErrItemType, zone, list, i, it.Type)
		}
	}
	return nil
}
