// Package sample holds the records emitted for a zone and the append-only
// store that collects them.
package sample

import (
	"fmt"

	"tzvalidate/internal/oracle"
)

// MaxAbbrevLen bounds the stored abbreviation, in bytes.
const MaxAbbrevLen = 7

// Kind says why a sample was taken.
type Kind string

// Kinds use the single-letter codes of the validation data format.
const (
	OvertBefore           Kind = "A"
	OvertAfter            Kind = "B"
	SilentBefore          Kind = "a"
	SilentAfter           Kind = "b"
	MonthlyCanary         Kind = "S"
	MonthlyCanaryFallback Kind = "T"
	YearEndCanary         Kind = "Y"
)

var kindNames = map[Kind]string{
	OvertBefore:           "overt-before",
	OvertAfter:            "overt-after",
	SilentBefore:          "silent-before",
	SilentAfter:           "silent-after",
	MonthlyCanary:         "monthly-canary",
	MonthlyCanaryFallback: "monthly-canary-fallback",
	YearEndCanary:         "year-end-canary",
}

// String returns the descriptive name of the kind.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%q)", string(k))
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// IsTransition reports whether the kind belongs to a transition pair.
func (k Kind) IsTransition() bool {
	switch k {
	case OvertBefore, OvertAfter, SilentBefore, SilentAfter:
		return true
	}
	return false
}

// Item is one sampled instant with everything the oracle reported for it.
type Item struct {
	Instant     int64 // Unix seconds
	TotalOffset int
	DSTOffset   int
	Local       oracle.Civil
	Abbrev      string
	Kind        Kind
	// Resolution records how a canary's local time resolved; empty for
	// transition items.
	Resolution oracle.Resolution
}

// Build queries the oracle for instant and returns a complete item. Nothing
// is returned unless both queries succeed.
func Build(o oracle.Oracle, instant int64, kind Kind) (Item, error) {
	off, err := o.OffsetsAt(instant)
	if err != nil {
		return Item{}, fmt.Errorf("offsets at %d: %w", instant, err)
	}
	local, err := o.CivilAt(instant)
	if err != nil {
		return Item{}, fmt.Errorf("civil fields at %d: %w", instant, err)
	}
	return Item{
		Instant:     instant,
		TotalOffset: off.Total,
		DSTOffset:   off.DST,
		Local:       local,
		Abbrev:      normalizeAbbrev(off.Abbrev, off.Total),
		Kind:        kind,
	}, nil
}

// normalizeAbbrev keeps abbreviations non-empty and bounded. An empty
// abbreviation becomes the numeric offset, e.g. "+0530".
func normalizeAbbrev(abbrev string, total int) string {
	if abbrev == "" {
		sign := '+'
		if total < 0 {
			sign = '-'
			total = -total
		}
		abbrev = fmt.Sprintf("%c%02d%02d", sign, total/3600, total%3600/60)
	}
	if len(abbrev) > MaxAbbrevLen {
		abbrev = abbrev[:MaxAbbrevLen]
	}
	return abbrev
}
