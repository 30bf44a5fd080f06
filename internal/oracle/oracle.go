// Package oracle defines the offset oracle a zone is sampled against and the
// backends that provide it.
package oracle

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrZoneNotFound is returned by Backend.Bind when the zone name is unknown.
	ErrZoneNotFound = errors.New("zone not found")
	// ErrZoneData signals that the oracle cannot resolve instants for a zone at all.
	ErrZoneData = errors.New("zone data unusable")
	// ErrUnresolved is returned when a single query cannot be answered.
	ErrUnresolved = errors.New("oracle query unresolved")
	// ErrGap is returned by InstantFromLocal when the local time was skipped.
	ErrGap = errors.New("local time falls in a gap")
)

// Offsets is what the oracle reports for an absolute instant.
type Offsets struct {
	Total  int    // seconds east of UTC
	DST    int    // daylight portion of Total
	Abbrev string // e.g. "PST"
}

// Civil holds local calendar fields.
type Civil struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// Date returns the civil fields at midnight.
func Date(year, month, day int) Civil {
	return Civil{Year: year, Month: month, Day: day}
}

// Seconds returns the fields interpreted as a UTC wall clock, in Unix seconds.
func (c Civil) Seconds() int64 {
	return time.Date(c.Year, time.Month(c.Month), c.Day, c.Hour, c.Minute, c.Second, 0, time.UTC).Unix()
}

// Valid reports whether the fields name a real calendar date and clock time.
func (c Civil) Valid() bool {
	if c.Month < 1 || c.Month > 12 || c.Day < 1 || c.Hour < 0 || c.Hour > 23 ||
		c.Minute < 0 || c.Minute > 59 || c.Second < 0 || c.Second > 59 {
		return false
	}
	return civilFromSeconds(c.Seconds()) == c
}

func (c Civil) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
}

func civilFromSeconds(s int64) Civil {
	t := time.Unix(s, 0).UTC()
	return Civil{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// Resolution classifies how a local datetime maps to absolute instants.
type Resolution string

const (
	Exact   Resolution = "exact"
	Gap     Resolution = "gap"
	Overlap Resolution = "overlap"
)

// Oracle answers offset queries for one bound zone.
type Oracle interface {
	// OffsetsAt reports the offsets in effect at the Unix instant.
	OffsetsAt(unix int64) (Offsets, error)
	// CivilAt reports the local calendar fields of the Unix instant.
	CivilAt(unix int64) (Civil, error)
	// Classify reports whether the local datetime is exact, a gap, or an overlap.
	Classify(c Civil) (Resolution, error)
	// InstantFromLocal resolves the local datetime, picking the earlier
	// instant on overlap and failing with ErrGap on a gap.
	InstantFromLocal(c Civil) (int64, error)
}

// SourceInfo describes a backend for the report header.
type SourceInfo struct {
	Source            string
	Version           string
	TzVersion         string
	HasValidAbbrev    bool
	HasValidDST       bool
	OffsetGranularity int
}

// Backend binds zone names to oracles.
type Backend interface {
	Bind(zone string) (Oracle, error)
	Info() SourceInfo
}
