package oracle

import (
	"fmt"
	"sort"
)

// Period is the offset state of a zone between two transitions.
type Period struct {
	Std    int    // standard offset, seconds east of UTC
	DST    int    // daylight offset added to Std
	Abbrev string // abbreviation shown while the period is in effect
}

// Transition starts a new Period at a Unix instant.
type Transition struct {
	At int64
	Period
}

// Table is an Oracle defined by an explicit list of transitions. It backs
// synthetic zones declared in configuration.
type Table struct {
	localResolver
	name        string
	initial     Period
	transitions []Transition
}

// NewTable returns a Table starting in initial and switching at each
// transition. Transitions are sorted by instant; duplicates keep the last.
func NewTable(name string, initial Period, transitions []Transition) *Table {
	tx := make([]Transition, len(transitions))
	copy(tx, transitions)
	sort.SliceStable(tx, func(i, j int) bool { return tx[i].At < tx[j].At })
	dedup := tx[:0]
	for _, t := range tx {
		if n := len(dedup); n > 0 && dedup[n-1].At == t.At {
			dedup[n-1] = t
			continue
		}
		dedup = append(dedup, t)
	}
	tbl := &Table{name: name, initial: initial, transitions: dedup}
	tbl.localResolver = localResolver{offsetAt: tbl.totalOffset}
	return tbl
}

// Name returns the zone name.
func (t *Table) Name() string { return t.name }

func (t *Table) period(unix int64) Period {
	i := sort.Search(len(t.transitions), func(i int) bool { return t.transitions[i].At > unix })
	if i == 0 {
		return t.initial
	}
	return t.transitions[i-1].Period
}

func (t *Table) totalOffset(unix int64) (int, error) {
	p := t.period(unix)
	return p.Std + p.DST, nil
}

// OffsetsAt reports the period in effect at unix.
func (t *Table) OffsetsAt(unix int64) (Offsets, error) {
	p := t.period(unix)
	return Offsets{Total: p.Std + p.DST, DST: p.DST, Abbrev: p.Abbrev}, nil
}

// CivilAt reports the local fields at unix.
func (t *Table) CivilAt(unix int64) (Civil, error) {
	p := t.period(unix)
	return civilFromSeconds(unix + int64(p.Std+p.DST)), nil
}

// TableBackend binds zone names to synthetic tables.
type TableBackend struct {
	zones map[string]*Table
}

// NewTableBackend indexes tables by name.
func NewTableBackend(tables ...*Table) *TableBackend {
	b := &TableBackend{zones: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		b.zones[t.name] = t
	}
	return b
}

// Bind returns the table registered under zone.
func (b *TableBackend) Bind(zone string) (Oracle, error) {
	t, ok := b.zones[zone]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrZoneNotFound, zone)
	}
	return t, nil
}

// Info describes synthetic tables as the offset source.
func (b *TableBackend) Info() SourceInfo {
	return SourceInfo{
		Source:            "table",
		Version:           "1",
		TzVersion:         "synthetic",
		HasValidAbbrev:    true,
		HasValidDST:       true,
		OffsetGranularity: 1,
	}
}
