// Package sink exports sampled items to secondary destinations alongside
// the JSON report.
package sink

import (
	"tzvalidate/internal/sample"
)

// ZoneWriter receives the sealed items of one zone.
type ZoneWriter interface {
	WriteZone(runID, zone string, items []sample.Item) error
}

// Record is the flat per-item form shared by the sinks.
type Record struct {
	RunID       string `json:"run_id"`
	Zone        string `json:"zone"`
	Kind        string `json:"kind"`
	Type        string `json:"type"`
	Instant     int64  `json:"instant"`
	TotalOffset int    `json:"total_offset"`
	DSTOffset   int    `json:"dst_offset"`
	Local       string `json:"local"`
	Abbrev      string `json:"abbrev"`
	Resolution  string `json:"resolution,omitempty"`
}

// NewRecord flattens an item.
func NewRecord(runID, zone string, it sample.Item) Record {
	return Record{
		RunID:       runID,
		Zone:        zone,
		Kind:        it.Kind.String(),
		Type:        string(it.Kind),
		Instant:     it.Instant,
		TotalOffset: it.TotalOffset,
		DSTOffset:   it.DSTOffset,
		Local:       it.Local.String(),
		Abbrev:      it.Abbrev,
		Resolution:  string(it.Resolution),
	}
}
