// Package scan locates offset transitions and picks canary samples for a zone.
package scan

import (
	"errors"
	"fmt"
)

// DefaultProbeIntervalHours is deliberately not a divisor of 24 so that
// successive probes drift across the local time of day.
const DefaultProbeIntervalHours = 22

// ErrInconsistentOracle is returned when the oracle reports a change across a
// probe window that bisection then cannot reproduce.
var ErrInconsistentOracle = errors.New("oracle reported a change bisection could not locate")

// Options bound a scan.
type Options struct {
	StartYear          int
	UntilYear          int // exclusive
	ProbeIntervalHours int // 0 means DefaultProbeIntervalHours
}

// Validate checks the year range and probe interval.
func (o Options) Validate() error {
	if o.StartYear >= o.UntilYear {
		return fmt.Errorf("start year %d must be before until year %d", o.StartYear, o.UntilYear)
	}
	if o.ProbeIntervalHours < 0 {
		return fmt.Errorf("probe interval %dh must be positive", o.ProbeIntervalHours)
	}
	return nil
}

func (o Options) probeSeconds() int64 {
	h := o.ProbeIntervalHours
	if h == 0 {
		h = DefaultProbeIntervalHours
	}
	return int64(h) * 3600
}
