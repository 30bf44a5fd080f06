package scan

import (
	"context"
	"errors"
	"fmt"

	"tzvalidate/internal/logging"
	"tzvalidate/internal/oracle"
	"tzvalidate/internal/sample"
)

type change int

const (
	noChange change = iota
	overtChange
	silentChange
)

func compare(a, b oracle.Offsets) change {
	if a.Total != b.Total {
		return overtChange
	}
	if a.DST != b.DST {
		return silentChange
	}
	return noChange
}

// Transitions walks [StartYear-1 day, UntilYear) in fixed probe steps and
// appends a before/after pair for every offset change, located to one
// second. Oracle failures skip the affected probe window.
func Transitions(ctx context.Context, o oracle.Oracle, store *sample.Store, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	log := logging.FromContext(ctx).With("zone", store.Zone())

	t := scanStart(o, opts.StartYear)
	if _, err := o.OffsetsAt(t); err != nil {
		return fmt.Errorf("%w: %s: offsets at scan start: %v", oracle.ErrZoneData, store.Zone(), err)
	}

	// Hard stop in case the oracle never reports a year for tNext.
	limit := oracle.Date(opts.UntilYear+1, 1, 1).Seconds()
	step := opts.probeSeconds()
	evaluated, skipped, found := 0, 0, 0
	for t < limit {
		tNext := t + step
		civ, err := o.CivilAt(tNext)
		if err != nil {
			log.Log(ctx, logging.LevelTrace, "probe skipped", "t", tNext, "error", err)
			skipped++
			t = tNext
			continue
		}
		if civ.Year >= opts.UntilYear {
			break
		}

		before, err := o.OffsetsAt(t)
		if err != nil {
			skipped++
			t = tNext
			continue
		}
		after, err := o.OffsetsAt(tNext)
		if err != nil {
			skipped++
			t = tNext
			continue
		}
		evaluated++

		if compare(before, after) != noChange {
			left, right, c, err := bisect(o, t, tNext, before)
			switch {
			case errors.Is(err, ErrInconsistentOracle):
				return fmt.Errorf("%s: window [%d, %d): %w", store.Zone(), t, tNext, err)
			case err != nil:
				log.Debug("bisection skipped", "left", t, "right", tNext, "error", err)
				skipped++
			default:
				if err := addPair(o, store, left, right, c); err != nil {
					if errors.Is(err, sample.ErrSealed) {
						return err
					}
					log.Debug("transition dropped", "before", left, "after", right, "error", err)
				} else {
					found++
				}
			}
		}
		t = tNext
	}

	if evaluated == 0 {
		return fmt.Errorf("%w: %s: no probe window could be evaluated", oracle.ErrZoneData, store.Zone())
	}
	log.Debug("transition scan done", "transitions", found, "probes", evaluated, "skipped", skipped)
	return nil
}

// scanStart returns one day before local midnight of January 1 of year. If
// that midnight does not resolve, UTC midnight is used.
func scanStart(o oracle.Oracle, year int) int64 {
	jan1 := oracle.Date(year, 1, 1)
	t, err := o.InstantFromLocal(jan1)
	if err != nil {
		t = jan1.Seconds()
	}
	return t - 86400
}

// bisect narrows [left, right) until the two ends are one second apart. The
// left end always carries leftOff.
func bisect(o oracle.Oracle, left, right int64, leftOff oracle.Offsets) (int64, int64, change, error) {
	for {
		delta := (right - left) / 2
		if delta == 0 {
			break
		}
		mid := left + delta
		midOff, err := o.OffsetsAt(mid)
		if err != nil {
			return 0, 0, noChange, err
		}
		if compare(leftOff, midOff) == noChange {
			left = mid
		} else {
			right = mid
		}
	}

	l, err := o.OffsetsAt(left)
	if err != nil {
		return 0, 0, noChange, err
	}
	r, err := o.OffsetsAt(right)
	if err != nil {
		return 0, 0, noChange, err
	}
	c := compare(l, r)
	if c == noChange {
		return 0, 0, noChange, ErrInconsistentOracle
	}
	return left, right, c, nil
}

// addPair appends both samples of a transition or neither.
func addPair(o oracle.Oracle, store *sample.Store, left, right int64, c change) error {
	beforeKind, afterKind := sample.OvertBefore, sample.OvertAfter
	if c == silentChange {
		beforeKind, afterKind = sample.SilentBefore, sample.SilentAfter
	}
	if err := store.Add(func() (sample.Item, error) { return sample.Build(o, left, beforeKind) }); err != nil {
		return err
	}
	if err := store.Add(func() (sample.Item, error) { return sample.Build(o, right, afterKind) }); err != nil {
		if rbErr := store.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return nil
}
