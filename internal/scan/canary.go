package scan

import (
	"context"
	"errors"

	"tzvalidate/internal/logging"
	"tzvalidate/internal/oracle"
	"tzvalidate/internal/sample"
)

const (
	firstCanaryDay = 2
	lastCanaryDay  = 28
)

// Canaries appends one sample per month at local midnight of day 2, moving
// to later days while the candidate is a gap or does not resolve, plus one
// sample at local midnight of December 31 per year when it resolves.
//
// Day 2 rather than day 1 keeps the January sample away from the year
// boundary, where the absolute instant may fall in the previous year.
func Canaries(ctx context.Context, o oracle.Oracle, store *sample.Store, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	log := logging.FromContext(ctx).With("zone", store.Zone())

	for year := opts.StartYear; year < opts.UntilYear; year++ {
		for month := 1; month <= 12; month++ {
			kind := sample.MonthlyCanary
			found := false
			for day := firstCanaryDay; day <= lastCanaryDay; day++ {
				err := store.Add(func() (sample.Item, error) {
					return canaryAt(o, oracle.Date(year, month, day), kind)
				})
				if err == nil {
					found = true
					break
				}
				if errors.Is(err, sample.ErrSealed) {
					return err
				}
				kind = sample.MonthlyCanaryFallback
			}
			if !found {
				log.Warn("no monthly canary", "year", year, "month", month)
			}
		}

		err := store.Add(func() (sample.Item, error) {
			return canaryAt(o, oracle.Date(year, 12, 31), sample.YearEndCanary)
		})
		if errors.Is(err, sample.ErrSealed) {
			return err
		}
		if err != nil {
			log.Debug("year-end canary skipped", "year", year, "error", err)
		}
	}
	return nil
}

// canaryAt resolves local and builds the sample. Gaps are rejected; overlaps
// resolve to the earlier instant and are recorded on the item.
func canaryAt(o oracle.Oracle, local oracle.Civil, kind sample.Kind) (sample.Item, error) {
	res, err := o.Classify(local)
	if err != nil {
		return sample.Item{}, err
	}
	if res == oracle.Gap {
		return sample.Item{}, oracle.ErrGap
	}
	instant, err := o.InstantFromLocal(local)
	if err != nil {
		return sample.Item{}, err
	}
	it, err := sample.Build(o, instant, kind)
	if err != nil {
		return sample.Item{}, err
	}
	it.Resolution = res
	return it, nil
}
