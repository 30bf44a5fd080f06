package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrMismatch is returned by Diff when the reports disagree.
var ErrMismatch = errors.New("validation data differs")

// Diff compares observed against expected and writes one line per
// discrepancy. DST offsets and abbreviations are compared only when both
// sides claim valid values.
func Diff(w io.Writer, observed, expected *ValidationData) error {
	d := differ{
		w:           w,
		checkAbbrev: observed.HasValidAbbrev && expected.HasValidAbbrev,
		checkDST:    observed.HasValidDst && expected.HasValidDst,
	}
	if !d.checkAbbrev {
		fmt.Fprintln(w, "Disabling validation for abbrev")
	}
	if !d.checkDST {
		fmt.Fprintln(w, "Disabling validation for DST offset")
	}

	d.header(observed, expected)
	d.zoneNames(observed, expected)
	for _, zone := range observed.Zones() {
		exp, ok := expected.TestData[zone]
		if !ok {
			continue
		}
		obs := observed.TestData[zone]
		d.items(zone, "transitions", obs.Transitions, exp.Transitions)
		d.items(zone, "samples", obs.Samples, exp.Samples)
	}
	if d.errors > 0 {
		return fmt.Errorf("%w: %d discrepancies", ErrMismatch, d.errors)
	}
	return nil
}

type differ struct {
	w           io.Writer
	checkAbbrev bool
	checkDST    bool
	errors      int
}

func (d *differ) fail(format string, args ...any) {
	d.errors++
	fmt.Fprintf(d.w, format+"\n", args...)
}

func (d *differ) header(obs, exp *ValidationData) {
	if obs.StartYear != exp.StartYear {
		d.fail("start_year different: %d != %d", obs.StartYear, exp.StartYear)
	}
	if obs.UntilYear != exp.UntilYear {
		d.fail("until_year different: %d != %d", obs.UntilYear, exp.UntilYear)
	}
	if obs.EpochYear != exp.EpochYear {
		d.fail("epoch_year different: %d != %d", obs.EpochYear, exp.EpochYear)
	}
}

func (d *differ) zoneNames(obs, exp *ValidationData) {
	var missing, extra []string
	for z := range exp.TestData {
		if _, ok := obs.TestData[z]; !ok {
			missing = append(missing, z)
		}
	}
	for z := range obs.TestData {
		if _, ok := exp.TestData[z]; !ok {
			extra = append(extra, z)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	if len(missing) > 0 {
		d.fail("Missing zones compared to expected: %v", missing)
	}
	if len(extra) > 0 {
		d.fail("Extra zones compared to expected: %v", extra)
	}
}

// items walks both lists with two cursors. Silent transitions in expected
// are skipped when DST is not checked, since the observed side cannot
// detect them.
func (d *differ) items(zone, label string, observed, expected []TestItem) {
	iobs, iexp := 0, 0
	for iobs < len(observed) && iexp < len(expected) {
		obs, exp := observed[iobs], expected[iexp]
		if d.skip(exp) {
			iexp++
			continue
		}
		check := func(field string, equal bool) {
			if !equal {
				d.fail("ERROR %s %s '%s': obs[%d] != exp[%d]", zone, label, field, iobs, iexp)
			}
		}
		check("epoch", obs.Epoch == exp.Epoch)
		check("total", obs.TotalOffset == exp.TotalOffset)
		if d.checkDST {
			check("dst", obs.DstOffset == exp.DstOffset)
		}
		check("y", obs.Year == exp.Year)
		check("M", obs.Month == exp.Month)
		check("d", obs.Day == exp.Day)
		check("h", obs.Hour == exp.Hour)
		check("m", obs.Minute == exp.Minute)
		check("s", obs.Second == exp.Second)
		if d.checkAbbrev {
			check("abbrev", obs.Abbrev == exp.Abbrev)
		}
		iobs++
		iexp++
	}
	for iexp < len(expected) && d.skip(expected[iexp]) {
		iexp++
	}
	if iobs < len(observed) || iexp < len(expected) {
		d.fail("ERROR %s %s: unmatched items obs=%d exp=%d", zone, label, len(observed)-iobs, len(expected)-iexp)
	}
}

func (d *differ) skip(exp TestItem) bool {
	return !d.checkDST && (exp.Type == "a" || exp.Type == "b")
}
