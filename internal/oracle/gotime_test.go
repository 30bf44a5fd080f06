package oracle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"
)

func TestGoTimeOffsets(t *testing.T) {
	o, err := NewGoTimeBackend("").Bind("America/Los_Angeles")
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	cases := []struct {
		name   string
		at     int64
		total  int
		dst    int
		abbrev string
	}{
		{"winter", unix(2024, time.January, 15, 12, 0), -8 * 3600, 0, "PST"},
		{"summer", unix(2024, time.July, 1, 12, 0), -7 * 3600, 3600, "PDT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := o.OffsetsAt(tc.at)
			if err != nil {
				t.Fatalf("OffsetsAt: %v", err)
			}
			if got.Total != tc.total || got.DST != tc.dst || got.Abbrev != tc.abbrev {
				t.Fatalf("OffsetsAt = %+v", got)
			}
		})
	}
}

func TestGoTimeDSTWithStandardShift(t *testing.T) {
	// Buenos Aires moved standard time from -03 to -04 and started DST on
	// 1999-10-03, keeping the total at -03 until DST ended on 2000-03-03.
	o, err := NewGoTimeBackend("").Bind("America/Argentina/Buenos_Aires")
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	cases := []struct {
		name string
		at   int64
		dst  int
	}{
		{"before", unix(1999, time.October, 1, 12, 0), 0},
		{"during", unix(1999, time.October, 4, 12, 0), 3600},
		{"after", unix(2000, time.March, 10, 12, 0), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := o.OffsetsAt(tc.at)
			if err != nil {
				t.Fatalf("OffsetsAt: %v", err)
			}
			if got.Total != -3*3600 || got.DST != tc.dst {
				t.Fatalf("OffsetsAt = %+v, want total -10800 dst %d", got, tc.dst)
			}
		})
	}
}

func TestGoTimeResolveLocal(t *testing.T) {
	o, err := NewGoTimeBackend("").Bind("America/Los_Angeles")
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	gap := Civil{Year: 2024, Month: 3, Day: 10, Hour: 2, Minute: 30}
	if res, err := o.Classify(gap); err != nil || res != Gap {
		t.Fatalf("Classify(gap) = %s, %v", res, err)
	}
	overlap := Civil{Year: 2024, Month: 11, Day: 3, Hour: 1, Minute: 30}
	if res, err := o.Classify(overlap); err != nil || res != Overlap {
		t.Fatalf("Classify(overlap) = %s, %v", res, err)
	}
	got, err := o.InstantFromLocal(overlap)
	if err != nil {
		t.Fatalf("InstantFromLocal: %v", err)
	}
	if want := unix(2024, time.November, 3, 8, 30); got != want {
		t.Fatalf("InstantFromLocal = %d, want %d (PDT reading)", got, want)
	}
	c, err := o.CivilAt(got)
	if err != nil || c != overlap {
		t.Fatalf("CivilAt round trip = %v, %v", c, err)
	}
}

func TestGoTimeBindErrors(t *testing.T) {
	if _, err := NewGoTimeBackend("").Bind("Mars/Olympus_Mons"); !errors.Is(err, ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound, got %v", err)
	}
	if _, err := NewGoTimeBackend(t.TempDir()).Bind("../etc/passwd"); !errors.Is(err, ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound for path escape, got %v", err)
	}
}

func TestDetectTzVersion(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tzdata.zi"), []byte("# version 2023c\n# comment\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := DetectTzVersion(dir); got != "2023c" {
		t.Fatalf("DetectTzVersion = %q, want 2023c", got)
	}
	if err := os.WriteFile(filepath.Join(dir, "+VERSION"), []byte("2024b\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := DetectTzVersion(dir); got != "2024b" {
		t.Fatalf("DetectTzVersion = %q, want 2024b", got)
	}
}
