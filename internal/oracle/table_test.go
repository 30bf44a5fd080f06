package oracle

import (
	"errors"
	"testing"
	"time"
)

func unix(y int, m time.Month, d, h, mi int) int64 {
	return time.Date(y, m, d, h, mi, 0, 0, time.UTC).Unix()
}

func summerTable() *Table {
	return NewTable("Test/Summer", Period{Abbrev: "GMT"}, []Transition{
		{At: unix(2010, time.October, 31, 1, 0), Period: Period{Abbrev: "GMT"}},
		{At: unix(2010, time.March, 28, 1, 0), Period: Period{DST: 3600, Abbrev: "BST"}},
	})
}

func TestTableOffsetsAt(t *testing.T) {
	tbl := summerTable()
	cases := []struct {
		name   string
		at     int64
		total  int
		dst    int
		abbrev string
	}{
		{"winter", unix(2010, time.January, 2, 0, 0), 0, 0, "GMT"},
		{"last second of winter", unix(2010, time.March, 28, 1, 0) - 1, 0, 0, "GMT"},
		{"first second of summer", unix(2010, time.March, 28, 1, 0), 3600, 3600, "BST"},
		{"autumn", unix(2010, time.November, 2, 0, 0), 0, 0, "GMT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tbl.OffsetsAt(tc.at)
			if err != nil {
				t.Fatalf("OffsetsAt: %v", err)
			}
			if got.Total != tc.total || got.DST != tc.dst || got.Abbrev != tc.abbrev {
				t.Fatalf("OffsetsAt = %+v, want total=%d dst=%d abbrev=%s", got, tc.total, tc.dst, tc.abbrev)
			}
		})
	}
}

func TestTableCivilAt(t *testing.T) {
	tbl := summerTable()
	got, err := tbl.CivilAt(unix(2010, time.March, 28, 1, 0))
	if err != nil {
		t.Fatalf("CivilAt: %v", err)
	}
	want := Civil{Year: 2010, Month: 3, Day: 28, Hour: 2}
	if got != want {
		t.Fatalf("CivilAt = %v, want %v", got, want)
	}
}

func TestTableResolveLocal(t *testing.T) {
	tbl := summerTable()
	cases := []struct {
		name    string
		local   Civil
		res     Resolution
		instant int64
		err     error
	}{
		{
			name:    "exact",
			local:   Civil{Year: 2010, Month: 6, Day: 2, Hour: 12},
			res:     Exact,
			instant: unix(2010, time.June, 2, 11, 0),
		},
		{
			name:  "gap",
			local: Civil{Year: 2010, Month: 3, Day: 28, Hour: 1, Minute: 30},
			res:   Gap,
			err:   ErrGap,
		},
		{
			name:    "overlap picks earlier",
			local:   Civil{Year: 2010, Month: 10, Day: 31, Hour: 1, Minute: 30},
			res:     Overlap,
			instant: unix(2010, time.October, 31, 0, 30),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := tbl.Classify(tc.local)
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if res != tc.res {
				t.Fatalf("Classify = %s, want %s", res, tc.res)
			}
			got, err := tbl.InstantFromLocal(tc.local)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("InstantFromLocal err = %v, want %v", err, tc.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("InstantFromLocal: %v", err)
			}
			if got != tc.instant {
				t.Fatalf("InstantFromLocal = %d, want %d", got, tc.instant)
			}
		})
	}
}

func TestTableInvalidLocal(t *testing.T) {
	tbl := summerTable()
	if _, err := tbl.Classify(Civil{Year: 2010, Month: 2, Day: 30}); !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved for Feb 30, got %v", err)
	}
}

func TestTableBackendBind(t *testing.T) {
	b := NewTableBackend(summerTable())
	if _, err := b.Bind("Test/Summer"); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if _, err := b.Bind("Test/Missing"); !errors.Is(err, ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound, got %v", err)
	}
}
