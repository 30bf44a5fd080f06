package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	zoneStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// Flatten prints vd as fixed-width text, one zone after another, which is
// easier to read and diff than the JSON. Styled output colors the section
// headers.
func Flatten(w io.Writer, vd *ValidationData, styled bool) error {
	section := func(s string) string {
		if styled {
			return sectionStyle.Render(s)
		}
		return s
	}
	zone := func(s string) string {
		if styled {
			return zoneStyle.Render(s)
		}
		return s
	}

	fmt.Fprintln(w, section("HEADER"))
	fmt.Fprintln(w, "start_year", vd.StartYear)
	fmt.Fprintln(w, "until_year", vd.UntilYear)
	fmt.Fprintln(w, "epoch_year", vd.EpochYear)
	fmt.Fprintln(w, "source", vd.Source, vd.Version)
	fmt.Fprintln(w, "tz_version", vd.TzVersion)
	fmt.Fprintln(w, "has_valid_abbrev", vd.HasValidAbbrev)
	fmt.Fprintln(w, "has_valid_dst", vd.HasValidDst)
	fmt.Fprintln(w)

	for _, name := range vd.Zones() {
		entry := vd.TestData[name]
		fmt.Fprintln(w, zone("ZONE "+name))
		fmt.Fprintln(w, section(fmt.Sprintf("TRANSITIONS %d", len(entry.Transitions))))
		writeItems(w, entry.Transitions)
		fmt.Fprintln(w, section(fmt.Sprintf("SAMPLES %d", len(entry.Samples))))
		writeItems(w, entry.Samples)
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func writeItems(w io.Writer, items []TestItem) {
	if len(items) != 0 {
		fmt.Fprintln(w, "# line       epoch    utc    dst    y  m  d  h  m  s  abbrev type")
	}
	for i := range items {
		it := &items[i]
		abbrev := it.Abbrev
		if abbrev == "" {
			abbrev = "-"
		}
		typ := it.Type
		if it.Resolution != "" {
			typ += "*"
		}
		fmt.Fprintf(w, "%6d %11d %6d %6d %4d %2d %2d %2d %2d %2d %7s %4s\n",
			i, it.Epoch, it.TotalOffset, it.DstOffset,
			it.Year, it.Month, it.Day, it.Hour, it.Minute, it.Second,
			abbrev, typ)
	}
}
