package oracle

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// maxZoneWalk caps how many zone periods are visited when looking for the
// standard offset behind a DST period.
const maxZoneWalk = 8

// GoTimeBackend binds zones through the Go time package. If Dir is set, zone
// files are read from that directory instead of the platform database.
type GoTimeBackend struct {
	Dir string
}

// NewGoTimeBackend returns a backend reading zones from dir, or from the
// platform database when dir is empty.
func NewGoTimeBackend(dir string) *GoTimeBackend {
	return &GoTimeBackend{Dir: dir}
}

// Bind loads the named zone.
func (b *GoTimeBackend) Bind(zone string) (Oracle, error) {
	loc, err := b.load(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrZoneNotFound, zone, err)
	}
	l := &Location{loc: loc}
	l.localResolver = localResolver{offsetAt: l.totalOffset}
	return l, nil
}

func (b *GoTimeBackend) load(zone string) (*time.Location, error) {
	if b.Dir == "" {
		return time.LoadLocation(zone)
	}
	if zone == "" || strings.Contains(zone, "..") || filepath.IsAbs(zone) {
		return nil, fmt.Errorf("invalid zone name %q", zone)
	}
	data, err := os.ReadFile(filepath.Join(b.Dir, filepath.FromSlash(zone)))
	if err != nil {
		return nil, err
	}
	return time.LoadLocationFromTZData(zone, data)
}

// Info describes the Go time package as the offset source.
func (b *GoTimeBackend) Info() SourceInfo {
	dir := b.Dir
	if dir == "" {
		dir = os.Getenv("ZONEINFO")
	}
	return SourceInfo{
		Source:            "go",
		Version:           runtime.Version(),
		TzVersion:         DetectTzVersion(dir),
		HasValidAbbrev:    true,
		HasValidDST:       true,
		OffsetGranularity: 1,
	}
}

// Location is an Oracle over a *time.Location.
type Location struct {
	localResolver
	loc *time.Location
}

func (l *Location) at(unix int64) time.Time {
	return time.Unix(unix, 0).In(l.loc)
}

func (l *Location) totalOffset(unix int64) (int, error) {
	_, off := l.at(unix).Zone()
	return off, nil
}

// defaultDST is assumed for a DST period whose neighbouring standard periods
// share its total offset, as when a zone moves its standard offset and starts
// DST at the same instant.
const defaultDST = 3600

// OffsetsAt reports the zone offsets at unix. The time package exposes only
// the DST flag, so the DST amount is measured against the standard periods
// around t.
func (l *Location) OffsetsAt(unix int64) (Offsets, error) {
	t := l.at(unix)
	abbrev, total := t.Zone()
	dst := 0
	if t.IsDST() {
		dst = dstShare(t, total)
	}
	return Offsets{Total: total, DST: dst, Abbrev: abbrev}, nil
}

// dstShare picks the first non-zero difference to the previous, then the
// next standard period. A DST period never has a zero share.
func dstShare(t time.Time, total int) int {
	if std, ok := previousStandard(t); ok && total != std {
		return total - std
	}
	if std, ok := nextStandard(t); ok && total != std {
		return total - std
	}
	return defaultDST
}

// previousStandard walks zone periods backwards from t until it finds one
// that is not DST.
func previousStandard(t time.Time) (int, bool) {
	cur := t
	for i := 0; i < maxZoneWalk; i++ {
		start, _ := cur.ZoneBounds()
		if start.IsZero() {
			break
		}
		cur = start.Add(-time.Second)
		if !cur.IsDST() {
			_, off := cur.Zone()
			return off, true
		}
	}
	return 0, false
}

// nextStandard walks zone periods forwards from t until it finds one that is
// not DST.
func nextStandard(t time.Time) (int, bool) {
	cur := t
	for i := 0; i < maxZoneWalk; i++ {
		_, end := cur.ZoneBounds()
		if end.IsZero() {
			break
		}
		cur = end
		if !cur.IsDST() {
			_, off := cur.Zone()
			return off, true
		}
	}
	return 0, false
}

// CivilAt reports the local fields at unix.
func (l *Location) CivilAt(unix int64) (Civil, error) {
	t := l.at(unix)
	return Civil{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}, nil
}

// DetectTzVersion reads the tz database release from dir, falling back to the
// usual platform locations. It returns "unknown" when nothing is found.
func DetectTzVersion(dir string) string {
	dirs := []string{"/usr/share/zoneinfo", "/usr/share/lib/zoneinfo", "/usr/lib/locale/TZ"}
	if dir != "" {
		dirs = append([]string{dir}, dirs...)
	}
	for _, d := range dirs {
		if v, ok := readVersionFile(filepath.Join(d, "+VERSION")); ok {
			return v
		}
		if v, ok := readTzdataZi(filepath.Join(d, "tzdata.zi")); ok {
			return v
		}
	}
	return "unknown"
}

func readVersionFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(string(data))
	return v, v != ""
}

// readTzdataZi parses the "# version 2024a" header line of tzdata.zi.
func readTzdataZi(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	line, _, _ := strings.Cut(string(data), "\n")
	v, found := strings.CutPrefix(strings.TrimSpace(line), "# version ")
	if !found || v == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}
