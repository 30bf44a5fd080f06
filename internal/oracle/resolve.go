package oracle

import (
	"fmt"
	"sort"
)

// resolveWindow bounds how far apart the offsets bracketing a local time are
// probed. Zone offsets stay well inside one day.
const resolveWindow = 86400

// offsetFunc returns the total UTC offset at a Unix instant.
type offsetFunc func(unix int64) (int, error)

// localResolver implements Classify and InstantFromLocal for any backend
// that can report offsets for absolute instants.
type localResolver struct {
	offsetAt offsetFunc
}

// candidates returns the instants whose local wall clock equals c, earliest
// first. It assumes at most one offset change within a day of c.
func (r localResolver) candidates(c Civil) ([]int64, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: invalid local time %s", ErrUnresolved, c)
	}
	local := c.Seconds()

	before, err := r.offsetAt(local - resolveWindow)
	if err != nil {
		return nil, err
	}
	after, err := r.offsetAt(local + resolveWindow)
	if err != nil {
		return nil, err
	}

	var out []int64
	for _, o := range []int{before, after} {
		u := local - int64(o)
		got, err := r.offsetAt(u)
		if err != nil {
			return nil, err
		}
		if got != o {
			continue
		}
		if len(out) == 1 && out[0] == u {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r localResolver) Classify(c Civil) (Resolution, error) {
	cands, err := r.candidates(c)
	if err != nil {
		return "", err
	}
	switch len(cands) {
	case 0:
		return Gap, nil
	case 1:
		return Exact, nil
	default:
		return Overlap, nil
	}
}

func (r localResolver) InstantFromLocal(c Civil) (int64, error) {
	cands, err := r.candidates(c)
	if err != nil {
		return 0, err
	}
	if len(cands) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrGap, c)
	}
	return cands[0], nil
}
