// Package fixture drives the scanner and sampler over a list of zones.
package fixture

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"tzvalidate/internal/logging"
	"tzvalidate/internal/oracle"
	"tzvalidate/internal/sample"
	"tzvalidate/internal/scan"
)

// Options configure a run.
type Options struct {
	scan.Options
	// Workers > 1 processes zones concurrently. Output order is unchanged.
	Workers int
}

// ZoneResult is the sealed sample set of one zone.
type ZoneResult struct {
	Name  string
	Store *sample.Store
}

// ZoneFailure records a zone that was excluded from the output.
type ZoneFailure struct {
	Name string
	Err  error
}

// Result holds the outcome of a run, in input order.
type Result struct {
	Zones    []ZoneResult
	Failures []ZoneFailure
}

// Err summarizes the failures, or returns nil when every zone succeeded.
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return fmt.Errorf("%d zone(s) failed, first %s: %w", len(r.Failures), r.Failures[0].Name, r.Failures[0].Err)
}

// Run binds every zone through backend and samples it. Zone-level errors are
// collected in the result; the returned error is reserved for invalid
// options and cancellation.
func Run(ctx context.Context, backend oracle.Backend, zones []string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	zones = dedupe(zones)
	log := logging.FromContext(ctx)

	type slot struct {
		store *sample.Store
		err   error
	}
	slots := make([]slot, len(zones))

	g, gctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)
	for i, name := range zones {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			log.Info("zone", "index", i, "name", name)
			store, err := ProcessZone(gctx, backend, name, opts.Options)
			slots[i] = slot{store: store, err: err}
			if err != nil {
				log.Error("zone failed", "name", name, "error", err)
				return nil
			}
			log.Debug("zone done", "name", name, "items", store.Len())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{}
	for i, s := range slots {
		if s.err != nil {
			res.Failures = append(res.Failures, ZoneFailure{Name: zones[i], Err: s.err})
			continue
		}
		res.Zones = append(res.Zones, ZoneResult{Name: zones[i], Store: s.store})
	}
	return res, nil
}

// ProcessZone binds one zone, runs the transition scan and then the canary
// sampler, and seals the store.
func ProcessZone(ctx context.Context, backend oracle.Backend, name string, opts scan.Options) (*sample.Store, error) {
	o, err := backend.Bind(name)
	if err != nil {
		return nil, err
	}
	store := sample.NewStore(name)
	if err := scan.Transitions(ctx, o, store, opts); err != nil {
		return nil, err
	}
	if err := scan.Canaries(ctx, o, store, opts); err != nil {
		return nil, err
	}
	store.Seal()
	return store, nil
}

func dedupe(zones []string) []string {
	seen := make(map[string]bool, len(zones))
	out := make([]string, 0, len(zones))
	for _, z := range zones {
		if seen[z] {
			continue
		}
		seen[z] = true
		out = append(out, z)
	}
	return out
}
