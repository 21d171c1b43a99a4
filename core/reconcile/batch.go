package reconcile

import (
	"context"

	"campusctl/core/controller"

	"golang.org/x/sync/errgroup"
)

// ApplyBatch reconciles a collection of declared units, one result per input
// unit in input order.
//
// Units are independent: a failure in one is captured in its result and does
// not prevent the others from being attempted. With Options.Workers above 1
// units are fanned out over a bounded worker pool; units share nothing but
// the read-only client. When the context is cancelled, in-flight transport
// calls are aborted and units that have not started are marked skipped.
// A unit's mutation is a single atomic remote call, so cancellation can only
// race with one unit's apply, never fragment it.
func ApplyBatch(ctx context.Context, client controller.Client, units []Unit, opts Options) BatchResult {
	results := make([]Result, len(units))

	if opts.Workers > 1 {
		var group errgroup.Group
		group.SetLimit(opts.Workers)
		for i, unit := range units {
			group.Go(func() error {
				results[i] = runUnit(ctx, client, unit, opts)
				return nil
			})
		}
		// Workers never return errors; failures live in the results.
		_ = group.Wait()
	} else {
		for i, unit := range units {
			results[i] = runUnit(ctx, client, unit, opts)
		}
	}

	ok := true
	for _, r := range results {
		if r.Err != nil {
			ok = false
			break
		}
	}
	return BatchResult{Results: results, OK: ok}
}

func runUnit(ctx context.Context, client controller.Client, unit Unit, opts Options) Result {
	if ctx.Err() != nil {
		return Result{Unit: unit, Skipped: true, Err: ErrSkipped}
	}
	return Reconcile(ctx, client, unit, opts)
}
