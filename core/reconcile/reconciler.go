package reconcile

import (
	"context"

	"campusctl/core/controller"
)

// Reconcile converges one declared unit: resolve, diff, then apply at most
// one remote mutation. Resolving and diffing never mutate remote state; the
// apply step is entered at most once. Failures are reported inside the
// result rather than returned, so batch callers keep per-unit isolation.
func Reconcile(ctx context.Context, client controller.Client, unit Unit, opts Options) Result {
	result := Result{Unit: unit}

	if err := Validate(unit); err != nil {
		result.Err = err
		return result
	}

	desired := Properties(PruneUnset(unit.Object))

	resolved, err := Resolve(ctx, client, unit.Kind, unit.Selector, unit.Name())
	if err != nil {
		result.Err = err
		return result
	}

	decision, err := Decide(unit.Kind, resolved, desired, unit.Intent())
	if err != nil {
		result.Err = err
		return result
	}
	result.Decision = decision

	if resolved != nil {
		result.Object = StripReadonly(resolved.Props)
	}

	if decision.Type == ChangeNone {
		return result
	}
	if opts.DryRun {
		// The caller observes "would change" without mutation.
		return result
	}

	applied, err := apply(ctx, client, unit.Kind, resolved, desired, decision)
	if err != nil {
		result.Err = &ApplyError{Kind: unit.Kind, Decision: decision.Type, Err: err}
		return result
	}

	result.Applied = true
	result.Object = applied
	return result
}

// apply issues exactly one remote mutation matching the decision.
func apply(ctx context.Context, client controller.Client, kind controller.Kind, resolved *Resolved, desired Properties, decision Decision) (controller.Object, error) {
	switch decision.Type {
	case ChangeCreate:
		return client.Create(ctx, kind, controller.Object(desired))

	case ChangeUpdate, ChangeRename:
		// Partial update: only the changed fields travel.
		return client.Update(ctx, kind, resolved.ID, controller.Object(decision.Fields()))

	case ChangeDelete:
		if err := client.Delete(ctx, kind, resolved.ID); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		return nil, nil
	}
}
