package reconcile

import (
	"context"

	"campusctl/core/controller"
)

// previewLimit bounds the object sample attached to an ambiguous match.
const previewLimit = 5

// Resolve locates the remote object identified by the selector, or by
// nameFallback when the selector is empty.
//
// Matching is conjunctive and exact: a candidate satisfies the selector only
// when every provided key compares equal to the candidate's value; keys not
// provided are not constrained. The result is nil (absent), exactly one
// object, or an AmbiguousMatchError. For a fixed remote state the outcome is
// a pure function of (kind, selector): no ordering of the controller's list
// response can change which object is the match, because at most one may
// legally match.
func Resolve(ctx context.Context, client controller.Client, kind controller.Kind, selector Selector, nameFallback string) (*Resolved, error) {
	selector = Selector(PruneUnset(selector))

	candidates, err := client.ListAll(ctx, kind, listFilters(selector, nameFallback))
	if err != nil {
		return nil, &ResolutionError{Kind: kind, Err: err}
	}

	var matches []controller.Object
	for _, candidate := range candidates {
		if matchesSelector(candidate, selector, nameFallback) {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &Resolved{ID: matches[0].ID(), Props: matches[0]}, nil
	default:
		preview := make([]controller.Object, 0, previewLimit)
		for _, m := range matches {
			if len(preview) == previewLimit {
				break
			}
			preview = append(preview, previewOf(m, selector))
		}
		return nil, &AmbiguousMatchError{
			Kind:     kind,
			Selector: selector,
			Count:    len(matches),
			Preview:  preview,
		}
	}
}

// listFilters narrows the server-side listing where the controller supports
// it. Only the name predicate is safe to push down; all other selector keys
// are evaluated client-side so matching semantics stay under our control.
func listFilters(selector Selector, nameFallback string) map[string]string {
	if name, ok := selector["name"].(string); ok && name != "" {
		return map[string]string{"name": name}
	}
	if len(selector) == 0 && nameFallback != "" {
		return map[string]string{"name": nameFallback}
	}
	return nil
}

// matchesSelector applies the compound equality test: logical AND across all
// provided selector keys, exact comparison per key. An empty selector falls
// back to matching the object name.
func matchesSelector(candidate controller.Object, selector Selector, nameFallback string) bool {
	if len(selector) == 0 {
		return nameFallback != "" && candidate.Name() == nameFallback
	}
	for key, want := range selector {
		if !valueEqual(candidate[key], want) {
			return false
		}
	}
	return true
}

// previewOf keeps only identifying fields of an ambiguous candidate: id,
// name, and the selector keys themselves.
func previewOf(obj controller.Object, selector Selector) controller.Object {
	preview := controller.Object{}
	for _, k := range []string{"id", "name"} {
		if v, ok := obj[k]; ok {
			preview[k] = v
		}
	}
	for k := range selector {
		if v, ok := obj[k]; ok {
			preview[k] = v
		}
	}
	return preview
}
