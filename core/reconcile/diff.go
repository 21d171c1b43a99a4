package reconcile

import (
	"sort"

	"campusctl/core/controller"
)

// Decide computes the field-level delta between the resolved object (nil for
// absent) and the desired body, and classifies the required operation.
//
// Only keys present in the desired body participate; everything else on the
// remote object is left untouched. The desired body must already be pruned
// of nil values.
func Decide(kind controller.Kind, resolved *Resolved, desired Properties, intent State) (Decision, error) {
	if intent == StateAbsent {
		if resolved == nil {
			// Deleting what does not exist is convergence, not an error.
			return Decision{Type: ChangeNone}, nil
		}
		return Decision{Type: ChangeDelete}, nil
	}

	if resolved == nil {
		if missing := createRequiredMissing(kind, desired); len(missing) > 0 {
			return Decision{}, &ValidationError{
				Kind:   kind,
				Reason: "missing required fields for creation",
				Fields: missing,
			}
		}
		diff := make([]FieldDiff, 0, len(desired))
		for _, key := range sortedKeys(desired) {
			diff = append(diff, FieldDiff{Field: key, Old: nil, New: desired[key]})
		}
		return Decision{Type: ChangeCreate, Diff: diff}, nil
	}

	current := StripReadonly(resolved.Props)
	var diff []FieldDiff
	for _, key := range sortedKeys(desired) {
		if !valueEqual(current[key], desired[key]) {
			diff = append(diff, FieldDiff{Field: key, Old: current[key], New: desired[key]})
		}
	}

	if len(diff) == 0 {
		return Decision{Type: ChangeNone}, nil
	}
	if renames(diff, resolved) {
		return Decision{Type: ChangeRename, Diff: diff}, nil
	}
	return Decision{Type: ChangeUpdate, Diff: diff}, nil
}

// renames reports whether the diff changes the identifying name of an object
// the selector matched under a different name.
func renames(diff []FieldDiff, resolved *Resolved) bool {
	for _, fd := range diff {
		if fd.Field == "name" {
			return resolved.Props.Name() != "" || fd.Old != nil
		}
	}
	return false
}

func sortedKeys(m Properties) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
