package reconcile

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"campusctl/core/controller"
)

// ErrSkipped marks a unit that was never attempted because the batch was
// cancelled before the unit started.
var ErrSkipped = errors.New("unit not attempted: batch cancelled")

// ResolutionError is a transport or query failure while resolving a selector.
type ResolutionError struct {
	Kind controller.Kind
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve %s: %v", e.Kind, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// AmbiguousMatchError is returned when a selector matches more than one
// remote object. It is always surfaced, never auto-resolved.
type AmbiguousMatchError struct {
	Kind     controller.Kind
	Selector Selector
	Count    int
	// Preview holds a short id/name sample of the conflicting objects so the
	// operator can refine the selector.
	Preview []controller.Object
}

func (e *AmbiguousMatchError) Error() string {
	keys := make([]string, 0, len(e.Selector))
	for k := range e.Selector {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%d %ss match selector {%s}: refine the selector to identify exactly one object",
		e.Count, e.Kind, strings.Join(keys, ", "))
}

// ApplyError is a mutation call that failed or returned an error status.
// It carries the decision that was being applied.
type ApplyError struct {
	Kind     controller.Kind
	Decision ChangeType
	Err      error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("failed to apply %s on %s: %v", e.Decision, e.Kind, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// ValidationError reports a declared unit that references unknown or invalid
// property keys for its kind, or is missing required fields.
type ValidationError struct {
	Kind   controller.Kind
	Reason string
	// Fields names the offending keys, when the problem is key-specific.
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("invalid %s declaration: %s: %s", e.Kind, e.Reason, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("invalid %s declaration: %s", e.Kind, e.Reason)
}
