package reconcile

import "campusctl/core/controller"

// State is the declared target state of a unit.
type State string

const (
	// StatePresent drives create/update/rename/no-op via the diff engine.
	StatePresent State = "present"
	// StateAbsent forces a delete intent regardless of diff.
	StateAbsent State = "absent"
)

// Selector is a mapping of business properties used only to locate an
// existing remote object. A compound selector matches an object when every
// provided key compares equal; keys that are not provided are simply not
// constrained.
type Selector map[string]any

// Properties is a desired object body: target property values to create a
// remote object or merge into an existing one. Only keys present in the
// mapping participate in diffing; nil values are omission markers and are
// pruned before any comparison.
type Properties map[string]any

// Unit is one declared unit of work.
type Unit struct {
	// Kind is the remote resource family (site, device).
	Kind controller.Kind `yaml:"kind" json:"kind"`
	// Selector locates the existing object. It may be empty, in which case
	// the object's name is the identity.
	Selector Selector `yaml:"selector" json:"selector,omitempty"`
	// Object is the desired object body. It must include "name".
	Object Properties `yaml:"object" json:"object"`
	// State is present (default) or absent.
	State State `yaml:"state" json:"state,omitempty"`
}

// Intent returns the unit's effective target state, defaulting to present.
func (u Unit) Intent() State {
	if u.State == StateAbsent {
		return StateAbsent
	}
	return StatePresent
}

// Name returns the desired object name, or an empty string.
func (u Unit) Name() string {
	if s, ok := u.Object["name"].(string); ok {
		return s
	}
	return ""
}

// Resolved is a remote object located by the resolver: its opaque identity
// plus its current property mapping. A nil *Resolved means absent.
type Resolved struct {
	// ID is the controller-assigned opaque identifier.
	ID string
	// Props is the object's current property mapping as returned by the
	// controller, including read-only keys.
	Props controller.Object
}

// ChangeType classifies the operation required to converge a unit.
type ChangeType string

const (
	// ChangeNone means current state already matches desired state.
	ChangeNone ChangeType = "no-op"
	// ChangeCreate means no object matched and one will be created.
	ChangeCreate ChangeType = "create"
	// ChangeUpdate means the matched object needs a partial update.
	ChangeUpdate ChangeType = "update"
	// ChangeDelete means the matched object will be removed.
	ChangeDelete ChangeType = "delete"
	// ChangeRename is an update whose diff includes the identifying name
	// field. The remote call is the same as update; the tag exists so the
	// transition stays explicit and auditable.
	ChangeRename ChangeType = "rename"
)

// FieldDiff is one field-level change, old value to new value.
type FieldDiff struct {
	Field string `json:"field"`
	Old   any    `json:"old"`
	New   any    `json:"new"`
}

// Decision is the diff engine's output: the classified change plus the
// field-level diff a caller can inspect before or after apply.
type Decision struct {
	Type ChangeType  `json:"type"`
	Diff []FieldDiff `json:"diff,omitempty"`
}

// Fields returns the changed fields as a property body suitable for a
// partial update call.
func (d Decision) Fields() Properties {
	fields := make(Properties, len(d.Diff))
	for _, fd := range d.Diff {
		fields[fd.Field] = fd.New
	}
	return fields
}

// Result is the outcome of reconciling one unit.
type Result struct {
	// Unit echoes the declared unit the result belongs to.
	Unit Unit `json:"unit"`
	// Decision is the computed change, reported even when apply failed so
	// operators can distinguish "we know what should change but couldn't"
	// from "nothing needs to change".
	Decision Decision `json:"decision"`
	// Applied is true only when a remote mutation was issued and succeeded.
	// It is always false for no-ops and under dry-run.
	Applied bool `json:"applied"`
	// Skipped is true when the unit was never attempted because the batch
	// was cancelled before it started.
	Skipped bool `json:"skipped,omitempty"`
	// Object is the final remote object when available.
	Object controller.Object `json:"object,omitempty"`
	// Err carries the unit's failure, if any.
	Err error `json:"-"`
}

// OK reports whether the unit completed without error.
func (r Result) OK() bool { return r.Err == nil }

// BatchResult aggregates per-unit results, preserving input order.
type BatchResult struct {
	// Results holds one entry per input unit, positionally.
	Results []Result `json:"results"`
	// OK is true only if every unit's result is non-error.
	OK bool `json:"ok"`
}

// Options controls reconcile behavior.
type Options struct {
	// DryRun computes decisions and diffs without issuing any mutation.
	DryRun bool
	// Workers bounds the batch worker pool. Values below 2 mean sequential
	// processing.
	Workers int
}
