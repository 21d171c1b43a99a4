// Package reconcile converges controller state to a caller-declared desired
// state, exactly once per invocation.
//
// A declared unit of work names an object kind, a selector (business
// properties that locate an existing object), a desired object body and a
// target state (present or absent). The package turns each unit into at most
// one controller mutation:
//
//  1. Resolver: the selector is evaluated against the controller inventory
//     and must match zero or exactly one object. More than one match is
//     always an error, never a heuristic pick.
//  2. Diff engine: the desired body is compared key-by-key against the
//     resolved object. Only keys present in the body participate; absent
//     keys are left untouched on the remote object. The outcome is a
//     decision: no-op, create, update, delete or rename.
//  3. Reconciler: a no-op returns without any remote call; under dry-run the
//     computed decision and diff are reported without mutation; otherwise
//     exactly one create/update/delete call is issued.
//
// ApplyBatch fans this out over a list of units with per-unit failure
// isolation: one failing unit becomes an error-carrying result and never
// aborts its siblings.
//
// # Rename
//
// A selector that matches an existing object combined with a desired name
// that differs from the current one is a rename, not a second create. The
// decision is tagged Rename so operators can tell it apart, but the remote
// call is the same partial update.
package reconcile
