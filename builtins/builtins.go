// Package builtins is the function catalogue: the set of leaf evaluators
// registered into a registry.Registry before any formula is parsed.
//
// Grounded on the teacher's internal/vmregister.RegisterStdlib, which plays
// the identical role (one entrypoint wiring a fixed set of names into a
// registry) for the teacher's own native-function table, and on
// original_source/hotxlfp/formulas/*.py for which names exist and which
// share an implementation under multiple aliases.
package builtins

import (
	"xlfp/registry"
	"xlfp/value"
	"xlfp/xlerror"
)

// Register installs the full catalogue into r. Call it once before taking
// r.Snapshot() for a parser — spec.md §9's two-phase construction depends on
// every name being registered first.
func Register(r *registry.Registry) {
	registerArithmetic(r)
	registerLogical(r)
	registerText(r)
	registerStatistical(r)
}

// DefaultRegistry builds a fresh registry pre-loaded with this catalogue —
// what xlfp.NewParser reaches for when Options.Registry is left nil.
func DefaultRegistry() *registry.Registry {
	r := registry.New()
	Register(r)
	return r
}

// firstError returns the first (leftmost) error among already-evaluated
// argument slots, implementing spec.md §7's propagation policy at the
// leaves — VisitCall's own left-to-right evaluation already guarantees
// "leftmost" order, this just finds it again after the fact.
func firstError(args []value.Value) *xlerror.ErrorValue {
	for _, a := range args {
		if value.IsError(a) {
			return value.AsError(a)
		}
	}
	return nil
}

// scalarOnly rejects any Array argument, the rule spec.md §4.4 applies to
// text-only operations (LEN, CHAR, CODE, the case/substitution family,
// CONCAT, TEXTJOIN's first two slots).
func scalarOnly(args ...value.Value) *xlerror.ErrorValue {
	for _, a := range args {
		if value.IsArray(a) {
			return xlerror.ErrValue
		}
	}
	return nil
}
