// Package registry is the process-wide mapping from an uppercase formula
// function name to its evaluator and arity policy, per spec.md §4.1.
//
// The registry is populated once (by plug-in modules calling Register, the
// way the teacher's vmregister.RegisterVM.RegisterStdlib wires up globals
// before any code runs) and then frozen into a Snapshot for the lexer, which
// needs a stable, sorted name list to build its per-arity regex classes.
package registry

import (
	"sort"
	"strings"
	"sync"

	"xlfp/value"
	"xlfp/xlerror"
)

// Func is a built-in evaluator. Argument slots are already resolved to
// Values (Blank for an elided slot) by the time it's called.
type Func func(args []value.Value) value.Value

// Arity is a function's arity policy: FIXED(n) or VARIADIC.
type Arity struct {
	fixed   bool
	n       int
}

// Fixed declares a function that must receive exactly n argument slots.
func Fixed(n int) Arity { return Arity{fixed: true, n: n} }

// Variadic declares a function accepting any number of argument slots.
var Variadic = Arity{fixed: false}

func (a Arity) IsFixed() bool { return a.fixed }
func (a Arity) N() int        { return a.n }

// Accepts reports whether a call supplying n slots (including blanks)
// satisfies this arity.
func (a Arity) Accepts(n int) bool {
	if !a.fixed {
		return true
	}
	return n == a.n
}

type entry struct {
	eval  Func
	arity Arity
}

// Registry is safe for concurrent Register calls; after Snapshot is taken
// for a parse, later mutation does not retroactively affect already-built
// lexers (they hold their own frozen name lists).
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds an evaluator under one or more aliases (e.g. MODE and
// MODE.SNGL sharing one implementation), uppercasing each name.
func (r *Registry) Register(names []string, eval Func, arity Arity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		r.entries[strings.ToUpper(name)] = entry{eval: eval, arity: arity}
	}
}

// Lookup returns the evaluator and arity registered for name
// (case-insensitive), or ok=false if name isn't registered — in which case
// the lexer/parser must treat it as a VARIABLE, not an error (spec.md §4.1).
func (r *Registry) Lookup(name string) (Func, Arity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[strings.ToUpper(name)]
	return e.eval, e.arity, ok
}

// Call invokes the named function, producing NAME? if name isn't
// registered (should not happen for tokens already classified as
// FUNCTION/FUNCTION_FIXED3) and VALUE! if arity doesn't match the supplied
// slots.
func (r *Registry) Call(name string, args []value.Value) value.Value {
	eval, arity, ok := r.Lookup(name)
	if !ok {
		return value.Error(xlerror.ErrName)
	}
	if !arity.Accepts(len(args)) {
		return value.Error(xlerror.ErrValue)
	}
	return eval(args)
}

// Snapshot is the frozen, sorted name partition the lexer consumes to build
// its per-arity regex alternations (spec.md §9's two-phase construction).
type Snapshot struct {
	// FixedN maps an arity count to the sorted names registered with that
	// fixed arity (only non-empty classes are populated).
	FixedN map[int][]string
	// Variadic is every other registered name, sorted.
	Variadic []string
}

// Snapshot freezes the current registry contents. Call this once, after all
// Register calls complete, before constructing a Parser — mutating the
// registry afterwards does not affect already-taken snapshots.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := Snapshot{FixedN: make(map[int][]string)}
	for name, e := range r.entries {
		if e.arity.fixed {
			snap.FixedN[e.arity.n] = append(snap.FixedN[e.arity.n], name)
		} else {
			snap.Variadic = append(snap.Variadic, name)
		}
	}
	for n := range snap.FixedN {
		sort.Strings(snap.FixedN[n])
	}
	sort.Strings(snap.Variadic)
	return snap
}
