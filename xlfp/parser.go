// Package xlfp is the public facade: construct a Parser, parse formula text
// into a reusable Thunk, invoke it against a binding map. Internals (the
// lexer, the AST, the broadcasting runtime, the built-in catalogue) stay in
// subpackages the way github.com/kralicky/protocompile keeps its grammar
// internals under internal/ while exposing compiler.go/resolver.go at the
// module root.
package xlfp

import (
	"xlfp/builtins"
	"xlfp/internal/ast"
	"xlfp/internal/diagnostics"
	"xlfp/internal/lexer"
	"xlfp/internal/runtime"
	"xlfp/internal/xparser"
	"xlfp/registry"
	"xlfp/value"
	"xlfp/xlerror"
)

// Options configures a Parser. A zero Options is valid: it resolves cells to
// Blank and builds its own builtins.DefaultRegistry().
type Options struct {
	// Debug asks the grammar driver to emit parse diagnostics (position,
	// offending token) without changing evaluation semantics.
	Debug bool
	// CellResolver answers a syntactic cell reference the binding map didn't
	// already satisfy. Defaults to always-Blank.
	CellResolver runtime.CellResolver
	// Registry supplies the function catalogue. Defaults to
	// builtins.DefaultRegistry().
	Registry *registry.Registry
}

// Parser builds Thunks against one frozen registry snapshot — spec.md §9's
// two-phase construction means every Register call must happen before
// NewParser, since the lexer's per-arity regex alternations are built once,
// here, not re-derived per parse.
type Parser struct {
	registry *registry.Registry
	snapshot registry.Snapshot
	resolver runtime.CellResolver
	debug    bool
}

// NewParser freezes opts.Registry (or a fresh default) into the snapshot
// every subsequent Parse call's lexer is built from.
func NewParser(opts Options) *Parser {
	reg := opts.Registry
	if reg == nil {
		reg = builtins.DefaultRegistry()
	}
	return &Parser{
		registry: reg,
		snapshot: reg.Snapshot(),
		resolver: opts.CellResolver,
		debug:    opts.Debug,
	}
}

// ParseResult is Parse's outcome: exactly one of Result or Error is usable,
// but Result is never nil — an errorThunk that replays Error on every
// Invoke is always returned too, per spec.md §7's "a structural parse
// failure ... returns a thunk that, when invoked, returns that same error".
type ParseResult struct {
	Result Thunk
	Error  *xlerror.ErrorValue
}

// Thunk is a compiled, reusable formula: Invoke is a pure function of
// bindings (spec.md §5 — no shared mutable state, safe to call concurrently
// across goroutines sharing one Thunk as long as the registry isn't being
// mutated).
type Thunk interface {
	Invoke(bindings map[string]value.Value) value.Value
}

// Parse lexes and parses text against p's frozen registry snapshot. A
// lexical or syntactic failure never panics past this call — it's folded
// into ParseResult.Error and an errorThunk that reproduces it on Invoke.
func (p *Parser) Parse(text string) ParseResult {
	scanner := lexer.NewScanner(text, p.snapshot)
	tokens, lexErr := scanner.Scan()
	if p.debug {
		diagnostics.TraceTokens(text, tokens, lexErr)
	}
	if lexErr != nil {
		return ParseResult{Result: errorThunk{lexErr}, Error: lexErr}
	}
	expr, parseErr := xparser.Parse(tokens)
	if parseErr != nil {
		if p.debug {
			diagnostics.TraceParseFailure(text, parseErr)
		}
		return ParseResult{Result: errorThunk{parseErr}, Error: parseErr}
	}
	return ParseResult{Result: &exprThunk{expr: expr, registry: p.registry, resolver: p.resolver}}
}

// exprThunk is the live Thunk implementation: it walks expr through a fresh
// runtime.Evaluator on every Invoke, per spec.md §9's "plain AST interpreted
// on each call" option (the API contract is the same either way; this
// engine doesn't pre-compile to a closure since the tree-walk is already
// what the teacher's compiler.Compiler pattern generalizes to here).
type exprThunk struct {
	expr     ast.Expr
	registry *registry.Registry
	resolver runtime.CellResolver
}

func (t *exprThunk) Invoke(bindings map[string]value.Value) value.Value {
	eval := runtime.New(bindings, t.resolver, t.registry)
	return eval.Eval(t.expr)
}

// errorThunk is what Parse hands back for a structural failure: every
// Invoke just replays the same sentinel, per spec.md §7.
type errorThunk struct {
	err *xlerror.ErrorValue
}

func (t errorThunk) Invoke(map[string]value.Value) value.Value {
	return value.Error(t.err)
}
