// Package diagnostics renders Options.Debug-gated parse traces — position,
// offending token, lexical error — without influencing evaluation
// semantics (spec.md §6: "debug=true asks the grammar driver to emit
// diagnostics but does not change semantics").
//
// Grounded on the teacher's internal/errors.SentraError (Type/Message/
// Location shape) for what a diagnostic line names, generalized here to a
// value that's only ever printed, never panicked or returned to a caller.
package diagnostics

import (
	"log"

	"github.com/google/uuid"

	"xlfp/internal/lexer"
	"xlfp/xlerror"
)

// TraceTokens logs the token stream produced for one Parse call under a
// fresh correlation ID, so multiple concurrent debug parses don't interleave
// unreadably in shared log output.
func TraceTokens(source string, tokens []lexer.Token, lexErr *xlerror.ErrorValue) {
	id := uuid.New().String()[:8]
	log.Printf("[xlfp %s] lex %q -> %d tokens", id, source, len(tokens))
	for _, t := range tokens {
		log.Printf("[xlfp %s]   %s", id, t.String())
	}
	if lexErr != nil {
		log.Printf("[xlfp %s] lex error: %s", id, lexErr.Error())
	}
}

// TraceParseFailure logs a structural parse failure's offending detail.
func TraceParseFailure(source string, err *xlerror.ErrorValue) {
	id := uuid.New().String()[:8]
	log.Printf("[xlfp %s] parse %q failed: %s", id, source, err.Error())
}
