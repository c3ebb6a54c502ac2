// Package diag defines the error taxonomy and diagnostic records shared by
// every compilation phase.
//
// Phases fail fast: the lexer, parser and IR generator return a *Error that
// carries a Code, a primary span and the offending identifier. The build
// pipeline turns those errors into Diagnostic records, collects them in a Bag
// (one per failed compilation unit) and hands the bag to internal/diagfmt for
// rendering.
//
// Codes are grouped by phase: LEX1xxx lexical, SYN2xxx syntax, SEM3xxx
// semantic (raised during lowering), IO4xxx file access, PRJ5xxx manifest,
// IR9xxx internal invariant violations. IR codes indicate a compiler bug, not
// a problem with the input program.
package diag
