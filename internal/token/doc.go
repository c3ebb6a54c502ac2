// Package token defines lexical token kinds for SysY sources.
// Invariants:
//   - Token.Text is a slice of the file contents (no copies).
//   - Token.Span matches Text exactly.
//   - Comments and whitespace never appear in the token stream.
package token
