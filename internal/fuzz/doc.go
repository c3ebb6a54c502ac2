// Package fuzztests holds fuzz harnesses for the front end and lowering:
// arbitrary bytes must never panic or hang the lexer, the parser or irgen,
// and whatever irgen accepts must validate.
package fuzztests
