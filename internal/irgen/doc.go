// Package irgen lowers a parsed SysY compilation unit to Koopa IR.
//
// Lowering runs one function at a time through a Context, which owns the
// current basic block, the loop target stack and the block name counter.
// Code that follows a terminator is unreachable: Emit drops it without
// error. After every function is lowered, blocks left open are closed with
// an implicit return.
package irgen
