// Package consteval folds SysY expressions and initializers at compile time.
//
// Eval either returns the exact int32 result or ErrNotConstexpr when the
// expression depends on runtime state (variables, calls, division by
// zero). Name errors are reported as *diag.Error so callers can surface
// them unchanged.
package consteval
