// Package trace records what the compiler is doing while it does it.
//
// It is the logging layer of sysyc: there is no log or slog output. A
// Tracer receives span begin/end and point events; spans nest through
// parent ids. Tracers travel in a context.Context:
//
//	ctx = trace.WithTracer(ctx, t)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", parent)
//	defer span.End("")
//
// Scopes from coarse to fine: ScopeDriver for a CLI command, ScopePass for
// one stage of one unit (lex, parse, lower, validate, emit), ScopeModule for
// lowering one function, ScopeNode for anything finer. The Level decides
// which scopes are recorded.
package trace
