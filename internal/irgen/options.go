package irgen

import (
	"sysyc/internal/trace"
)

// Options tune a Generate call.
type Options struct {
	// NoPrelude skips declaring the SysY runtime library.
	NoPrelude bool
	// Tracer receives one ScopeModule span per lowered function.
	Tracer trace.Tracer
	// ParentSpan links those spans under a pass span.
	ParentSpan uint64
}
