package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sysyc/internal/project"
	"sysyc/internal/trace"
)

type tracing struct {
	tracer    trace.Tracer
	heartbeat *trace.Heartbeat
	span      *trace.Span
	format    trace.Format
}

// setupTracing builds the tracer from the --trace* flags, falling back to
// the manifest's [trace] table for flags left unset, and attaches it to the
// command context.
func setupTracing(cmd *cobra.Command, m *project.Manifest) (*tracing, error) {
	pf := cmd.Root().PersistentFlags()
	str := func(flag, fallback string) (string, error) {
		v, err := pf.GetString(flag)
		if err != nil {
			return "", err
		}
		if !pf.Changed(flag) && fallback != "" {
			return fallback, nil
		}
		return v, nil
	}

	output, err := str("trace", m.Trace.Output)
	if err != nil {
		return nil, err
	}
	levelStr, err := str("trace-level", m.Trace.Level)
	if err != nil {
		return nil, err
	}
	modeStr, err := str("trace-mode", m.Trace.Mode)
	if err != nil {
		return nil, err
	}
	formatStr, err := pf.GetString("trace-format")
	if err != nil {
		return nil, err
	}
	ringSize, err := pf.GetInt("trace-ring-size")
	if err != nil {
		return nil, err
	}
	heartbeat, err := pf.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, err
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	// --trace alone means "phase".
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		Output:     outputWriter(cmd, output),
		RingSize:   ringSize,
		Heartbeat:  heartbeat,
	})
	if err != nil {
		return nil, err
	}
	t := &tracing{tracer: tracer, format: format}
	t.span = trace.Begin(tracer, trace.ScopeDriver, "sysyc "+cmd.Name(), 0)
	ctx := trace.WithTracer(cmd.Context(), tracer)
	ctx = trace.WithParent(ctx, t.span.ID())
	cmd.SetContext(ctx)
	t.heartbeat = trace.StartHeartbeat(tracer, heartbeat)
	return t, nil
}

// outputWriter routes "-" to the command's stderr so tests can capture it.
func outputWriter(cmd *cobra.Command, output string) io.Writer {
	if output == "" || output == "-" {
		return cmd.ErrOrStderr()
	}
	return nil
}

// close ends the driver span and flushes. On failure a ring tracer dumps
// what it kept.
func (t *tracing) close(stderr io.Writer, failed bool) {
	t.heartbeat.Stop()
	t.span.End("")
	if failed {
		if ring := ringOf(t.tracer); ring != nil {
			fmt.Fprintln(stderr, "trace (most recent events):")
			if err := ring.Dump(stderr, trace.FormatText); err != nil {
				fmt.Fprintf(stderr, "trace: dump: %v\n", err)
			}
		}
	}
	if err := t.tracer.Close(); err != nil {
		fmt.Fprintf(stderr, "trace: close: %v\n", err)
	}
}

func ringOf(t trace.Tracer) *trace.RingTracer {
	switch t := t.(type) {
	case *trace.RingTracer:
		return t
	case *trace.MultiTracer:
		if r, ok := t.Ring(); ok {
			return r
		}
	}
	return nil
}
