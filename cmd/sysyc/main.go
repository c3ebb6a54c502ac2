// Command sysyc compiles SysY sources to Koopa IR.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"sysyc/internal/version"
)

// errReported marks a failure whose diagnostics were already printed.
var errReported = errors.New("reported")

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "sysyc",
		Short:         "SysY to Koopa IR compiler",
		Long:          "sysyc lowers SysY programs to Koopa IR text.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "print phase timings to stderr")
	pf.Bool("no-prelude", false, "do not declare the runtime library functions")
	pf.Int("jobs", 0, "units compiled in parallel (0 = GOMAXPROCS)")
	pf.String("diag-format", "pretty", "diagnostic format (pretty|short|json)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 = off)")
	pf.String("cpuprofile", "", "write a CPU profile to this file")
	pf.String("memprofile", "", "write a heap profile to this file on exit")
	pf.String("exectrace", "", "write a Go execution trace to this file")

	root.AddCommand(
		newBuildCmd(a),
		newIRCmd(a),
		newTokenizeCmd(a),
		newParseCmd(a),
		newWatchCmd(a),
		newCacheCmd(a),
		newVersionCmd(a),
	)
	return root
}

// run executes one command line. Timings and trace output are flushed
// whether or not the command succeeds.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err != nil {
		a.failed = true
	}
	a.teardown()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(stderr, "sysyc: %v\n", err)
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
