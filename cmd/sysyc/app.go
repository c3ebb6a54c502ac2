package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"sysyc/internal/diagfmt"
	"sysyc/internal/observ"
	"sysyc/internal/prof"
	"sysyc/internal/project"
	"sysyc/internal/version"
)

// app carries state from the root command's pre-run hook to subcommands.
type app struct {
	manifest   *project.Manifest
	found      bool
	color      bool
	quiet      bool
	noPrelude  bool
	jobs       int
	diagFormat diagfmt.Format
	timer      *observ.Timer
	failed     bool

	stderr   io.Writer
	tracing  *tracing
	profile  *prof.Session
	manifErr error
}

func (a *app) setup(cmd *cobra.Command) error {
	a.stderr = cmd.ErrOrStderr()
	pf := cmd.Root().PersistentFlags()

	mode, err := pf.GetString("color")
	if err != nil {
		return err
	}
	if a.color, err = colorEnabled(mode, a.stderr); err != nil {
		return err
	}
	color.NoColor = !a.color

	if a.quiet, err = pf.GetBool("quiet"); err != nil {
		return err
	}
	timings, err := pf.GetBool("timings")
	if err != nil {
		return err
	}
	if timings {
		a.timer = observ.NewTimer()
	}
	format, err := pf.GetString("diag-format")
	if err != nil {
		return err
	}
	var ok bool
	if a.diagFormat, ok = diagfmt.ParseFormat(format); !ok {
		return fmt.Errorf("invalid --diag-format %q (expected pretty|short|json)", format)
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	// A broken manifest only matters to commands that build; tokenize and
	// version keep working.
	a.manifest, a.found, a.manifErr = project.Discover(wd)
	if a.manifErr != nil {
		a.manifest = project.Default(wd)
	}

	a.noPrelude, err = pf.GetBool("no-prelude")
	if err != nil {
		return err
	}
	if !pf.Changed("no-prelude") && !a.manifest.PreludeEnabled() {
		a.noPrelude = true
	}
	a.jobs, err = pf.GetInt("jobs")
	if err != nil {
		return err
	}
	if !pf.Changed("jobs") {
		a.jobs = a.manifest.Build.Jobs
	}

	if a.profile, err = startProfiling(pf); err != nil {
		return err
	}
	a.tracing, err = setupTracing(cmd, a.manifest)
	return err
}

func startProfiling(pf *pflag.FlagSet) (*prof.Session, error) {
	var cfg prof.Config
	for flag, dst := range map[string]*string{"cpuprofile": &cfg.CPU, "memprofile": &cfg.Mem, "exectrace": &cfg.ExecTrace} {
		v, err := pf.GetString(flag)
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	if !cfg.Enabled() {
		return nil, nil
	}
	return prof.Start(cfg)
}

// requireManifest reports a manifest that failed to load and checks the
// toolchain constraint of one that did.
func (a *app) requireManifest() error {
	if a.manifErr != nil {
		return a.manifErr
	}
	if !a.found {
		return nil
	}
	v, err := version.Semver()
	if err != nil {
		return err
	}
	return a.manifest.CheckToolchain(v)
}

func (a *app) teardown() {
	if a.stderr == nil {
		return
	}
	if a.timer != nil {
		fmt.Fprint(a.stderr, a.timer.Summary())
	}
	if a.tracing != nil {
		a.tracing.close(a.stderr, a.failed)
	}
	if err := a.profile.Stop(); err != nil {
		fmt.Fprintf(a.stderr, "sysyc: %v\n", err)
	}
}

func (a *app) infof(format string, args ...any) {
	if a.quiet {
		return
	}
	fmt.Fprintf(a.stderr, format, args...)
}

func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch strings.ToLower(mode) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto", "":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		return isTerminal(w), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec
}
