package main

import (
	"sysyc/internal/buildpipeline"
	"sysyc/internal/diag"
	"sysyc/internal/diagfmt"
)

// reportUnits prints the diagnostic of every failed unit and marks the run
// as failed. It returns errReported when anything was printed.
func (a *app) reportUnits(units ...*buildpipeline.Unit) error {
	failed := false
	for _, u := range units {
		if u == nil || !u.Failed() {
			continue
		}
		failed = true
		bag := diag.NewBag(1)
		bag.Add(u.Diagnostic())
		opts := diagfmt.PrettyOpts{Color: a.color, ShowNotes: true, BaseDir: a.manifest.Root}
		if err := diagfmt.Write(a.stderr, a.diagFormat, bag, u.Files, opts); err != nil {
			return err
		}
	}
	if !failed {
		return nil
	}
	a.failed = true
	return errReported
}
