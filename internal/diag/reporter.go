package diag

import "sysyc/internal/source"

// Reporter receives diagnostics from compilation phases.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter appends every report to Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

// ReportErr converts err with FromError and forwards it.
func ReportErr(r Reporter, err error) {
	if r == nil || err == nil {
		return
	}
	d := FromError(err)
	r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}
