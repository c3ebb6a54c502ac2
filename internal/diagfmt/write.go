package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"sysyc/internal/diag"
	"sysyc/internal/source"
)

type locationJSON struct {
	File string `json:"file"`
	Line uint32 `json:"line,omitempty"`
	Col  uint32 `json:"col,omitempty"`
}

type noteJSON struct {
	Message  string       `json:"message"`
	Location locationJSON `json:"location"`
}

type diagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location locationJSON `json:"location"`
	Notes    []noteJSON   `json:"notes,omitempty"`
}

// JSON writes bag as an array of diagnostics.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) error {
	out := make([]diagnosticJSON, 0, bag.Len())
	for _, d := range bag.Items() {
		dj := diagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: locate(fs, d.Primary, mode),
		}
		for _, n := range d.Notes {
			dj.Notes = append(dj.Notes, noteJSON{Message: n.Msg, Location: locate(fs, n.Span, mode)})
		}
		out = append(out, dj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("diagfmt: encode json: %w", err)
	}
	return nil
}

func locate(fs *source.FileSet, span source.Span, mode PathMode) locationJSON {
	f := lookup(fs, span)
	if f == nil {
		return locationJSON{}
	}
	start, _ := fs.Resolve(span)
	return locationJSON{File: formatPath(f.Path, mode, ""), Line: start.Line, Col: start.Col}
}

// Write renders bag in the requested format.
func Write(w io.Writer, format Format, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	switch format {
	case FormatJSON:
		return JSON(w, bag, fs, opts.PathMode)
	case FormatShort:
		if s := diag.FormatGoldenDiagnostics(bag.Items(), fs, opts.ShowNotes); s != "" {
			_, err := fmt.Fprintln(w, s)
			return err
		}
		return nil
	default:
		Pretty(w, bag, fs, opts)
		return nil
	}
}
