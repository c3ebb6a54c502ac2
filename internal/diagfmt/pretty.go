package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sysyc/internal/diag"
	"sysyc/internal/source"
)

type palette struct {
	err, warn, info, code, caret, note, gutter *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan),
		code:   mk(color.Bold),
		caret:  mk(color.FgGreen, color.Bold),
		note:   mk(color.FgBlue, color.Bold),
		gutter: mk(color.FgBlue),
	}
}

func (p palette) severity(sev diag.Severity) string {
	label := strings.ToLower(sev.String())
	switch sev {
	case diag.SevError:
		return p.err.Sprint(label)
	case diag.SevWarning:
		return p.warn.Sprint(label)
	default:
		return p.info.Sprint(label)
	}
}

// Pretty renders every diagnostic in bag as
//
//	path:line:col: error CODE: message
//	   3 | int main() { return x; }
//	     |                     ^
//
// followed by its notes when ShowNotes is set. Diagnostics whose span does
// not belong to fs print the header line only.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		header := fmt.Sprintf("%s %s: %s", p.severity(d.Severity), p.code.Sprint(d.Code.ID()), d.Message)
		writeLocated(w, fs, d.Primary, header, opts, p, p.caret)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			writeLocated(w, fs, n.Span, p.note.Sprint("note")+": "+n.Msg, opts, p, p.note)
		}
	}
}

func writeLocated(w io.Writer, fs *source.FileSet, span source.Span, header string, opts PrettyOpts, p palette, mark *color.Color) {
	file := lookup(fs, span)
	if file == nil {
		fmt.Fprintln(w, header)
		return
	}
	start, end := fs.Resolve(span)
	fmt.Fprintf(w, "%s:%d:%d: %s\n", formatPath(file.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col, header)

	line := strings.TrimRight(file.GetLine(start.Line), "\r")
	num := fmt.Sprintf("%d", start.Line)
	pad := strings.Repeat(" ", len(num))
	fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), expandTabs(line))

	endCol := end.Col
	if end.Line != start.Line {
		endCol = uint32(len(line)) + 1
	}
	fmt.Fprintf(w, " %s %s %s\n", pad, p.gutter.Sprint("|"), mark.Sprint(underline(line, start.Col, endCol)))
}

func lookup(fs *source.FileSet, span source.Span) *source.File {
	if fs == nil || int(span.File) >= fs.Len() {
		return nil
	}
	f := fs.Get(span.File)
	if span.Start == 0 && span.End == 0 && len(f.Content) == 0 {
		return nil
	}
	return f
}

// underline returns spaces up to byte column from and one caret followed by
// tildes to byte column to, measured in display cells.
func underline(line string, from, to uint32) string {
	if from == 0 {
		from = 1
	}
	startByte := min(int(from-1), len(line))
	endByte := min(max(int(to-1), startByte), len(line))

	lead := runewidth.StringWidth(expandTabs(line[:startByte]))
	width := max(runewidth.StringWidth(line[startByte:endByte]), 1)
	return strings.Repeat(" ", lead) + "^" + strings.Repeat("~", width-1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
