package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto prints paths relative to BaseDir when that is shorter.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures human-readable rendering.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	BaseDir   string // for relative paths; empty means the working directory
	ShowNotes bool
}

// Format selects the renderer used by Write.
type Format uint8

const (
	FormatPretty Format = iota
	FormatShort         // one line per diagnostic
	FormatJSON
)

func ParseFormat(s string) (Format, bool) {
	switch s {
	case "pretty", "":
		return FormatPretty, true
	case "short":
		return FormatShort, true
	case "json":
		return FormatJSON, true
	}
	return FormatPretty, false
}
