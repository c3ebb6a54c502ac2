package diagfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysyc/internal/diag"
	"sysyc/internal/source"
)

const mainSrc = "int main() {\n  return x;\n}\n"

func undefinedX(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("src/main.c", []byte(mainSrc))
	bag := diag.NewBag(8)
	// "x" sits at byte 22: line 2, column 10.
	bag.Add(diag.FromError(diag.UndefinedIdentifier(source.Span{File: id, Start: 22, End: 23}, "x")))
	return bag, fs
}

func TestPretty(t *testing.T) {
	bag, fs := undefinedX(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	want := "main.c:2:10: error SEM3005: Undefined identifier 'x'\n" +
		" 2 |   return x;\n" +
		"   |          ^\n"
	assert.Equal(t, want, buf.String())
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.c", []byte("int a;\nint a;\n"))
	prev := source.Span{File: id, Start: 4, End: 5}
	bag := diag.NewBag(8)
	bag.Add(diag.FromError(diag.Redefinition(source.Span{File: id, Start: 11, End: 12}, "a", &prev)))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	out := buf.String()
	assert.Contains(t, out, "a.c:2:5: error SEM3002: Redefinition 'a'")
	assert.Contains(t, out, "a.c:1:5: note: previous definition is here")
	assert.Equal(t, 2, strings.Count(out, "^"))
}

func TestPrettyWithoutLocation(t *testing.T) {
	bag := diag.NewBag(8)
	bag.Add(diag.FromError(errors.New("disk full")))

	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{})
	assert.Equal(t, "error E0000: disk full\n", buf.String())
}

func TestUnderline(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		from, to uint32
		want     string
	}{
		{"single", "return x;", 8, 9, "       ^"},
		{"range", "a = foo(1);", 5, 11, "    ^~~~~~"},
		{"range end exclusive", "a = foo(1);", 5, 10, "    ^~~~~"},
		{"empty span", "x", 1, 1, "^"},
		{"tab", "\tx", 2, 3, "    ^"},
		{"wide rune", "中 x", 5, 6, "   ^"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, underline(tt.line, tt.from, tt.to))
		})
	}
}

func TestJSON(t *testing.T) {
	bag, fs := undefinedX(t)
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, bag, fs, PathModeBasename))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "SEM3005", got[0]["code"])
	loc := got[0]["location"].(map[string]any)
	assert.Equal(t, "main.c", loc["file"])
	assert.InDelta(t, 2, loc["line"], 0)
}

func TestWriteShort(t *testing.T) {
	bag, fs := undefinedX(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatShort, bag, fs, PrettyOpts{}))
	assert.Equal(t, "error SEM3005 src/main.c:2:10 Undefined identifier 'x'\n", buf.String())
}

func TestFormatPath(t *testing.T) {
	assert.Equal(t, "main.c", formatPath("/work/src/main.c", PathModeBasename, ""))
	assert.Equal(t, "src/main.c", formatPath("/work/src/main.c", PathModeRelative, "/work"))
	assert.Equal(t, "<stdin>", formatPath("<stdin>", PathModeRelative, "/work"))
	assert.Equal(t, "/elsewhere/a.c", formatPath("/elsewhere/a.c", PathModeAuto, "/work"))
}
