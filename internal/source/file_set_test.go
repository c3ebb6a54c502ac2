package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysyc/internal/source"
)

func TestFileSetResolve(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.c", []byte("int a;\nint main() {\n  return a;\n}\n"))

	tests := []struct {
		name string
		off  uint32
		want source.LineCol
	}{
		{name: "file_start", off: 0, want: source.LineCol{Line: 1, Col: 1}},
		{name: "first_newline", off: 6, want: source.LineCol{Line: 1, Col: 7}},
		{name: "second_line", off: 7, want: source.LineCol{Line: 2, Col: 1}},
		{name: "return_kw", off: 22, want: source.LineCol{Line: 3, Col: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := fs.Resolve(source.Span{File: id, Start: tt.off, End: tt.off})
			assert.Equal(t, tt.want, start)
		})
	}
}

func TestFileGetLine(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("x.c", []byte("a\nbb\nccc")))

	assert.Equal(t, "a", f.GetLine(1))
	assert.Equal(t, "bb", f.GetLine(2))
	assert.Equal(t, "ccc", f.GetLine(3))
	assert.Equal(t, "", f.GetLine(4))
	assert.Equal(t, "", f.GetLine(0))
}

func TestNormalize(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("x\r\ny\r\n")...)
	out, flags := source.Normalize(in)
	require.Equal(t, "x\ny\n", string(out))
	assert.NotZero(t, flags&source.FileHadBOM)
	assert.NotZero(t, flags&source.FileNormalizedCRLF)

	// "e" followed by a combining acute accent folds into a single code point.
	out, flags = source.Normalize([]byte("e\u0301"))
	assert.Equal(t, "\u00e9", string(out))
	assert.NotZero(t, flags&source.FileNormalizedNFC)
}
