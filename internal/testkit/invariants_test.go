package testkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"sysyc/internal/ast"
	"sysyc/internal/irgen"
	"sysyc/internal/lexer"
	"sysyc/internal/parser"
	"sysyc/internal/source"
)

func TestInvariantsOnValidProgram(t *testing.T) {
	src := "const int N = 2;\nint g[N] = {1};\nint main() { int a = g[1]; while (a < 3) a = a + 1; return a; }\n"
	fs := source.NewFileSet()
	id := fs.AddVirtual("ok.c", []byte(src))
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(context.Background(), lexer.New(fs.Get(id), lexer.Options{}), b, parser.Options{})
	require.NoError(t, res.Err)
	require.NoError(t, CheckSpanInvariants(b, res.File, fs.Get(id)))

	p, err := irgen.Generate(context.Background(), b, res.File, irgen.Options{})
	require.NoError(t, err)
	require.NoError(t, CheckProgram(p))
}

func TestInvariantsRejectNil(t *testing.T) {
	require.Error(t, CheckSpanInvariants(nil, 0, nil))
}
