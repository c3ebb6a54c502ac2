package parser_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/lexer"
	"sysyc/internal/parser"
	"sysyc/internal/source"
)

func parseSource(t *testing.T, input string) (*ast.Builder, parser.Result) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.sy", []byte(input))
	lx := lexer.New(fs.Get(fileID), lexer.Options{})
	builder := ast.NewBuilder(ast.Hints{})
	return builder, parser.ParseFile(context.Background(), lx, builder, parser.Options{})
}

func dump(t *testing.T, input string) string {
	t.Helper()
	b, res := parseSource(t, input)
	require.NoError(t, res.Err)
	var sb strings.Builder
	require.NoError(t, ast.Dump(&sb, b, res.File))
	return sb.String()
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"mul binds tighter", "a + b * 3", "(a + (b * 3))"},
		{"left assoc", "a - b - c", "((a - b) - c)"},
		{"logical", "a || b && c", "(a || (b && c))"},
		{"relational over equality", "a < b == c > d", "((a < b) == (c > d))"},
		{"unary chain", "-!+x", "(-(!(+x)))"},
		{"parens", "(a + b) * c", "((a + b) * c)"},
		{"call and index", "f(a[1][i+1], 2)", "f(a[1][(i + 1)], 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dump(t, "int main() { return "+tt.expr+"; }")
			assert.Contains(t, got, "Return "+tt.want+"\n")
		})
	}
}

func TestParseCompUnit(t *testing.T) {
	src := `
const int N = 10, M[2] = {1, 2};
int g[N][2] = {{1}, 2, 3};
int getint();
void fill(int a[], int b[][3], int n);
int main() {
  int x = 1, y;
  if (x) y = 2; else { y = 3; }
  while (x < N) { x = x + 1; if (x == 5) break; continue; }
  ;
  putint(x);
  return;
}
`
	want := `CompUnit
  ConstDecl int
    N = 10
    M[2] = {1, 2}
  Decl int
    g[N][2] = {{1}, 2, 3}
  FuncDecl int getint()
  FuncDecl void fill(int a[], int b[][3], int n)
  FuncDef int main()
    Block
      Decl int
        x = 1
        y
      If x
        Assign y = 2
      Else
        Block
          Assign y = 3
      While (x < N)
        Block
          Assign x = (x + 1)
          If (x == 5)
            Break
          Continue
      Empty
      Expr putint(x)
      Return
`
	assert.Equal(t, want, dump(t, src))
}

func TestParseDanglingElse(t *testing.T) {
	got := dump(t, "int main() { if (a) if (b) return 1; else return 2; }")
	want := `CompUnit
  FuncDef int main()
    Block
      If a
        If b
          Return 1
        Else
          Return 2
`
	assert.Equal(t, want, got)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"missing semicolon", "int a = 1", diag.SynExpectSemicolon},
		{"missing type", "main() {}", diag.SynExpectType},
		{"missing identifier", "int = 3;", diag.SynExpectIdentifier},
		{"unclosed block", "int main() { return 0;", diag.SynUnclosedBrace},
		{"bad assignment target", "int main() { 1 = 2; }", diag.SynUnexpectedToken},
		{"missing operand", "int main() { return 1 + ; }", diag.SynExpectExpression},
		{"lexical error wins", "int main() { return 1 $ 2; }", diag.LexUnknownChar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res := parseSource(t, tt.input)
			require.Error(t, res.Err)
			assert.Equal(t, tt.code, diag.CodeOf(res.Err), res.Err.Error())
		})
	}
}

// TestParseLValue tests that subscripts come back in source order.
func TestParseLValue(t *testing.T) {
	b, res := parseSource(t, "int main() { a[1][2][3] = 0; }")
	require.NoError(t, res.Err)
	fn, ok := b.Items.Fn(b.Files.Get(res.File).Items[0])
	require.True(t, ok)
	assign := b.Stmts.Assign(b.Stmts.Block(fn.Body).Stmts[0])
	require.NotNil(t, assign)

	name, _, indices, ok := b.Exprs.LValue(assign.Target)
	require.True(t, ok)
	assert.Equal(t, "a", name)
	require.Len(t, indices, 3)
	for i, want := range []int32{1, 2, 3} {
		lit, ok := b.Exprs.Literal(indices[i])
		require.True(t, ok)
		assert.Equal(t, want, lit.Value)
	}
}
