package consteval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysyc/internal/ast"
	"sysyc/internal/consteval"
	"sysyc/internal/diag"
	"sysyc/internal/lexer"
	"sysyc/internal/parser"
	"sysyc/internal/source"
)

type mapResolver struct {
	consts map[string]consteval.Value
	vars   map[string]bool
}

func (m mapResolver) ResolveConst(name string) (consteval.Value, bool, bool) {
	if v, ok := m.consts[name]; ok {
		return v, true, true
	}
	return consteval.Value{}, false, m.vars[name]
}

func parseFile(t *testing.T, src string) (*ast.Builder, *ast.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sy", []byte(src))
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(context.Background(), lexer.New(fs.Get(id), lexer.Options{}), b, parser.Options{})
	require.NoError(t, res.Err)
	return b, b.Files.Get(res.File)
}

// parseExpr parses src as the operand of a return statement.
func parseExpr(t *testing.T, src string) (*ast.Builder, ast.ExprID) {
	t.Helper()
	b, f := parseFile(t, "int main() { return "+src+"; }")
	fn, ok := b.Items.Fn(f.Items[0])
	require.True(t, ok)
	ret := b.Stmts.Return(b.Stmts.Block(fn.Body).Stmts[0])
	require.NotNil(t, ret)
	return b, ret.Expr
}

func TestEval(t *testing.T) {
	r := mapResolver{
		consts: map[string]consteval.Value{
			"N":   consteval.Scalar(10),
			"arr": {Dims: []int{2, 2}, Data: []int32{1, 2, 3, 4}},
		},
		vars: map[string]bool{"x": true},
	}
	tests := []struct {
		name string
		src  string
		want int32
	}{
		{"arithmetic", "1 + 2 * 3 - 4 / 2", 5},
		{"modulo negative", "-7 % 3", -1},
		{"unary", "-(-3) + !0 + !5 + +2", 6},
		{"relational", "(1 < 2) + (2 <= 2) + (3 > 4) + (4 >= 4) + (1 == 1) + (1 != 1)", 4},
		{"const name", "N * 2", 20},
		{"const array", "arr[1][0] + arr[0][1]", 5},
		{"and short circuits", "0 && x", 0},
		{"or short circuits", "N || f()", 1},
		{"wraps", "2147483647 + 1", -2147483648},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, e := parseExpr(t, tt.src)
			got, err := consteval.Eval(b, e, r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalNotConstexpr(t *testing.T) {
	r := mapResolver{
		consts: map[string]consteval.Value{"arr": {Dims: []int{2}, Data: []int32{1, 2}}},
		vars:   map[string]bool{"x": true},
	}
	for _, src := range []string{"x + 1", "f()", "1 / 0", "5 % (2 - 2)", "arr", "arr[2]", "arr[x]", "1 && x"} {
		b, e := parseExpr(t, src)
		_, err := consteval.Eval(b, e, r)
		assert.True(t, consteval.IsNotConstexpr(err), src)
	}
}

func TestEvalUndefined(t *testing.T) {
	b, e := parseExpr(t, "1 + y")
	_, err := consteval.Eval(b, e, mapResolver{})
	require.Error(t, err)
	assert.Equal(t, diag.SemaUndefinedIdentifier, diag.CodeOf(err))

	_, err = consteval.Eval(b, e, nil)
	assert.Equal(t, diag.SemaUndefinedIdentifier, diag.CodeOf(err))
}

func TestValueIndex(t *testing.T) {
	v := consteval.Value{Dims: []int{2, 3}, Data: []int32{1, 2, 3, 4, 5, 6}}
	row, ok := v.Index([]int32{1})
	require.True(t, ok)
	assert.Equal(t, []int{3}, row.Dims)
	assert.Equal(t, []int32{4, 5, 6}, row.Data)

	elem, ok := v.Index([]int32{1, 2})
	require.True(t, ok)
	assert.Equal(t, int32(6), elem.Item())

	_, ok = v.Index([]int32{0, 3})
	assert.False(t, ok)
	_, ok = v.Index([]int32{0, 0, 0})
	assert.False(t, ok)
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name string
		decl string
		dims []int
		want []int32
	}{
		{"flat", "int a[4] = {1, 2};", []int{4}, []int32{1, 2, 0, 0}},
		{"nested rows", "int a[2][3] = {{1}, {4, 5}};", []int{2, 3}, []int32{1, 0, 0, 4, 5, 0}},
		{"mixed", "int a[2][2] = {1, 2, {3}};", []int{2, 2}, []int32{1, 2, 3, 0}},
		{"empty", "int a[2][2] = {};", []int{2, 2}, []int32{0, 0, 0, 0}},
		{
			"aligned to inner",
			"int a[2][2][2] = {1, 2, {3}, {4, 5}};",
			[]int{2, 2, 2},
			[]int32{1, 2, 3, 0, 4, 5, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, f := parseFile(t, tt.decl)
			di, ok := b.Items.Decl(f.Items[0])
			require.True(t, ok)
			def := b.Decls.Get(di.Decl).Defs[0]
			got, err := consteval.Flatten(b, def.Init, tt.dims, int32(0), func(e ast.ExprID) (int32, error) {
				return consteval.Eval(b, e, nil)
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlattenErrors(t *testing.T) {
	for _, decl := range []string{
		"int a[2] = {1, 2, 3};",
		"int a[2] = {{1}};",
		"int a[2][2] = {1, {2}};",
		"int a[2] = 1;",
	} {
		b, f := parseFile(t, decl)
		di, _ := b.Items.Decl(f.Items[0])
		def := b.Decls.Get(di.Decl).Defs[0]
		_, err := consteval.Flatten(b, def.Init, []int{2}, int32(0), func(e ast.ExprID) (int32, error) {
			return consteval.Eval(b, e, nil)
		})
		if decl == "int a[2][2] = {1, {2}};" {
			_, err = consteval.Flatten(b, def.Init, []int{2, 2}, int32(0), func(e ast.ExprID) (int32, error) {
				return consteval.Eval(b, e, nil)
			})
		}
		require.Error(t, err, decl)
		assert.Equal(t, diag.SemaTypeMismatch, diag.CodeOf(err), decl)
	}
}
