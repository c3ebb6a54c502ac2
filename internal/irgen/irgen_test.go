package irgen_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/irgen"
	"sysyc/internal/lexer"
	"sysyc/internal/parser"
	"sysyc/internal/source"
)

func lower(t *testing.T, src string, opts irgen.Options) (*ir.Program, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sy", []byte(src))
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(context.Background(), lexer.New(fs.Get(id), lexer.Options{}), b, parser.Options{})
	require.NoError(t, res.Err)
	return irgen.Generate(context.Background(), b, res.File, opts)
}

// lowerText lowers src without the runtime prelude and returns Koopa text.
func lowerText(t *testing.T, src string) string {
	t.Helper()
	p, err := lower(t, src, irgen.Options{NoPrelude: true})
	require.NoError(t, err)
	require.NoError(t, ir.Validate(p))
	return ir.Text(p)
}

func TestLowerGolden(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "runtime variables are not folded",
			src:  `int main(){ int a = 1; int b = 2; return a + b * 3; }`,
			want: `fun @main(): i32 {
%bb0:
  @a = alloc i32
  store 1, @a
  @b = alloc i32
  store 2, @b
  %0 = load @a
  %1 = load @b
  %2 = mul %1, 3
  %3 = add %0, %2
  ret %3
}
`,
		},
		{
			name: "constants fold",
			src:  `int main(){ const int a = 1 + 2; return a; }`,
			want: `fun @main(): i32 {
%bb0:
  ret 3
}
`,
		},
		{
			name: "if with constant condition",
			src:  `int main(){ if (0) return 1; return 2; }`,
			want: `fun @main(): i32 {
%bb0:
  br 0, %bb1, %bb2
%bb1:
  ret 1
%bb2:
  ret 2
}
`,
		},
		{
			name: "logical or",
			src:  `int f(int a, int b) { return a || b; }`,
			want: `fun @f(@a: i32, @b: i32): i32 {
%bb0:
  @a_1 = alloc i32
  store @a, @a_1
  @b_1 = alloc i32
  store @b, @b_1
  %0 = alloc i32
  store 1, %0
  %1 = load @a_1
  %2 = eq %1, 0
  br %2, %bb1, %bb2
%bb1:
  %3 = load @b_1
  %4 = ne %3, 0
  store %4, %0
  jump %bb2
%bb2:
  %5 = load %0
  ret %5
}
`,
		},
		{
			name: "logical and",
			src:  `int f(int a) { return a && 2; }`,
			want: `fun @f(@a: i32): i32 {
%bb0:
  @a_1 = alloc i32
  store @a, @a_1
  %0 = alloc i32
  store 0, %0
  %1 = load @a_1
  %2 = ne %1, 0
  br %2, %bb1, %bb2
%bb1:
  %3 = ne 2, 0
  store %3, %0
  jump %bb2
%bb2:
  %4 = load %0
  ret %4
}
`,
		},
		{
			name: "unary operators",
			src:  `int f(int x) { return -x + !x + +x; }`,
			want: `fun @f(@x: i32): i32 {
%bb0:
  @x_1 = alloc i32
  store @x, @x_1
  %0 = load @x_1
  %1 = sub 0, %0
  %2 = load @x_1
  %3 = eq %2, 0
  %4 = add %1, %3
  %5 = load @x_1
  %6 = add %4, %5
  ret %6
}
`,
		},
		{
			name: "while with break and continue",
			src: `int main(){
  int i = 0;
  while (i < 10) {
    if (i == 5) break;
    i = i + 1;
    continue;
  }
  return i;
}`,
			want: `fun @main(): i32 {
%bb0:
  @i = alloc i32
  store 0, @i
  jump %bb1
%bb1:
  %0 = load @i
  %1 = lt %0, 10
  br %1, %bb2, %bb3
%bb2:
  %2 = load @i
  %3 = eq %2, 5
  br %3, %bb4, %bb5
%bb3:
  %4 = load @i
  ret %4
%bb4:
  jump %bb3
%bb5:
  %5 = load @i
  %6 = add %5, 1
  store %6, @i
  jump %bb1
}
`,
		},
		{
			name: "if else joins",
			src:  `int f(int x) { int y; if (x > 0) y = 1; else y = 2; return y; }`,
			want: `fun @f(@x: i32): i32 {
%bb0:
  @x_1 = alloc i32
  store @x, @x_1
  @y = alloc i32
  %0 = load @x_1
  %1 = gt %0, 0
  br %1, %bb1, %bb2
%bb1:
  store 1, @y
  jump %bb3
%bb2:
  store 2, @y
  jump %bb3
%bb3:
  %2 = load @y
  ret %2
}
`,
		},
		{
			name: "implicit returns",
			src:  `void f() { } int g(int x) { if (x) return 1; }`,
			want: `fun @f() {
%bb0:
  ret
}

fun @g(@x: i32): i32 {
%bb0:
  @x_1 = alloc i32
  store @x, @x_1
  %0 = load @x_1
  br %0, %bb1, %bb2
%bb1:
  ret 1
%bb2:
  ret 0
}
`,
		},
		{
			name: "code after return is dropped",
			src:  `int main() { return 1; int x = 2; x = 3; while (x) { x = x - 1; } return x; }`,
			want: `fun @main(): i32 {
%bb0:
  ret 1
%bb1:
  ret 0
%bb2:
  ret 0
%bb3:
  ret 0
}
`,
		},
		{
			name: "bare return in int function",
			src:  `int main() { return; }`,
			want: `fun @main(): i32 {
%bb0:
  ret 0
}
`,
		},
		{
			name: "forward declaration reuses the function",
			src:  `int f(int a); int main() { return f(1); } int f(int b) { return b; }`,
			want: `fun @f(@b: i32): i32 {
%bb0:
  @b_1 = alloc i32
  store @b, @b_1
  %0 = load @b_1
  ret %0
}

fun @main(): i32 {
%bb0:
  %0 = call @f(1)
  ret %0
}
`,
		},
		{
			name: "local array",
			src:  `int main(){ int a[2] = {7}; return a[1]; }`,
			want: `fun @main(): i32 {
%bb0:
  @a = alloc [i32, 2]
  %0 = getelemptr @a, 0
  store 7, %0
  %1 = getelemptr @a, 1
  store 0, %1
  %2 = getelemptr @a, 1
  %3 = load %2
  ret %3
}
`,
		},
		{
			name: "globals",
			src: `const int N = 2;
int g[N] = {1};
int z;
const int C[2] = {3, 4};
int main(){ int i = 1; return g[0] + C[1] + C[i] + z; }`,
			want: `global @g = alloc [i32, 2], {1, 0}
global @z = alloc i32, zeroinit
global @C = alloc [i32, 2], {3, 4}

fun @main(): i32 {
%bb0:
  @i = alloc i32
  store 1, @i
  %0 = getelemptr @g, 0
  %1 = load %0
  %2 = add %1, 4
  %3 = load @i
  %4 = getelemptr @C, %3
  %5 = load %4
  %6 = add %2, %5
  %7 = load @z
  %8 = add %6, %7
  ret %8
}
`,
		},
		{
			name: "array parameter",
			src:  `int sum(int a[], int n) { return a[0] + n; } int main() { int x[3]; return sum(x, 3); }`,
			want: `fun @sum(@a: *i32, @n: i32): i32 {
%bb0:
  @a_1 = alloc *i32
  store @a, @a_1
  @n_1 = alloc i32
  store @n, @n_1
  %0 = load @a_1
  %1 = getptr %0, 0
  %2 = load %1
  %3 = load @n_1
  %4 = add %2, %3
  ret %4
}

fun @main(): i32 {
%bb0:
  @x = alloc [i32, 3]
  %0 = getelemptr @x, 0
  %1 = call @sum(%0, 3)
  ret %1
}
`,
		},
		{
			name: "nested brace initializer",
			src:  `int main(){ int a[2][2] = {1, 2, {3}}; return 0; }`,
			want: `fun @main(): i32 {
%bb0:
  @a = alloc [[i32, 2], 2]
  %0 = getelemptr @a, 0
  %1 = getelemptr %0, 0
  store 1, %1
  %2 = getelemptr @a, 0
  %3 = getelemptr %2, 1
  store 2, %3
  %4 = getelemptr @a, 1
  %5 = getelemptr %4, 0
  store 3, %5
  %6 = getelemptr @a, 1
  %7 = getelemptr %6, 1
  store 0, %7
  ret 0
}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lowerText(t, tt.src))
		})
	}
}

func TestLowerPrelude(t *testing.T) {
	p, err := lower(t, `int main(){ putint(getint()); return 0; }`, irgen.Options{})
	require.NoError(t, err)
	require.NoError(t, ir.Validate(p))

	text := ir.Text(p)
	for _, line := range []string{
		"decl @getint(): i32",
		"decl @getarray(*i32): i32",
		"decl @putarray(i32, *i32): i32",
		"decl @stoptime(): i32",
		"  %0 = call @getint()",
		"  %1 = call @putint(%0)",
	} {
		assert.Contains(t, text, line+"\n")
	}
	assert.Len(t, p.Funcs(), len(irgen.PreludeNames())+1)

	_, err = lower(t, `int main(){ return getint(); }`, irgen.Options{NoPrelude: true})
	assert.Equal(t, diag.SemaUndefinedIdentifier, diag.CodeOf(err))
}

func TestLowerPreludeRedefinition(t *testing.T) {
	p, err := lower(t, `int putint(int x) { return x; } int main() { return putint(1); }`, irgen.Options{})
	require.NoError(t, err)
	f, ok := p.LookupFunc("@putint")
	require.True(t, ok)
	assert.False(t, p.Func(f).IsDecl())

	_, err = lower(t, `void putint(int x) { }`, irgen.Options{})
	assert.Equal(t, diag.SemaRedefinition, diag.CodeOf(err))
}

func TestLowerShortCircuitSkipsRight(t *testing.T) {
	p, err := lower(t, `int f(int a) { return a || getint(); }`, irgen.Options{})
	require.NoError(t, err)
	f, ok := p.LookupFunc("@f")
	require.True(t, ok)
	fd := p.Func(f)
	blocks := fd.Layout().Blocks()
	require.Len(t, blocks, 3)

	// The call lives only in the right-operand block, which the entry
	// branch skips when a is non-zero.
	entryTerm, _ := fd.Layout().Insts(blocks[0]).Back()
	br := fd.DFG().Value(entryTerm)
	require.Equal(t, ir.ValueBranch, br.Kind)
	assert.Equal(t, blocks[1], br.Branch.True)
	assert.Equal(t, blocks[2], br.Branch.False)

	calls := map[ir.BasicBlock]int{}
	for _, bb := range blocks {
		for _, v := range fd.Layout().Insts(bb).Values() {
			if fd.DFG().Value(v).Kind == ir.ValueCall {
				calls[bb]++
			}
		}
	}
	assert.Equal(t, map[ir.BasicBlock]int{blocks[1]: 1}, calls)

	folded := lowerText(t, `int f() { return 1 || 0; }`)
	assert.Equal(t, "fun @f(): i32 {\n%bb0:\n  ret 1\n}\n", folded)
}

func TestLowerTermination(t *testing.T) {
	srcs := []string{
		`int main() { int x = 0; while (x < 3) { if (x) { x = x + 2; } else { x = x + 1; } } }`,
		`void f(int n) { while (1) { if (n) break; else continue; } }`,
		`int main() { if (1) { return 1; } else { return 2; } }`,
		`int main() { while (0) { return 1; } return 1 && 0 || 2; }`,
		`int main() { int a = 1; { int a = 2; { a = a || a && a; } } return a; }`,
	}
	for _, src := range srcs {
		p, err := lower(t, src, irgen.Options{NoPrelude: true})
		require.NoError(t, err, src)
		require.NoError(t, ir.Validate(p), src)
		for _, f := range p.Funcs() {
			fd := p.Func(f)
			for _, bb := range fd.Layout().Blocks() {
				last, ok := fd.Layout().Insts(bb).Back()
				require.True(t, ok, src)
				assert.True(t, fd.DFG().Value(last).Kind.IsTerminator(), src)
			}
		}
	}
}

func TestLowerErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		msg  string
	}{
		{"local redefinition", `int main(){ int a; int a; return 0; }`, diag.SemaRedefinition, "'a'"},
		{"param redefinition", `int f(int a) { int a; return 0; }`, diag.SemaRedefinition, "'a'"},
		{"duplicate params", `int f(int a, int a) { return 0; }`, diag.SemaRedefinition, "'a'"},
		{"global redefinition", `int x; int x;`, diag.SemaRedefinition, "'x'"},
		{"function body twice", `int f(){ return 0; } int f(){ return 1; }`, diag.SemaRedefinition, "'f'"},
		{"function over variable", `int x; int x(){ return 0; }`, diag.SemaRedefinition, "'x'"},
		{"conflicting signature", `int f(int a); int f() { return 0; }`, diag.SemaRedefinition, "conflicting signature"},
		{"undefined", `int main(){ return y; }`, diag.SemaUndefinedIdentifier, "'y'"},
		{"undefined in dead code", `int main(){ return 0; y = 1; }`, diag.SemaUndefinedIdentifier, "'y'"},
		{"undefined function", `int main(){ return f(); }`, diag.SemaUndefinedIdentifier, "'f'"},
		{"assign to const", `int main(){ const int c = 1; c = 2; return 0; }`, diag.SemaIllegalAssignment, "'c'"},
		{"const from variable", `int main(){ int x = 1; const int c = x; return c; }`, diag.SemaConstexprRequired, "constant initializer"},
		{"global from variable", `int g = 1; int h = g;`, diag.SemaConstexprRequired, "global initializer"},
		{"global from call", `int f(); int g = f();`, diag.SemaConstexprRequired, "global initializer"},
		{"array bound", `int main(){ int n = 2; int a[n]; return 0; }`, diag.SemaConstexprRequired, "array bound"},
		{"const without init", `const int c;`, diag.SemaInitializerRequired, "'c'"},
		{"void global", `void x;`, diag.SemaIllegalVoidDeclaration, "'x'"},
		{"void local", `int main(){ void v; return 0; }`, diag.SemaIllegalVoidDeclaration, "'v'"},
		{"break outside loop", `int main(){ break; }`, diag.SemaInvalidControlTransfer, "break statement not within a loop"},
		{"continue outside loop", `int main(){ if (1) continue; return 0; }`, diag.SemaInvalidControlTransfer, "continue"},
		{"void returns value", `void f(){ return 1; }`, diag.SemaTypeMismatch, "returns a value"},
		{"void used as value", `void f(){ } int main(){ return f(); }`, diag.SemaTypeMismatch, "used as a value"},
		{"arity", `int f(int a){ return a; } int main(){ return f(); }`, diag.SemaTypeMismatch, "expects 1 arguments, got 0"},
		{"call a variable", `int main(){ int x; return x(); }`, diag.SemaTypeMismatch, "not a function"},
		{"function as variable", `int f(){ return 0; } int main(){ return f + 1; }`, diag.SemaTypeMismatch, "function 'f'"},
		{"index a scalar", `int main(){ int x; return x[0]; }`, diag.SemaTypeMismatch, "not an array"},
		{"array as value", `int main(){ int a[2]; return a; }`, diag.SemaTypeMismatch, "array 'a'"},
		{"assign to array", `int main(){ int a[2]; a = 1; return 0; }`, diag.SemaTypeMismatch, "cannot assign"},
		{"array argument shape", `int f(int a[][3]){ return 0; } int main(){ int x[2][2]; return f(x); }`, diag.SemaTypeMismatch, "expected an array"},
		{"scalar to array param", `int f(int a[]){ return 0; } int main(){ return f(1); }`, diag.SemaTypeMismatch, "expected an array"},
		{"excess initializers", `int main(){ int a[1] = {1, 2}; return 0; }`, diag.SemaTypeMismatch, "excess elements"},
		{"non-positive bound", `int a[0];`, diag.SemaTypeMismatch, "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := lower(t, tt.src, irgen.Options{NoPrelude: true})
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Equal(t, tt.code, diag.CodeOf(err), err.Error())
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLowerShadowing(t *testing.T) {
	text := lowerText(t, `int a = 5; int main(){ int a = 1; { const int a = 2; { int a = a + 3; return a; } } }`)
	assert.True(t, strings.Contains(text, "global @a = alloc i32, 5\n"), text)
	// The innermost initializer still sees the constant 2.
	assert.Contains(t, text, "  store 5, @a_")
}

func TestLowerCancelled(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sy", []byte(`int main(){ return 0; }`))
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(context.Background(), lexer.New(fs.Get(id), lexer.Options{}), b, parser.Options{})
	require.NoError(t, res.Err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := irgen.Generate(ctx, b, res.File, irgen.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
