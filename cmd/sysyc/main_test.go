package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	stdout, stderr string
	err            error
}

// sysyc runs a command line inside a fresh project-less directory with a
// private cache.
func sysyc(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, ".cache"))
	t.Setenv("NO_COLOR", "1")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestIRFromStdin(t *testing.T) {
	isolate(t)
	r := sysyc(t, "int main() { return 1 + 2; }", "--no-prelude", "ir", "-")
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "fun @main(): i32 {\n%bb0:\n  ret 3\n}\n", r.stdout)

	r = sysyc(t, "int main() { return getint(); }", "ir", "-")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "decl @getint(): i32")
	assert.Contains(t, r.stdout, "call @getint()")
}

func TestIRToFile(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "a.c")
	writeFile(t, src, "int main() { return 0; }\n")
	out := filepath.Join(dir, "out", "a.koopa")

	r := sysyc(t, "", "--no-prelude", "ir", src, "-o", out)
	require.NoError(t, r.err, r.stderr)
	assert.Empty(t, r.stdout)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ret 0")
}

func TestIRReportsDiagnostics(t *testing.T) {
	isolate(t)
	r := sysyc(t, "int main() {\n  return x;\n}\n", "ir", "-")
	require.ErrorIs(t, r.err, errReported)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "<stdin>:2:10: error SEM3005: Undefined identifier 'x'")
	assert.Contains(t, r.stderr, "^")

	r = sysyc(t, "int main() { return x; }", "--diag-format=short", "ir", "-")
	require.ErrorIs(t, r.err, errReported)
	assert.Equal(t, "error SEM3005 <stdin>:1:21 Undefined identifier 'x'\n", r.stderr)
}

func TestTokenizeAndParse(t *testing.T) {
	isolate(t)
	r := sysyc(t, "int x;", "tokenize", "-")
	require.NoError(t, r.err, r.stderr)
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1:5\t"))
	assert.True(t, strings.HasSuffix(lines[1], "\tx"))

	r = sysyc(t, "int main() { return 0; }", "parse", "-")
	require.NoError(t, r.err, r.stderr)
	assert.True(t, strings.HasPrefix(r.stdout, "CompUnit\n"))

	r = sysyc(t, "int main( {", "parse", "-")
	require.ErrorIs(t, r.err, errReported)
	assert.Contains(t, r.stderr, "error SYN")
}

func TestBuildProject(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "sysyc.toml"), "[package]\nname = \"demo\"\nsources = [\"src\"]\n")
	writeFile(t, filepath.Join(dir, "src", "a.c"), "int main() { return 0; }\n")
	writeFile(t, filepath.Join(dir, "src", "lib", "b.sy"), "int f() { return 1; }\n")

	r := sysyc(t, "", "build", "--ui=off")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stderr, "built 2 unit(s)")
	assert.Contains(t, r.stderr, "(0 cached)")
	assert.FileExists(t, filepath.Join(dir, "build", "src", "a.koopa"))
	assert.FileExists(t, filepath.Join(dir, "build", "src", "lib", "b.koopa"))

	r = sysyc(t, "", "build", "--ui=off")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stderr, "(2 cached)")

	r = sysyc(t, "", "--quiet", "build", "--ui=off", "--no-cache")
	require.NoError(t, r.err, r.stderr)
	assert.Empty(t, r.stderr)
}

func TestBuildFailure(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "ok.c"), "int main() { return 0; }\n")
	writeFile(t, filepath.Join(dir, "bad.c"), "int main() { const int a = 1; a = 2; return a; }\n")

	r := sysyc(t, "", "build", "--ui=off", "-o", filepath.Join(dir, "out"), dir)
	require.ErrorIs(t, r.err, errReported)
	assert.Contains(t, r.stderr, "error SEM3010")
	assert.Contains(t, r.stderr, "bad.c:1:")
	assert.FileExists(t, filepath.Join(dir, "out", "ok.koopa"))
}

func TestBuildWithoutInputs(t *testing.T) {
	isolate(t)
	r := sysyc(t, "", "build", "--ui=off")
	require.Error(t, r.err)
	assert.Contains(t, r.stderr, "no input files")
}

func TestBuildToolchainMismatch(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "sysyc.toml"), "[toolchain]\nversion = \">= 99.0.0\"\n")
	writeFile(t, filepath.Join(dir, "a.c"), "int main() { return 0; }\n")

	r := sysyc(t, "", "build", "--ui=off")
	require.Error(t, r.err)
	assert.Contains(t, r.stderr, "PRJ5002")
}

func TestManifestDisablesPrelude(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "sysyc.toml"), "[build]\nprelude = false\n")
	r := sysyc(t, "int main() { return 0; }", "ir", "-")
	require.NoError(t, r.err, r.stderr)
	assert.NotContains(t, r.stdout, "decl @getint")
}

func TestGlobalFlags(t *testing.T) {
	isolate(t)
	r := sysyc(t, "", "--color=sometimes", "version")
	require.Error(t, r.err)
	assert.Contains(t, r.stderr, "invalid --color value")

	r = sysyc(t, "", "version")
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, "sysyc "))

	r = sysyc(t, "int main() { return 0; }", "--timings", "ir", "-")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "timings:")
	assert.Contains(t, r.stderr, "lower")
}

func TestTraceToStderr(t *testing.T) {
	isolate(t)
	r := sysyc(t, "int main() { return 0; }", "--trace=-", "--trace-level=detail", "ir", "-")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stderr, "> sysyc ir")
	assert.Contains(t, r.stderr, "> parse")
	assert.Contains(t, r.stderr, "> lower:main")
	assert.Contains(t, r.stderr, "< sysyc ir")
}

func TestTraceRingDumpsOnFailure(t *testing.T) {
	isolate(t)
	r := sysyc(t, "int main() { return x; }", "--trace-level=error", "--trace-mode=ring", "ir", "-")
	require.ErrorIs(t, r.err, errReported)
	assert.Contains(t, r.stderr, "trace (most recent events):")
	assert.Contains(t, r.stderr, "> lower")
}

func TestCacheClean(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "a.c"), "int main() { return 0; }\n")
	require.NoError(t, sysyc(t, "", "build", "--ui=off", "a.c").err)

	r := sysyc(t, "", "cache", "clean")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stderr, "removed 1 cached unit(s)")
}

func TestProfilingFlags(t *testing.T) {
	dir := isolate(t)
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	r := sysyc(t, "int main() { return 0; }", "--cpuprofile", cpu, "--memprofile", mem, "ir", "-")
	require.NoError(t, r.err, r.stderr)
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)
}
