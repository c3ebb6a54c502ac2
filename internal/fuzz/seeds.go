package fuzztests

import "testing"

const maxFuzzInput = 1 << 16

var seeds = []string{
	"",
	"int main() { return 0; }",
	"int main() { int a = 1; int b = 2; return a + b * 3; }",
	"const int N = 3; int g[N][2] = {{1}, 2, 3}; int main() { return g[1][0]; }",
	"int f(int a[], int n) { return a[n - 1]; } int main() { int x[2] = {4, 5}; return f(x, 2); }",
	"int main() { int i = 0; while (i < 10) { if (i == 5) break; i = i + 1; continue; } return i; }",
	"int main() { return 1 && 0 || !2; }",
	"void p(); int main() { p(); return getint(); } void p() { putint(1); }",
	"int main() { /* unterminated",
	"int main() { return 0x1F + 017 - 08; }",
	"int main( { return; }",
	"int main() { break; }",
}

func addSeeds(f *testing.F) {
	for _, s := range seeds {
		f.Add([]byte(s))
	}
}

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
