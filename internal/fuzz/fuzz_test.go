package fuzztests

import (
	"context"
	"testing"
	"time"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/irgen"
	"sysyc/internal/lexer"
	"sysyc/internal/parser"
	"sysyc/internal/source"
	"sysyc/internal/testkit"
	"sysyc/internal/token"
)

// A parse or lowering that takes longer than this is treated as a hang.
const stepTimeout = 5 * time.Second

func FuzzLexer(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.c", clamp(input))
		bag := diag.NewBag(64)
		lx := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		toks := lx.All()
		if toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream does not end with EOF")
		}
		if (lx.Err() != nil) != bag.HasErrors() {
			t.Fatalf("Err() = %v but bag has %d diagnostics", lx.Err(), bag.Len())
		}
	})
}

func FuzzParseAndLower(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		ctx, cancel := context.WithTimeout(context.Background(), stepTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- parseAndLower(ctx, clamp(input))
		}()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("input %q: %v", truncate(input, 200), err)
			}
		case <-ctx.Done():
			t.Fatalf("hang after %v on input %q", stepTimeout, truncate(input, 200))
		}
	})
}

// parseAndLower returns an error only for broken invariants. Diagnostics
// on bad input are expected.
func parseAndLower(ctx context.Context, input []byte) error {
	fs := source.NewFileSet()
	id := fs.AddVirtual("fuzz.c", input)
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(ctx, lexer.New(fs.Get(id), lexer.Options{}), b, parser.Options{})
	if res.Err != nil {
		return nil
	}
	if err := testkit.CheckSpanInvariants(b, res.File, fs.Get(id)); err != nil {
		return err
	}
	p, err := irgen.Generate(ctx, b, res.File, irgen.Options{})
	if err != nil {
		if diag.CodeOf(err) == diag.IRInternalInvariantViolation {
			return err
		}
		return nil
	}
	return testkit.CheckProgram(p)
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
