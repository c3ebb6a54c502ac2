// Package testkit holds structural checks shared by parser, lowering and
// fuzz tests.
package testkit

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"sysyc/internal/ast"
	"sysyc/internal/ir"
	"sysyc/internal/source"
)

// CheckSpanInvariants verifies that the file span lies inside the source
// and that every top-level item span is non-empty, belongs to the file and
// lies inside the file span.
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return errors.New("testkit: nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("testkit: file node %d not found", fileID)
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("testkit: content length: %w", err)
	}
	if f.Span.End < f.Span.Start || f.Span.End > size {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, size)
	}

	var errs []error
	for _, id := range f.Items {
		item := b.Items.Get(id)
		if item == nil {
			errs = append(errs, fmt.Errorf("nil item for id=%d", id))
			continue
		}
		sp := item.Span
		switch {
		case sp.End <= sp.Start:
			errs = append(errs, fmt.Errorf("empty item span %v", sp))
		case sp.File != sf.ID:
			errs = append(errs, fmt.Errorf("item span %v points to file %d, want %d", sp, sp.File, sf.ID))
		case sp.Start < f.Span.Start || sp.End > f.Span.End:
			errs = append(errs, fmt.Errorf("item span %v outside file span %v", sp, f.Span))
		}
	}
	return errors.Join(errs...)
}

// CheckProgram runs ir.Validate and additionally requires function names
// to be unique and every global to carry an "@" name.
func CheckProgram(p *ir.Program) error {
	if err := ir.Validate(p); err != nil {
		return err
	}
	var errs []error
	seen := make(map[string]bool)
	for _, fn := range p.Funcs() {
		name := p.Func(fn).Name()
		if seen[name] {
			errs = append(errs, fmt.Errorf("function %s defined twice", name))
		}
		seen[name] = true
	}
	for _, g := range p.Globals() {
		if d := p.Inst(g); !strings.HasPrefix(d.Name, "@") {
			errs = append(errs, fmt.Errorf("global %d has name %q", g, d.Name))
		}
	}
	return errors.Join(errs...)
}
