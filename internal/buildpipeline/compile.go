package buildpipeline

import (
	"context"
	"fmt"
	"time"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/irgen"
	"sysyc/internal/lexer"
	"sysyc/internal/observ"
	"sysyc/internal/parser"
	"sysyc/internal/source"
	"sysyc/internal/trace"
)

// CompileOptions apply to every unit of a build.
type CompileOptions struct {
	NoPrelude bool
	Timer     *observ.Timer // may be nil
	Progress  ProgressSink  // may be nil
}

// Unit is the outcome of compiling one source file.
type Unit struct {
	Path string
	// Files owns the unit's source so diagnostics can be rendered later.
	Files   *source.FileSet
	Program *ir.Program // nil on failure or cache hit
	IR      string
	Cached  bool
	Err     error
}

// Failed reports whether the unit produced a diagnostic.
func (u *Unit) Failed() bool { return u.Err != nil }

// Diagnostic converts the unit's error for rendering with Files.
func (u *Unit) Diagnostic() diag.Diagnostic { return diag.FromError(u.Err) }

// Load reads path into a fresh FileSet. Read failures become IO diagnostics.
func Load(path string) (*source.FileSet, source.FileID, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return fs, 0, diag.Newf(diag.IOLoadFileError, source.Span{}, "%v", err)
	}
	return fs, id, nil
}

// CompileFile runs lex, parse, lower, validate and emit on one file of fs.
// The first failing stage ends the unit; ctx is checked between stages.
func CompileFile(ctx context.Context, fs *source.FileSet, id source.FileID, opts CompileOptions) *Unit {
	file := fs.Get(id)
	u := &Unit{Path: file.Path, Files: fs}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "compile:"+file.Path, trace.ParentFromContext(ctx))
	ctx = trace.WithParent(ctx, span.ID())
	defer func() {
		detail := "ok"
		if u.Err != nil {
			detail = diag.CodeOf(u.Err).ID()
		}
		span.End(detail)
	}()

	var (
		b      *ast.Builder
		fileID ast.FileID
	)
	steps := []struct {
		stage Stage
		run   func() error
	}{
		{StageLex, func() error {
			lx := lexer.New(file, lexer.Options{})
			lx.All()
			return lx.Err()
		}},
		{StageParse, func() error {
			b = ast.NewBuilder(ast.Hints{})
			res := parser.ParseFile(ctx, lexer.New(file, lexer.Options{}), b, parser.Options{})
			fileID = res.File
			return res.Err
		}},
		{StageLower, func() error {
			p, err := irgen.Generate(ctx, b, fileID, irgen.Options{
				NoPrelude:  opts.NoPrelude,
				Tracer:     tracer,
				ParentSpan: span.ID(),
			})
			u.Program = p
			return err
		}},
		{StageValidate, func() error {
			if err := ir.Validate(u.Program); err != nil {
				return diag.Internal(source.Span{File: id}, err)
			}
			return nil
		}},
		{StageEmit, func() error {
			u.IR = ir.Text(u.Program)
			return nil
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			u.Err = err
			emit(opts.Progress, u.Path, step.stage, StatusError, err, 0)
			return u
		}
		if err := runStage(ctx, u.Path, step.stage, opts, step.run); err != nil {
			u.Err = err
			return u
		}
	}
	emit(opts.Progress, u.Path, StageEmit, StatusDone, nil, 0)
	return u
}

func runStage(ctx context.Context, path string, stage Stage, opts CompileOptions, fn func() error) error {
	emit(opts.Progress, path, stage, StatusWorking, nil, 0)
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, string(stage), trace.ParentFromContext(ctx))
	start := time.Now()
	var err error
	if opts.Timer != nil {
		err = opts.Timer.Time(path, string(stage), fn)
	} else {
		err = fn()
	}
	elapsed := time.Since(start)
	if err != nil {
		span.End(err.Error())
		emit(opts.Progress, path, stage, StatusError, err, elapsed)
		return err
	}
	span.End("")
	return nil
}

// CompileSource compiles in-memory content registered under name.
func CompileSource(ctx context.Context, name string, content []byte, opts CompileOptions) *Unit {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	return CompileFile(ctx, fs, id, opts)
}

// CompilePath loads and compiles one file.
func CompilePath(ctx context.Context, path string, opts CompileOptions) *Unit {
	fs, id, err := Load(path)
	if err != nil {
		emit(opts.Progress, path, StageLex, StatusError, err, 0)
		return &Unit{Path: path, Files: fs, Err: err}
	}
	return CompileFile(ctx, fs, id, opts)
}

func (u *Unit) String() string {
	switch {
	case u.Err != nil:
		return fmt.Sprintf("%s: %v", u.Path, u.Err)
	case u.Cached:
		return u.Path + ": cached"
	}
	return u.Path + ": ok"
}
