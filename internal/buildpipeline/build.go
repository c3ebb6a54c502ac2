// Package buildpipeline compiles SysY files to Koopa IR, one unit per file,
// in parallel, with an optional on-disk cache of emitted IR.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sysyc/internal/diag"
	"sysyc/internal/source"
	"sysyc/internal/trace"
)

type BuildRequest struct {
	Files []string
	// OutDir receives one .koopa file per unit. Empty means nothing is
	// written.
	OutDir string
	// BaseDir anchors output paths: src/a.c under BaseDir becomes
	// OutDir/src/a.koopa.
	BaseDir   string
	Jobs      int // 0 means GOMAXPROCS
	Toolchain string
	Cache     *DiskCache // may be nil
	CompileOptions
}

type BuildResult struct {
	Units   []*Unit // in request order
	Outputs []string
	Elapsed time.Duration
}

// Failed returns the units that reported a diagnostic.
func (r *BuildResult) Failed() []*Unit {
	var out []*Unit
	for _, u := range r.Units {
		if u.Failed() {
			out = append(out, u)
		}
	}
	return out
}

// Bag collects one diagnostic per failed unit. Each diagnostic's span is
// relative to its own unit's FileSet.
func (r *BuildResult) Bag() *diag.Bag {
	bag := diag.NewBag(len(r.Units) + 1)
	for _, u := range r.Failed() {
		bag.Add(u.Diagnostic())
	}
	return bag
}

// ErrBuildFailed is returned when at least one unit has a diagnostic.
var ErrBuildFailed = errors.New("build failed")

// Build compiles every file of req. Unit failures do not stop the other
// units; they are reported through BuildResult and ErrBuildFailed. I/O
// failures writing outputs and context cancellation abort the build.
func Build(ctx context.Context, req *BuildRequest) (*BuildResult, error) {
	if req == nil {
		return nil, fmt.Errorf("buildpipeline: missing build request")
	}
	start := time.Now()
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "build", trace.ParentFromContext(ctx))
	span.WithExtra("units", fmt.Sprint(len(req.Files)))
	defer span.End("")
	ctx = trace.WithParent(ctx, span.ID())

	for _, f := range req.Files {
		emit(req.Progress, f, "", StatusQueued, nil, 0)
	}

	res := &BuildResult{
		Units:   make([]*Unit, len(req.Files)),
		Outputs: make([]string, len(req.Files)),
	}
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range req.Files {
		g.Go(func() error {
			u := compileCached(gctx, path, req)
			res.Units[i] = u
			if u.Failed() {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				return nil
			}
			if req.OutDir == "" {
				return nil
			}
			out, err := writeOutput(req, path, u.IR)
			if err != nil {
				u.Err = err
				emit(req.Progress, path, StageEmit, StatusError, err, 0)
				return err
			}
			res.Outputs[i] = out
			return nil
		})
	}
	err := g.Wait()
	res.Elapsed = time.Since(start)
	if err != nil {
		return res, err
	}
	if len(res.Failed()) > 0 {
		return res, ErrBuildFailed
	}
	return res, nil
}

func compileCached(ctx context.Context, path string, req *BuildRequest) *Unit {
	fs, id, err := Load(path)
	if err != nil {
		emit(req.Progress, path, StageLex, StatusError, err, 0)
		return &Unit{Path: path, Files: fs, Err: err}
	}
	if req.Cache == nil {
		return CompileFile(ctx, fs, id, req.CompileOptions)
	}

	key := NewCacheKey(req.Toolchain, req.NoPrelude, fs.Get(id).Content)
	tracer := trace.FromContext(ctx)
	if payload, ok, err := req.Cache.Get(key, req.Toolchain); err == nil && ok {
		trace.Point(tracer, trace.ScopePass, "cache", "hit "+path, trace.ParentFromContext(ctx))
		emit(req.Progress, path, StageCache, StatusCached, nil, 0)
		return &Unit{Path: path, Files: fs, IR: payload.IR, Cached: true}
	} else if err != nil {
		// A corrupt entry is rebuilt and overwritten below.
		trace.Point(tracer, trace.ScopePass, "cache", err.Error(), trace.ParentFromContext(ctx))
	}

	u := CompileFile(ctx, fs, id, req.CompileOptions)
	if u.Failed() {
		return u
	}
	err = req.Cache.Put(key, &CachePayload{
		Toolchain: req.Toolchain,
		Source:    path,
		IR:        u.IR,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		trace.Point(tracer, trace.ScopePass, "cache", err.Error(), trace.ParentFromContext(ctx))
	}
	return u
}

// OutputPath maps a source file to its .koopa file under outDir. Files
// outside baseDir keep only their base name.
func OutputPath(outDir, baseDir, path string) string {
	name := filepath.Base(path)
	if baseDir != "" {
		if rel, err := filepath.Rel(baseDir, path); err == nil && !strings.HasPrefix(rel, "..") {
			name = rel
		}
	}
	return filepath.Join(outDir, strings.TrimSuffix(name, filepath.Ext(name))+".koopa")
}

func writeOutput(req *BuildRequest, path, text string) (string, error) {
	out := OutputPath(req.OutDir, req.BaseDir, path)
	if err := os.MkdirAll(filepath.Dir(out), 0o750); err != nil {
		return "", diag.Newf(diag.IOWriteError, source.Span{}, "%v", err)
	}
	if err := os.WriteFile(out, []byte(text), 0o600); err != nil {
		return "", diag.Newf(diag.IOWriteError, source.Span{}, "%v", err)
	}
	return out, nil
}
