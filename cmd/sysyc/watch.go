package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"sysyc/internal/buildpipeline"
	"sysyc/internal/project"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		f        buildFlags
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch [files or dirs...]",
		Short: "Rebuild whenever a source file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				if !a.found {
					return a.requireManifest()
				}
				paths = []string{a.manifest.Root}
				if srcs := a.manifest.Package.Sources; len(srcs) > 0 {
					paths = make([]string, len(srcs))
					for i, p := range srcs {
						paths[i] = a.manifest.Resolve(p)
					}
				}
			}
			opts := buildpipeline.WatchOptions{Paths: paths, Exts: project.SourceExts, Debounce: debounce}
			return buildpipeline.Watch(cmd.Context(), opts, func(ctx context.Context) error {
				return a.rebuild(ctx, args, f)
			})
		},
	}
	cmd.Flags().StringVarP(&f.outDir, "out-dir", "o", "", "output directory (default: build.out_dir or ./build)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "ignore the on-disk IR cache")
	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "quiet period before rebuilding")
	return cmd
}

// rebuild is one watch iteration. Diagnostics are printed and swallowed so
// that watching continues; only setup failures stop the loop.
func (a *app) rebuild(ctx context.Context, args []string, f buildFlags) error {
	req, err := a.buildRequest(args, f)
	if err != nil {
		return err
	}
	res, err := buildpipeline.Build(ctx, req)
	if ctx.Err() != nil {
		return nil
	}
	a.failed = false
	if res != nil {
		_ = a.reportUnits(res.Units...) //nolint:errcheck
		a.infof("[%s] %d unit(s), %d failed\n", time.Now().Format("15:04:05"), len(res.Units), len(res.Failed()))
	}
	return err
}
