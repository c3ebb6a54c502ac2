package main

import (
	"context"

	"github.com/spf13/cobra"

	"sysyc/internal/buildpipeline"
	"sysyc/internal/ui"
	"sysyc/internal/version"
)

type buildFlags struct {
	outDir  string
	noCache bool
	ui      string
}

func newBuildCmd(a *app) *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "build [files or dirs...]",
		Short: "Compile sources to .koopa files",
		Long: "Build compiles each input to Koopa IR and writes one .koopa file per input " +
			"into the output directory. Without arguments the sources listed in sysyc.toml are built.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(cmd.Context(), cmd, args, f)
		},
	}
	cmd.Flags().StringVarP(&f.outDir, "out-dir", "o", "", "output directory (default: build.out_dir or ./build)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "ignore the on-disk IR cache")
	cmd.Flags().StringVar(&f.ui, "ui", "auto", "progress view (auto|on|off)")
	return cmd
}

func (a *app) buildRequest(args []string, f buildFlags) (*buildpipeline.BuildRequest, error) {
	if err := a.requireManifest(); err != nil {
		return nil, err
	}
	files, err := a.buildInputs(args)
	if err != nil {
		return nil, err
	}
	outDir := f.outDir
	if outDir == "" {
		outDir = a.manifest.OutDir()
	}
	req := &buildpipeline.BuildRequest{
		Files:          files,
		OutDir:         outDir,
		BaseDir:        a.manifest.Root,
		Jobs:           a.jobs,
		Toolchain:      version.Version,
		CompileOptions: a.compileOptions(),
	}
	if !f.noCache && a.manifest.CacheEnabled() {
		dir, err := buildpipeline.DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		if req.Cache, err = buildpipeline.OpenDiskCache(dir); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func (a *app) runBuild(ctx context.Context, cmd *cobra.Command, args []string, f buildFlags) error {
	mode, err := readUIMode(f.ui)
	if err != nil {
		return err
	}
	req, err := a.buildRequest(args, f)
	if err != nil {
		return err
	}
	res, err := a.build(ctx, cmd, req, shouldUseTUI(mode, cmd.ErrOrStderr()) && !a.quiet)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if res != nil {
		if reportErr := a.reportUnits(res.Units...); reportErr != nil {
			return reportErr
		}
	}
	if err != nil {
		return err
	}
	a.summarize(res)
	return nil
}

// build runs the pipeline, with the progress view when tui is set.
func (a *app) build(ctx context.Context, cmd *cobra.Command, req *buildpipeline.BuildRequest, tui bool) (*buildpipeline.BuildResult, error) {
	if !tui || len(req.Files) < 2 {
		return buildpipeline.Build(ctx, req)
	}
	events := make(chan buildpipeline.Event, 64)
	req.Progress = buildpipeline.ChannelSink{Ch: events}

	uiDone := make(chan error, 1)
	go func() {
		uiDone <- ui.Run(ctx, cmd.ErrOrStderr(), "building", req.BaseDir, req.Files, events)
	}()
	res, err := buildpipeline.Build(ctx, req)
	close(events)
	if uiErr := <-uiDone; uiErr != nil && err == nil {
		err = uiErr
	}
	return res, err
}

func (a *app) summarize(res *buildpipeline.BuildResult) {
	cached := 0
	for _, u := range res.Units {
		if u.Cached {
			cached++
		}
	}
	a.infof("built %d unit(s) in %s (%d cached)\n", len(res.Units), res.Elapsed.Round(1e6), cached)
}
