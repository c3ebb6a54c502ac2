package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sysyc/internal/buildpipeline"
	"sysyc/internal/project"
	"sysyc/internal/source"
)

const stdinName = "<stdin>"

// buildInputs resolves command arguments to source files. With no
// arguments the manifest's package.sources are used.
func (a *app) buildInputs(args []string) ([]string, error) {
	if len(args) == 0 {
		if !a.found {
			return nil, fmt.Errorf("no input files and no %s found", project.ManifestName)
		}
		files, err := a.manifest.SourceFiles()
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("%s: package.sources matched no files", filepath.Join(a.manifest.Root, project.ManifestName))
		}
		return files, nil
	}
	var files []string
	for _, arg := range args {
		found, err := project.CollectSources(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// loadOne reads a single input for the inspection commands. "-" reads
// stdin.
func loadOne(path string, stdin io.Reader) (*source.FileSet, source.FileID, error) {
	if path != "-" {
		return buildpipeline.Load(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, 0, fmt.Errorf("read stdin: %w", err)
	}
	fs := source.NewFileSet()
	return fs, fs.AddVirtual(stdinName, data), nil
}

func (a *app) compileOptions() buildpipeline.CompileOptions {
	return buildpipeline.CompileOptions{NoPrelude: a.noPrelude, Timer: a.timer}
}

func writeText(path, text string, stdout io.Writer) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o600)
}
