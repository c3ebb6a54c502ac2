// Package project reads the sysyc.toml manifest.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"sysyc/internal/diag"
	"sysyc/internal/source"
)

const ManifestName = "sysyc.toml"

// SourceExts lists the file extensions collected from source directories.
var SourceExts = []string{".c", ".sy"}

type Manifest struct {
	Package   Package   `toml:"package"`
	Build     Build     `toml:"build"`
	Toolchain Toolchain `toml:"toolchain"`
	Trace     Trace     `toml:"trace"`

	// Root is the directory holding the manifest. Relative paths are
	// resolved against it.
	Root string `toml:"-"`
}

type Package struct {
	Name    string   `toml:"name"`
	Sources []string `toml:"sources"`
}

type Build struct {
	OutDir  string `toml:"out_dir"`
	Prelude *bool  `toml:"prelude"`
	Cache   *bool  `toml:"cache"`
	Jobs    int    `toml:"jobs"`
}

type Toolchain struct {
	Version string `toml:"version"`
}

type Trace struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

// Default is the manifest used when no sysyc.toml is found.
func Default(root string) *Manifest {
	return &Manifest{Root: root, Build: Build{OutDir: "build"}}
}

// PreludeEnabled defaults to true.
func (m *Manifest) PreludeEnabled() bool { return m.Build.Prelude == nil || *m.Build.Prelude }

// CacheEnabled defaults to true.
func (m *Manifest) CacheEnabled() bool { return m.Build.Cache == nil || *m.Build.Cache }

// OutDir is the absolute output directory.
func (m *Manifest) OutDir() string {
	out := m.Build.OutDir
	if out == "" {
		out = "build"
	}
	return m.Resolve(out)
}

// Resolve makes a manifest-relative path absolute.
func (m *Manifest) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}

// Find walks up from startDir to locate sysyc.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("project: resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("project: stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load decodes and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	var m Manifest
	md, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, diag.Newf(diag.ProjBadManifest, source.Span{}, "%s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, diag.Newf(diag.ProjBadManifest, source.Span{}, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	m.Root = filepath.Dir(path)
	if err := m.Validate(); err != nil {
		return nil, diag.Newf(diag.ProjBadManifest, source.Span{}, "%s: %v", path, err)
	}
	return &m, nil
}

// Discover loads the nearest manifest above startDir, or Default(startDir).
func Discover(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		root, err := filepath.Abs(startDir)
		if err != nil {
			return nil, false, fmt.Errorf("project: %w", err)
		}
		return Default(root), false, nil
	}
	m, err := Load(path)
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

func (m *Manifest) Validate() error {
	var errs []error
	if m.Build.Jobs < 0 {
		errs = append(errs, fmt.Errorf("build.jobs must not be negative, got %d", m.Build.Jobs))
	}
	if m.Toolchain.Version != "" {
		if _, err := semver.NewConstraint(m.Toolchain.Version); err != nil {
			errs = append(errs, fmt.Errorf("toolchain.version: %w", err))
		}
	}
	for i, s := range m.Package.Sources {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, fmt.Errorf("package.sources[%d] is empty", i))
		}
	}
	return errors.Join(errs...)
}

// CheckToolchain reports whether version satisfies toolchain.version.
func (m *Manifest) CheckToolchain(version *semver.Version) error {
	if m.Toolchain.Version == "" {
		return nil
	}
	c, err := semver.NewConstraint(m.Toolchain.Version)
	if err != nil {
		return diag.Newf(diag.ProjBadManifest, source.Span{}, "toolchain.version: %v", err)
	}
	if ok, reasons := c.Validate(version); !ok {
		msgs := make([]string, len(reasons))
		for i, r := range reasons {
			msgs[i] = r.Error()
		}
		return diag.Newf(diag.ProjToolchainMismatch, source.Span{}, "sysyc %s does not satisfy %q: %s", version, m.Toolchain.Version, strings.Join(msgs, "; "))
	}
	return nil
}

// SourceFiles expands package.sources into a sorted list of files.
// Directories contribute every file with an extension in SourceExts.
func (m *Manifest) SourceFiles() ([]string, error) {
	roots := m.Package.Sources
	if len(roots) == 0 {
		roots = []string{"."}
	}
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, dup := seen[p]; !dup {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}
	for _, r := range roots {
		found, err := CollectSources(m.Resolve(r))
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	slices.Sort(files)
	return files, nil
}

// CollectSources returns path itself for a file, or the source files under
// path for a directory. Dot-directories are skipped.
func CollectSources(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(SourceExts, filepath.Ext(p)) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("project: walk %s: %w", path, err)
	}
	slices.Sort(files)
	return files, nil
}
