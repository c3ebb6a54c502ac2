package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"sysyc/internal/trace"
)

// WatchOptions configure Watch.
type WatchOptions struct {
	// Paths are files or directories. Files are watched through their
	// parent directory so that editors replacing the file are seen.
	Paths    []string
	Exts     []string      // extensions that trigger a rebuild
	Debounce time.Duration // quiet period before rebuilding; 0 means 100ms
}

// Watch calls rebuild once at start and again after every burst of changes
// to a matching file. It returns when ctx is done or rebuild fails with an
// error other than ErrBuildFailed.
func Watch(ctx context.Context, opts WatchOptions, rebuild func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close() //nolint:errcheck

	dirs, err := watchDirs(opts.Paths)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch: %s: %w", dir, err)
		}
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	run := func() error {
		err := rebuild(ctx)
		if err == nil || errors.Is(err, ErrBuildFailed) {
			return nil
		}
		return err
	}
	if err := run(); err != nil {
		return err
	}

	tracer := trace.FromContext(ctx)
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, opts.Exts) {
				continue
			}
			trace.Point(tracer, trace.ScopeDriver, "watch", ev.String(), trace.ParentFromContext(ctx))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			pending = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-pending:
			pending = nil
			if err := run(); err != nil {
				return err
			}
		}
	}
}

func relevant(ev fsnotify.Event, exts []string) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	return len(exts) == 0 || slices.Contains(exts, filepath.Ext(ev.Name))
}

// watchDirs returns the directories to register: the parent of each file
// and every non-hidden directory below each directory path. fsnotify does
// not recurse on its own.
func watchDirs(paths []string) ([]string, error) {
	var dirs []string
	add := func(d string) {
		d = filepath.Clean(d)
		if !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("watch: %w", err)
		}
		if !info.IsDir() {
			add(filepath.Dir(p))
			continue
		}
		err = filepath.WalkDir(p, func(sub string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if sub != p && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			add(sub)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("watch: %w", err)
		}
	}
	slices.Sort(dirs)
	return dirs, nil
}
