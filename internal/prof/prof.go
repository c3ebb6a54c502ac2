// Package prof wires Go's runtime profilers to the --cpuprofile,
// --memprofile and --exectrace flags.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	rtrace "runtime/trace"
)

type Config struct {
	CPU       string // CPU profile path
	Mem       string // heap profile path, written on Stop
	ExecTrace string // runtime execution trace path
}

func (c Config) Enabled() bool { return c.CPU != "" || c.Mem != "" || c.ExecTrace != "" }

// Session is a set of running profilers.
type Session struct {
	cfg       Config
	cpuFile   *os.File
	traceFile *os.File
}

// Start begins the profilers named in cfg. On error nothing is left
// running.
func Start(cfg Config) (*Session, error) {
	s := &Session{cfg: cfg}
	if cfg.CPU != "" {
		f, err := os.Create(cfg.CPU)
		if err != nil {
			return nil, fmt.Errorf("prof: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("prof: cpu: %w", err)
		}
		s.cpuFile = f
	}
	if cfg.ExecTrace != "" {
		f, err := os.Create(cfg.ExecTrace)
		if err == nil {
			err = rtrace.Start(f)
			if err != nil {
				f.Close() //nolint:errcheck
			}
		}
		if err != nil {
			s.Stop() //nolint:errcheck
			return nil, fmt.Errorf("prof: exec trace: %w", err)
		}
		s.traceFile = f
	}
	return s, nil
}

// Stop ends the running profilers and writes the heap profile. A nil
// session is a no-op.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		errs = append(errs, s.cpuFile.Close())
		s.cpuFile = nil
	}
	if s.traceFile != nil {
		rtrace.Stop()
		errs = append(errs, s.traceFile.Close())
		s.traceFile = nil
	}
	if s.cfg.Mem != "" {
		errs = append(errs, writeHeap(s.cfg.Mem))
		s.cfg.Mem = ""
	}
	return errors.Join(errs...)
}

func writeHeap(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("prof: %w", err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("prof: heap: %w", err)
	}
	return nil
}
