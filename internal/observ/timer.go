// Package observ collects per-phase wall-clock timings for --timings.
package observ

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Phase is one timed stage of one compilation unit.
type Phase struct {
	Unit  string // input path; empty for driver-level phases
	Name  string // lex, parse, lower, validate, emit, cache
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer is safe for concurrent use; units record phases from their own
// goroutines.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a phase and returns a handle for End.
func (t *Timer) Begin(unit, name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Unit: unit, Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Time runs fn as phase name of unit.
func (t *Timer) Time(unit, name string, fn func() error) error {
	idx := t.Begin(unit, name)
	err := fn()
	note := ""
	if err != nil {
		note = "failed"
	}
	t.End(idx, note)
	return err
}

func (t *Timer) Phases() []Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.phases)
}

type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Calls      int     `json:"calls"`
}

// Report sums phases by name. Units run in parallel, so TotalMS is the sum
// of work, not elapsed time.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	phases := t.Phases()
	if len(phases) == 0 {
		return Report{}
	}
	var report Report
	index := make(map[string]int)
	var total time.Duration
	for _, p := range phases {
		total += p.Dur
		i, ok := index[p.Name]
		if !ok {
			i = len(report.Phases)
			index[p.Name] = i
			report.Phases = append(report.Phases, PhaseReport{Name: p.Name})
		}
		report.Phases[i].DurationMS += millis(p.Dur)
		report.Phases[i].Calls++
	}
	report.TotalMS = millis(total)
	return report
}

// Summary renders Report as an aligned table.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-10s %9.2f ms", p.Name, p.DurationMS)
		if p.Calls > 1 {
			fmt.Fprintf(&sb, "  x%d", p.Calls)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-10s %9.2f ms\n", "total", report.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
