// Package ui renders build progress in a terminal.
package ui

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"sysyc/internal/buildpipeline"
)

type progressModel struct {
	title   string
	base    string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	items   []fileItem
	index   map[string]int
	width   int
	done    bool
}

type fileItem struct {
	path   string
	label  string
	stage  buildpipeline.Stage
	status buildpipeline.Status
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that shows one line per file
// and an overall bar. Files are matched against Event.File and displayed
// relative to base. It quits when events is closed.
func NewProgressModel(title, base string, files []string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		base:    base,
		events:  events,
		spinner: sp,
		bar:     bar,
		items:   make([]fileItem, len(files)),
		index:   make(map[string]int, len(files)),
		width:   80,
	}
	for i, f := range files {
		m.items[i] = fileItem{path: f, label: "queued", status: buildpipeline.StatusQueued}
		m.index[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(buildpipeline.Event(msg)), m.listen())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	header := fmt.Sprintf("%s %s", m.spinner.View(), m.title)
	if m.done {
		header = "done: " + m.title
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-16, 20)
	for _, it := range m.items {
		fmt.Fprintf(&b, "  %s %s\n", styleFor(it.status).Render(fmt.Sprintf("%10s", it.label)), truncate(m.display(it.path), nameWidth))
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) display(path string) string {
	if m.base == "" {
		return path
	}
	if rel, err := filepath.Rel(m.base, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func (m *progressModel) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev buildpipeline.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	it := &m.items[idx]
	it.status = ev.Status
	if ev.Stage != "" {
		it.stage = ev.Stage
	}
	it.label = label(ev.Stage, ev.Status)
	return m.bar.SetPercent(m.fraction())
}

// fraction counts finished units fully and working units by stage.
func (m *progressModel) fraction() float64 {
	total := 0.0
	for _, it := range m.items {
		total += itemProgress(it)
	}
	return total / float64(len(m.items))
}

func itemProgress(it fileItem) float64 {
	switch it.status {
	case buildpipeline.StatusDone, buildpipeline.StatusCached, buildpipeline.StatusError:
		return 1
	case buildpipeline.StatusWorking:
		for i, s := range buildpipeline.Stages {
			if s == it.stage {
				return float64(i) / float64(len(buildpipeline.Stages))
			}
		}
	}
	return 0
}

func label(stage buildpipeline.Stage, status buildpipeline.Status) string {
	switch status {
	case buildpipeline.StatusWorking:
		switch stage {
		case buildpipeline.StageLex:
			return "lexing"
		case buildpipeline.StageParse:
			return "parsing"
		case buildpipeline.StageLower:
			return "lowering"
		case buildpipeline.StageValidate:
			return "validating"
		case buildpipeline.StageEmit:
			return "emitting"
		}
		return string(stage)
	case "":
		return "queued"
	}
	return string(status)
}

func styleFor(status buildpipeline.Status) lipgloss.Style {
	switch status {
	case buildpipeline.StatusDone, buildpipeline.StatusCached:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case buildpipeline.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case buildpipeline.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

// Run shows the progress view on out until events is closed or ctx ends.
func Run(ctx context.Context, out io.Writer, title, base string, files []string, events <-chan buildpipeline.Event) error {
	p := tea.NewProgram(
		NewProgressModel(title, base, files, events),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
