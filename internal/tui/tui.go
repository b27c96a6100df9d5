// Package tui provides a Bubble Tea progress view for batch processing.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pibulus/hexbloop-sub002/internal/pipeline"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	fileStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	stageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// eventMsg wraps a pipeline progress event.
type eventMsg pipeline.Event

// doneMsg signals that the event channel closed.
type doneMsg struct{}

// Model is the batch progress view.
type Model struct {
	events   <-chan pipeline.Event
	total    int
	current  pipeline.Event
	finished map[int]bool
	failed   map[int]bool
	bar      progress.Model
	spin     spinner.Model
	done     bool
}

// New builds a Model reading from events until it closes.
func New(events <-chan pipeline.Event, total int) Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	return Model{
		events:   events,
		total:    total,
		finished: map[int]bool{},
		failed:   map[int]bool{},
		bar:      progress.New(progress.WithDefaultGradient()),
		spin:     s,
	}
}

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		e, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(e)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.waitForEvent())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case eventMsg:
		m.current = pipeline.Event(msg)
		if m.current.Stage == pipeline.StageCleaningUp {
			m.finished[m.current.Index] = true
		}
		return m, m.waitForEvent()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("hexbloop"))
	b.WriteString("\n\n")

	ratio := 0.0
	if m.total > 0 {
		ratio = float64(len(m.finished)) / float64(m.total)
	}
	b.WriteString(m.bar.ViewAs(ratio))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d files", len(m.finished), m.total)))
	b.WriteString("\n\n")

	if m.done {
		b.WriteString(okStyle.Render("batch complete"))
		b.WriteString("\n")
		return b.String()
	}

	if m.current.FileName != "" {
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			m.spin.View(),
			fileStyle.Render(m.current.FileName),
			stageStyle.Render(string(m.current.Stage))))
	} else {
		b.WriteString(m.spin.View() + dimStyle.Render(" waiting...") + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("q to abandon the view (processing continues)"))
	b.WriteString("\n")
	return b.String()
}

// Run drives the progress view until events closes.
func Run(events <-chan pipeline.Event, total int) error {
	_, err := tea.NewProgram(New(events, total)).Run()
	return err
}

// Summary renders a post-run report line per result, styled for terminals.
func Summary(results []pipeline.Result) string {
	var b strings.Builder
	for _, r := range results {
		switch {
		case r.Status == pipeline.StatusCancelled:
			b.WriteString(dimStyle.Render("cancelled  " + r.OriginalPath))
		case r.Success():
			b.WriteString(okStyle.Render("ok  ") + r.GeneratedName + dimStyle.Render("  "+r.OutputPath))
		default:
			b.WriteString(failStyle.Render("failed  ") + r.OriginalPath + dimStyle.Render("  "+r.Err.Error()))
		}
		b.WriteString("\n")
		for _, n := range r.Notes {
			b.WriteString(dimStyle.Render("    note: "+n) + "\n")
		}
	}
	return b.String()
}
