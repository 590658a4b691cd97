package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"blend65/internal/analysis"
)

// trackedPhases are the rows shown in the tracker. Reset and Done mark
// run boundaries and carry no work of their own.
var trackedPhases = [...]analysis.Phase{
	analysis.PhaseModules,
	analysis.PhaseDeclarations,
	analysis.PhaseExpressions,
	analysis.PhaseCoordination,
	analysis.PhaseAggregation,
}

type phaseRow struct {
	phase   analysis.Phase
	status  string
	elapsed time.Duration
}

type progressModel struct {
	title   string
	events  <-chan analysis.PhaseEvent
	spinner spinner.Model
	prog    progress.Model
	rows    []phaseRow
	index   map[analysis.Phase]int
	units   int
	width   int
	done    bool
}

type eventMsg analysis.PhaseEvent
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders analysis
// phase progress. Close the event channel to finish the program.
func NewProgressModel(title string, events <-chan analysis.PhaseEvent) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	rows := make([]phaseRow, 0, len(trackedPhases))
	index := make(map[analysis.Phase]int, len(trackedPhases))
	for i, phase := range trackedPhases {
		rows = append(rows, phaseRow{phase: phase, status: "queued"})
		index[phase] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		rows:    rows,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(analysis.PhaseEvent(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
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
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progModel, cmd := m.prog.Update(msg)
		m.prog = progModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))

	header := m.title
	if m.units > 0 {
		header = fmt.Sprintf("%s: %d units", header, m.units)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(truncate(header, m.width)))
	b.WriteString("\n\n")

	for _, row := range m.rows {
		status := styleStatus(row.status).Render(fmt.Sprintf("%8s", row.status))
		line := fmt.Sprintf("  %s  %s", status, row.phase.String())
		if row.elapsed > 0 {
			line += fmt.Sprintf("  %.1f ms", float64(row.elapsed)/float64(time.Millisecond))
		}
		b.WriteString(truncate(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev analysis.PhaseEvent) tea.Cmd {
	if ev.Units > 0 {
		m.units = ev.Units
	}
	idx, ok := m.index[ev.Phase]
	if !ok {
		return nil
	}
	switch ev.Status {
	case analysis.PhaseStart:
		m.rows[idx].status = "running"
	case analysis.PhaseEnd:
		m.rows[idx].status = "done"
		m.rows[idx].elapsed = ev.Elapsed
	}

	completed := 0.0
	for _, row := range m.rows {
		switch row.status {
		case "done":
			completed++
		case "running":
			completed += 0.5
		}
	}
	return m.prog.SetPercent(completed / float64(len(m.rows)))
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "running":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
