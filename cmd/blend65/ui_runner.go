package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"blend65/internal/analysis"
	"blend65/internal/driver"
	"blend65/internal/ui"
)

type analyzeOutcome struct {
	out *driver.Outcome
	err error
}

// runAnalyzeWithUI runs the driver in a goroutine and feeds its phase
// events into a Bubble Tea progress view. The event channel is closed
// when the run finishes, which tells the view to quit.
func runAnalyzeWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*driver.Outcome, error) {
	events := make(chan analysis.PhaseEvent, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Analysis.Observer = func(ev analysis.PhaseEvent) {
			events <- ev
		}
		out, err := driver.AnalyzeFiles(ctx, files, optsCopy)
		outcomeCh <- analyzeOutcome{out: out, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.out, uiErr
	}
	return outcome.out, outcome.err
}
