package ui

// spinner.go provides a blocking spinner for long-running operations.
// The title can be replaced while the action runs to report progress.

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user interrupts a spinner
var ErrCancelled = errors.New("cancelled")

// actionDoneMsg signals the action completed
type actionDoneMsg struct {
	err error
}

// progressMsg replaces the spinner title
type progressMsg string

// blockingSpinnerModel runs a spinner while an action executes
type blockingSpinnerModel struct {
	spinner   spinner.Model
	title     string
	progress  string
	done      bool
	cancelled bool
	err       error
}

// RunWithProgress executes action while displaying a spinner. The action may
// call progress to update the line shown next to the spinner. ctrl+c cancels
// the context passed to action and returns ErrCancelled once action returns.
func RunWithProgress(ctx context.Context, title string, action func(ctx context.Context, progress func(string)) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := blockingSpinnerModel{
		spinner: NewAppSpinner(),
		title:   title,
	}
	p := tea.NewProgram(m)

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := action(ctx, func(s string) {
			p.Send(progressMsg(s))
		})
		p.Send(actionDoneMsg{err: err})
	}()

	finalModel, err := p.Run()
	cancel()
	<-done
	if err != nil {
		return fmt.Errorf("spinner program error: %w", err)
	}

	final := finalModel.(blockingSpinnerModel)
	if final.cancelled {
		return ErrCancelled
	}
	return final.err
}

func (m blockingSpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m blockingSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case actionDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case progressMsg:
		m.progress = string(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// Allow ctrl+c to cancel
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m blockingSpinnerModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	if m.progress != "" {
		return fmt.Sprintf("%s %s %s", m.spinner.View(), RenderNormal(m.title), ProgressStyle.Render(m.progress))
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), RenderNormal(m.title))
}
