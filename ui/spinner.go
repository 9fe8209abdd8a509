package ui

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

type taskDoneMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	message string
}

func newSpinnerModel(message string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SuccessStyle
	return spinnerModel{spinner: s, message: message}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case taskDoneMsg:
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	return m.spinner.View() + " " + m.message
}

// WithSpinner runs fn while showing an animated spinner with the message.
// Without a terminal on stderr the task runs silently.
func WithSpinner(message string, fn func() error) error {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return fn()
	}

	p := tea.NewProgram(newSpinnerModel(message), tea.WithOutput(os.Stderr))
	done := make(chan error, 1)
	go func() {
		done <- fn()
		p.Send(taskDoneMsg{})
	}()
	// The spinner is cosmetic; the task error decides the outcome even if
	// the program loop fails.
	_, _ = p.Run()
	return <-done
}
