package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

var ErrCancelled = errors.New("selection cancelled")

type model struct {
	choices   []string
	cursor    int
	selected  bool
	cancelled bool
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = true
			return m, tea.Quit
		case "esc", "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	s := "Choose a template:\n\n"
	for i, choice := range m.choices {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		s += cursor + " " + choice + "\n"
	}
	if m.selected {
		s += "\nGenerating project...\n"
	}
	return s
}

// SelectTemplate lets the user pick one of templates. A single template is
// returned without prompting.
func SelectTemplate(templates []string) (string, error) {
	switch len(templates) {
	case 0:
		return "", errors.New("no templates available")
	case 1:
		return templates[0], nil
	}
	p := tea.NewProgram(model{choices: templates})
	res, err := p.Run()
	if err != nil {
		return "", err
	}
	m := res.(model)
	if m.cancelled || !m.selected {
		return "", ErrCancelled
	}
	return m.choices[m.cursor], nil
}
