package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style

	Label   lipgloss.Style
	Focused lipgloss.Style

	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style

	Link    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

func DefaultTheme() Theme {
	button := lipgloss.NewStyle().Padding(0, 2)

	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),

		Label:   lipgloss.NewStyle().Width(13),
		Focused: lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true),

		Button:         button.Foreground(lipgloss.Color("230")).Background(lipgloss.Color("61")),
		ButtonFocused:  button.Foreground(lipgloss.Color("230")).Background(lipgloss.Color("63")).Bold(true),
		ButtonDisabled: button.Foreground(lipgloss.Color("245")).Background(lipgloss.Color("237")),

		Link:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}
