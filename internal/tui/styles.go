package tui

import "github.com/charmbracelet/lipgloss"

const narrationHeight = 4

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	currentLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("226")). // Yellow
				Bold(true)

	executedLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34")) // Green

	cursorStyle = lipgloss.NewStyle().Reverse(true)

	varNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	narrationPendingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("208")) // Orange

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
)
