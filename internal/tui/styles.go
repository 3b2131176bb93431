package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorDim    = lipgloss.Color("240")
	colorAccent = lipgloss.Color("12")

	styleTitle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	styleStatusBar = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)

	styleTitlecard = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 4)

	styleEmpty = lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true)
)

// stageStyles paint the lyrics in the project colors.
type stageStyles struct {
	sung   lipgloss.Style
	unsung lipgloss.Style
	stage  lipgloss.Style
}

func newStageStyles(sung, unsung, background string) stageStyles {
	return stageStyles{
		sung:   lipgloss.NewStyle().Foreground(lipgloss.Color(sung)).Bold(true),
		unsung: lipgloss.NewStyle().Foreground(lipgloss.Color(unsung)),
		stage: lipgloss.NewStyle().
			Background(lipgloss.Color(background)).
			Padding(1, 2),
	}
}
