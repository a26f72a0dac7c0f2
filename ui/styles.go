package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors.
var (
	gray        = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
	fuchsia     = lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}
	yellowGreen = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"}
	green       = lipgloss.Color("#04B575")
	red         = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	yellow      = lipgloss.AdaptiveColor{Light: "#D7A100", Dark: "#F2D36B"}
)

// styles are bound to the session's renderer so they follow its color
// profile rather than whatever stdout happens to be.
type styles struct {
	errorPrefix lipgloss.Style
	warnPrefix  lipgloss.Style
	infoPrefix  lipgloss.Style
	userPrompt  lipgloss.Style
	userText    lipgloss.Style
	subtle      lipgloss.Style
	keyword     lipgloss.Style
	greeting    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		errorPrefix: r.NewStyle().Foreground(red).Bold(true),
		warnPrefix:  r.NewStyle().Foreground(yellow).Bold(true),
		infoPrefix:  r.NewStyle().Foreground(yellow),
		userPrompt:  r.NewStyle().Foreground(fuchsia).Bold(true),
		userText:    r.NewStyle().Foreground(green),
		subtle:      r.NewStyle().Foreground(gray),
		keyword:     r.NewStyle().Foreground(fuchsia),
		greeting:    r.NewStyle().Foreground(yellowGreen).Bold(true),
	}
}
