// Package theme holds the chalkboard palette and shared styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

var (
	Chalk     = lipgloss.Color("#F1F5F9")
	ChalkDim  = lipgloss.Color("#9CA3AF")
	Board     = lipgloss.Color("#1F2F2A")
	BoardEdge = lipgloss.Color("#3F5A50")
	Yellow    = lipgloss.Color("#FACC15")
	Sky       = lipgloss.Color("#38BDF8")
	Coral     = lipgloss.Color("#FB7185")
	Mint      = lipgloss.Color("#4ADE80")
	Orange    = lipgloss.Color("#FB923C")
)

// Semantic aliases used by components.
var (
	Primary = Yellow
	Success = Mint
	Error   = Coral
	Text    = Chalk
	TextDim = ChalkDim
	BgCard  = Board
	Border  = BoardEdge
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Yellow)
	Subtitle = lipgloss.NewStyle().Foreground(ChalkDim)
	Body     = lipgloss.NewStyle().Foreground(Chalk)
	Hint     = lipgloss.NewStyle().Foreground(ChalkDim).Italic(true)
	Label    = lipgloss.NewStyle().Foreground(Sky).Bold(true)

	// Banner frames one-off notices such as the upgrade suggestion.
	Banner = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Orange).
		Foreground(Orange).
		Bold(true).
		Padding(0, 2)

	Selected   = lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Chalk)
	Correct    = lipgloss.NewStyle().Foreground(Mint).Bold(true)
	Incorrect  = lipgloss.NewStyle().Foreground(Coral).Bold(true)
)

// difficultyColors maps Basic, Moderate and Complex to a badge color.
var difficultyColors = map[string]color.Color{
	"Basic":    Mint,
	"Moderate": Yellow,
	"Complex":  Coral,
}

// Difficulty returns the badge style for a difficulty label. Unknown labels
// render dim.
func Difficulty(label string) lipgloss.Style {
	c, ok := difficultyColors[label]
	if !ok {
		c = ChalkDim
	}
	return lipgloss.NewStyle().Foreground(Board).Background(c).Bold(true).Padding(0, 1)
}
