package components

import (
	"charm.land/bubbles/v2/progress"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmentor/internal/ui/theme"
)

// ProgressBar is a labelled bar with a caption such as "7/10 correct".
type ProgressBar struct {
	Label   string
	Percent float64
	Caption string
	Width   int
}

func NewProgressBar(label string, percent float64, caption string, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, Caption: caption, Width: width}
}

// View draws label, bar and caption on one line within Width. The bar
// keeps at least four cells.
func (p ProgressBar) View() string {
	var label, caption string
	if p.Label != "" {
		label = theme.Body.Render(p.Label) + "  "
	}
	if p.Caption != "" {
		caption = "  " + theme.Subtitle.Render(p.Caption)
	}

	bar := progress.New(
		progress.WithWidth(max(p.Width-lipgloss.Width(label)-lipgloss.Width(caption), 4)),
		progress.WithoutPercentage(),
	)
	return label + bar.ViewAs(min(max(p.Percent, 0), 1)) + caption
}
