// Package layout composes the header, body and footer of every screen.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmentor/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3

	// Screens narrower than this drop side margins.
	CompactWidthThreshold = 100
)

const appName = "MathMentor"

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// ContentHeight is what remains of totalHeight after the header and footer.
func ContentHeight(totalHeight int) int {
	return max(totalHeight-HeaderHeight-FooterHeight, 0)
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	text := fmt.Sprintf("The chalkboard needs more room.\n\nResize to at least %d x %d\n(now %d x %d)",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Body.Render(text))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
}

// RenderHeader draws the app name on the left, title in the middle and
// status (may be empty) on the right.
func RenderHeader(title, status string, width int) string {
	inner := max(width-4, 0)
	third := inner / 3

	left := theme.Title.Width(third).Render(appName)
	right := lipgloss.NewStyle().Foreground(theme.Orange).Width(third).Align(lipgloss.Right).Render(status)
	center := theme.Body.Width(max(inner-2*third, 0)).Align(lipgloss.Center).Render(title)

	return bar(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, left, center, right))
}

// Centered renders text centered across width in the given style.
func Centered(style lipgloss.Style, width int, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}

// RenderFooter lists key hints separated by dots.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Yellow).Bold(true)
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + theme.Subtitle.Render(h.Description)
	}
	return bar(width).Render(strings.Join(parts, theme.Subtitle.Render("  ·  ")))
}

// RenderFrame stacks header, content and footer, giving the content all
// remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
