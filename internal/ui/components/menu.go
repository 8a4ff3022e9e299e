package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathmentor/internal/ui/theme"
)

// MenuKeys are the bindings a Menu reacts to.
type MenuKeys struct {
	Up, Down, First, Last, Pick key.Binding
}

var DefaultMenuKeys = MenuKeys{
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	First: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
	Last:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
	Pick:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
}

// Menu is a vertical single-choice list. Picking an item calls OnPick
// with its label. The cursor stops at both ends.
type Menu struct {
	Labels   []string
	Selected int
	OnPick   func(label string) tea.Cmd
	Keys     MenuKeys
}

func NewMenu(labels []string, onPick func(label string) tea.Cmd) Menu {
	return Menu{Labels: labels, OnPick: onPick, Keys: DefaultMenuKeys}
}

// Select moves the cursor to label; unknown labels leave it in place.
func (m *Menu) Select(label string) {
	for i, l := range m.Labels {
		if l == label {
			m.Selected = i
			return
		}
	}
}

// Current returns the label under the cursor, or "" for an empty menu.
func (m Menu) Current() string {
	if m.Selected < 0 || m.Selected >= len(m.Labels) {
		return ""
	}
	return m.Labels[m.Selected]
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Labels) == 0 {
		return m, nil
	}

	last := len(m.Labels) - 1
	switch {
	case key.Matches(kmsg, m.Keys.Up):
		m.Selected = max(m.Selected-1, 0)
	case key.Matches(kmsg, m.Keys.Down):
		m.Selected = min(m.Selected+1, last)
	case key.Matches(kmsg, m.Keys.First):
		m.Selected = 0
	case key.Matches(kmsg, m.Keys.Last):
		m.Selected = last
	case key.Matches(kmsg, m.Keys.Pick):
		if m.OnPick != nil {
			return m, m.OnPick(m.Current())
		}
	}
	return m, nil
}

// View renders at most rows labels, scrolled so the cursor stays visible.
// rows <= 0 renders all of them.
func (m Menu) View(rows int) string {
	start, end := 0, len(m.Labels)
	if rows > 0 && rows < len(m.Labels) {
		start = min(max(m.Selected-rows/2, 0), len(m.Labels)-rows)
		end = start + rows
	}

	var b strings.Builder
	for i, label := range m.Labels[start:end] {
		if start+i == m.Selected {
			b.WriteString(theme.Selected.Render("  ▸ " + label))
		} else {
			b.WriteString(theme.Unselected.Render("    " + label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
