// Package router keeps the stack of screens the app navigates through.
// Screens never touch the stack directly; they return the commands below
// and the app feeds the resulting NavMsg back into the Stack.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathmentor/internal/screen"
)

// Op is a navigation operation.
type Op int

const (
	OpPush Op = iota
	OpBack
	OpReplace
	OpHome
)

func (o Op) String() string {
	switch o {
	case OpPush:
		return "push"
	case OpBack:
		return "back"
	case OpReplace:
		return "replace"
	case OpHome:
		return "home"
	default:
		return "unknown"
	}
}

// NavMsg asks the stack to navigate. Screen is set for OpPush and OpReplace.
type NavMsg struct {
	Op     Op
	Screen screen.Screen
}

func nav(op Op, s screen.Screen) tea.Cmd {
	return func() tea.Msg { return NavMsg{Op: op, Screen: s} }
}

// Push opens s above the current screen.
func Push(s screen.Screen) tea.Cmd { return nav(OpPush, s) }

// Back closes the current screen.
func Back() tea.Cmd { return nav(OpBack, nil) }

// Replace swaps the current screen for s.
func Replace(s screen.Screen) tea.Cmd { return nav(OpReplace, s) }

// Home returns to the first screen.
func Home() tea.Cmd { return nav(OpHome, nil) }

// Stack holds the open screens, root first. It never becomes empty.
type Stack struct {
	screens []screen.Screen
}

func New(root screen.Screen) *Stack {
	return &Stack{screens: []screen.Screen{root}}
}

func (s *Stack) Active() screen.Screen {
	return s.screens[len(s.screens)-1]
}

func (s *Stack) Depth() int {
	return len(s.screens)
}

// Navigate applies m. Screens that become active through a push or replace
// are initialised; screens revealed by going back keep their state.
func (s *Stack) Navigate(m NavMsg) tea.Cmd {
	top := len(s.screens) - 1
	switch m.Op {
	case OpPush:
		s.screens = append(s.screens, m.Screen)
	case OpReplace:
		s.screens[top] = m.Screen
	case OpBack:
		if top > 0 {
			s.screens = s.screens[:top]
		}
		return nil
	case OpHome:
		s.screens = s.screens[:1]
		return nil
	default:
		return nil
	}
	return m.Screen.Init()
}

// Update handles navigation and otherwise forwards msg to the active screen.
func (s *Stack) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(NavMsg); ok {
		return s.Navigate(m)
	}
	next, cmd := s.Active().Update(msg)
	s.screens[len(s.screens)-1] = next
	return cmd
}

func (s *Stack) View(width, height int) string {
	return s.Active().View(width, height)
}
