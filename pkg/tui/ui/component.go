package ui

import tea "github.com/charmbracelet/bubbletea/v2"

// Component defines the contract for inline widgets rendered in the main
// dashboard surface.
type Component interface {
	Init() tea.Cmd
	Update(tea.Msg) (Component, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Overlay defines the contract for modal widgets composed over the surface.
// Overlays return a cursor so text inputs keep their caret when floating.
type Overlay interface {
	Init() tea.Cmd
	Update(tea.Msg) (Overlay, tea.Cmd)
	View() (string, *tea.Cursor)
	SetSize(width, height int)
}
