package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Title  TitleTheme
	Card   CardTheme
	Menu   MenuTheme
	Footer FooterTheme
	Modal  ModalTheme
}

// TitleTheme styles the dashboard title bar.
type TitleTheme struct {
	Bar    lipgloss.Style
	Text   lipgloss.Style
	Button lipgloss.Style
}

// CardTheme styles report cards and their header actions.
type CardTheme struct {
	Frame        lipgloss.Style
	FocusedFrame lipgloss.Style
	Title        lipgloss.Style
	Action       lipgloss.Style
	ActiveAction lipgloss.Style
	Body         lipgloss.Style
}

// MenuTheme styles the dashboard menu drawer.
type MenuTheme struct {
	Frame     lipgloss.Style
	Item      lipgloss.Style
	Selected  lipgloss.Style
	Separator lipgloss.Style
	Extension lipgloss.Style
}

// FooterTheme groups styles used by the bottom status line.
type FooterTheme struct {
	Status lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style
}

// ModalTheme styles centered modal overlays (export dialog, pickers).
type ModalTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Body     lipgloss.Style
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Focused  lipgloss.Style
	Selected lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	muted := lipgloss.Color("244")
	danger := lipgloss.Color("#FF5F5F")

	action := lipgloss.NewStyle().Foreground(muted)
	item := lipgloss.NewStyle().Padding(0, 1)
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return Theme{
		Title: TitleTheme{
			Bar:    lipgloss.NewStyle().Padding(0, 1),
			Text:   lipgloss.NewStyle().Bold(true),
			Button: lipgloss.NewStyle().Foreground(accent).Bold(true),
		},
		Card: CardTheme{
			Frame:        card,
			FocusedFrame: card.BorderForeground(accent),
			Title:        lipgloss.NewStyle().Bold(true),
			Action:       action,
			ActiveAction: action.Foreground(accent).Bold(true),
			Body:         lipgloss.NewStyle(),
		},
		Menu: MenuTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent),
			Item:      item,
			Selected:  item.Reverse(true),
			Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			Extension: item.Foreground(lipgloss.Color("117")),
		},
		Footer: FooterTheme{
			Status: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("214")),
			Error:  lipgloss.NewStyle().Foreground(danger),
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(1, 2),
			Title:    lipgloss.NewStyle().Bold(true),
			Body:     lipgloss.NewStyle(),
			Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			Muted:    lipgloss.NewStyle().Foreground(muted),
			Error:    lipgloss.NewStyle().Foreground(danger),
			Focused:  lipgloss.NewStyle().Foreground(accent).Bold(true),
			Selected: lipgloss.NewStyle().Reverse(true),
		},
	}
}
