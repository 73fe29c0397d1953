package ui

import (
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/strum/pkg/config"
)

// Styles holds the lipgloss styles derived from the theme section.
type Styles struct {
	ActiveBorder  lipgloss.Style
	HoveredBorder lipgloss.Style
	IdleBorder    lipgloss.Style
	Title         lipgloss.Style
	Text          lipgloss.Style
	Dim           lipgloss.Style
	Selected      lipgloss.Style
	ErrorText     lipgloss.Style
	Playbar       lipgloss.Style
	Breadcrumb    lipgloss.Style
	HelpHint      lipgloss.Style
}

func newStyles(t config.ThemeConfig) Styles {
	border := lipgloss.RoundedBorder()
	return Styles{
		ActiveBorder: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color(t.Active)),
		HoveredBorder: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color(t.Hovered)),
		IdleBorder: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color(t.Inactive)),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Banner)),
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Inactive)),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Selection)),
		ErrorText: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Error)),
		Playbar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Playbar)),
		Breadcrumb: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Hovered)),
		HelpHint: lipgloss.NewStyle().
			Faint(true).
			Foreground(lipgloss.Color(t.Inactive)),
	}
}

// borderFor picks the border style for a component's focus state.
func (s Styles) borderFor(focused, hovered bool) lipgloss.Style {
	switch {
	case focused:
		return s.ActiveBorder
	case hovered:
		return s.HoveredBorder
	default:
		return s.IdleBorder
	}
}
