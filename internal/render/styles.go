package render

import (
	"github.com/amaumene/cinesearch/internal/models"
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	Amber     = lipgloss.Color("#E5A00D")
	SlateDark = lipgloss.Color("#1F2937")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Red       = lipgloss.Color("#EF4444")
	Blue      = lipgloss.Color("#3B82F6")
)

// Styles is one theme's set of text and border styles
type Styles struct {
	Title  lipgloss.Style
	Meta   lipgloss.Style
	Dim    lipgloss.Style
	Error  lipgloss.Style
	Card   lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Border lipgloss.Style
	Footer lipgloss.Style
}

// ForTheme returns the styles of mode
func ForTheme(mode models.ThemeMode) Styles {
	text, accent := SlateDark, Blue
	if mode == models.ThemeDark {
		text, accent = White, Amber
	}

	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(text).
			Bold(true),
		Meta: lipgloss.NewStyle().
			Foreground(LightGray),
		Dim: lipgloss.NewStyle().
			Foreground(DimGray).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(Red).
			Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			Width(cardWidth),
		Header: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Padding(0, 1),
		Cell: lipgloss.NewStyle().
			Foreground(text).
			Padding(0, 1),
		Border: lipgloss.NewStyle().
			Foreground(DimGray),
		Footer: lipgloss.NewStyle().
			Foreground(DimGray).
			Margin(1, 0, 0, 0),
	}
}
