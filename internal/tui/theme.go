// Package tui is the terminal front-end: login, booster opening with a
// card-reveal overlay, and the collection browser.
package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/yboost/yboost/pkg/catalog"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c89b3c"))
	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))

	cardBackStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9fafb"))

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
)

// rarityStyle colors text with the rarity's border color from the catalog
// palette.
func rarityStyle(r catalog.Rarity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color()))
}

// cardFrontStyle frames a revealed card in its rarity color.
func cardFrontStyle(r catalog.Rarity) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(r.Color())).
		Padding(0, 1)
}
