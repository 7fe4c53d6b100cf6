package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yboost/yboost/internal/client"
	"github.com/yboost/yboost/pkg/catalog"
	"github.com/yboost/yboost/pkg/collection"
)

// galleryModel is the full-catalog browser: every skin, owned or not, with
// name/rarity/skin-line/legacy/owned filters.
type galleryModel struct {
	entries  []collection.GalleryEntry // whole catalog, ownership-annotated
	visible  []collection.GalleryEntry
	lines    []int // distinct skin line ids, for the line filter cycle
	selected int

	search    textinput.Model
	filtering bool
	filter    collection.GalleryFilter
	status    string
}

func newGalleryModel() galleryModel {
	search := textinput.New()
	search.Placeholder = "filter by name"
	search.CharLimit = 40
	return galleryModel{search: search}
}

// rebuild recomputes the gallery from the current catalog and collection.
// Called whenever either side reloads.
func (g *galleryModel) rebuild(cat *catalog.Catalog, owned collection.Collection) {
	if cat == nil {
		return
	}
	g.entries = collection.Gallery(cat.AllSkins(), owned)
	g.lines = collection.SkinLines(g.entries)
	g.refilter()
}

func (g *galleryModel) refilter() {
	g.filter.Query = g.search.Value()
	g.visible = collection.FilterGallery(g.entries, g.filter)
	if g.selected >= len(g.visible) {
		g.selected = max(len(g.visible)-1, 0)
	}
}

func (g *galleryModel) cycleRarity() {
	if g.filter.Rarity == catalog.RarityNone {
		g.filter.Rarity = catalog.Rarities[0]
		return
	}
	for i, r := range catalog.Rarities {
		if r == g.filter.Rarity {
			if i == len(catalog.Rarities)-1 {
				g.filter.Rarity = catalog.RarityNone
			} else {
				g.filter.Rarity = catalog.Rarities[i+1]
			}
			return
		}
	}
	g.filter.Rarity = catalog.RarityNone
}

// cycleLine steps the skin line filter through none -> each known line -> none.
func (g *galleryModel) cycleLine() {
	if len(g.lines) == 0 {
		return
	}
	if g.filter.SkinLine == 0 {
		g.filter.SkinLine = g.lines[0]
		return
	}
	for i, id := range g.lines {
		if id == g.filter.SkinLine {
			if i == len(g.lines)-1 {
				g.filter.SkinLine = 0
			} else {
				g.filter.SkinLine = g.lines[i+1]
			}
			return
		}
	}
	g.filter.SkinLine = 0
}

func (m Model) updateGallery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := &m.gallery

	if g.filtering {
		switch msg.String() {
		case "enter", "esc":
			g.filtering = false
			g.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		g.search, cmd = g.search.Update(msg)
		g.refilter()
		return m, cmd
	}

	switch msg.String() {
	case "/":
		g.filtering = true
		return m, g.search.Focus()
	case "r":
		g.cycleRarity()
		g.refilter()
	case "s":
		g.cycleLine()
		g.refilter()
	case "l":
		g.filter.LegacyOnly = !g.filter.LegacyOnly
		g.refilter()
	case "o":
		g.filter.OwnedOnly = !g.filter.OwnedOnly
		g.refilter()
	case "g":
		return m, m.loadCollection()
	case "up", "k":
		if g.selected > 0 {
			g.selected--
		}
	case "down", "j":
		if g.selected < len(g.visible)-1 {
			g.selected++
		}
	case "a":
		if g.selected < len(g.visible) {
			entry := g.visible[g.selected]
			award := client.Award{
				SkinID:   entry.Skin.ID,
				SkinName: entry.Skin.Name,
				Rarity:   string(entry.Skin.Rarity),
			}
			return m, func() tea.Msg {
				return galleryActionDoneMsg{err: m.http.AddSkins([]client.Award{award})}
			}
		}
	case "d":
		if g.selected < len(g.visible) {
			entry := g.visible[g.selected]
			if !entry.Owned {
				g.status = "not in your collection"
				return m, nil
			}
			return m, func() tea.Msg {
				return galleryActionDoneMsg{err: m.http.RemoveSkin(entry.Skin.ID)}
			}
		}
	}
	return m, nil
}

func (g galleryModel) view() string {
	out := titleStyle.Render("Gallery") + "  " + statusBarStyle.Render(fmt.Sprintf(
		"%d of %d skins", len(g.visible), len(g.entries),
	)) + "\n"

	filter := "  / " + g.search.View()
	if g.filter.Rarity != catalog.RarityNone {
		filter += "   rarity: " + rarityStyle(g.filter.Rarity).Render(g.filter.Rarity.Label())
	} else {
		filter += "   rarity: any"
	}
	if g.filter.SkinLine != 0 {
		filter += fmt.Sprintf("   line: %d", g.filter.SkinLine)
	} else {
		filter += "   line: any"
	}
	if g.filter.LegacyOnly {
		filter += "   [legacy]"
	}
	if g.filter.OwnedOnly {
		filter += "   [owned]"
	}
	out += filter + "\n\n"

	if len(g.visible) == 0 {
		out += faintStyle.Render("  no skins match")
	}
	for i, e := range g.visible {
		line := fmt.Sprintf("%s  %s", e.Skin.Name, rarityStyle(e.Skin.Rarity).Render(e.Skin.Rarity.Label()))
		if e.Skin.IsLegacy {
			line += faintStyle.Render("  legacy")
		}
		if e.Owned {
			line += okStyle.Render(fmt.Sprintf("  ✓ x%d", e.Copies))
		}
		if i == g.selected {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		out += line + "\n"
	}

	out += "\n" + faintStyle.Render("  a: add · d: remove · r: rarity · s: line · l: legacy · o: owned · /: filter")
	if g.status != "" {
		out += "\n  " + errorStyle.Render(g.status)
	}
	return out
}
