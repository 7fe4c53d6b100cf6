package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yboost/yboost/pkg/catalog"
	"github.com/yboost/yboost/pkg/collection"
	"github.com/yboost/yboost/pkg/database/models"
)

// collectionModel is the aggregated-collection browser.
type collectionModel struct {
	agg       collection.Collection
	visible   []collection.Entry
	selected  int
	search    textinput.Model
	filtering bool // search input has focus
	rarity    catalog.Rarity
	storeOK   bool
	loaded    bool
	status    string
}

func newCollectionModel() collectionModel {
	search := textinput.New()
	search.Placeholder = "filter by name"
	search.CharLimit = 40
	return collectionModel{search: search, storeOK: true, rarity: catalog.RarityNone}
}

// apply ingests a fresh load from the server.
func (c *collectionModel) apply(msg collectionLoadedMsg) {
	c.loaded = true
	if msg.err != nil {
		c.status = "load failed: " + msg.err.Error()
		return
	}
	c.status = ""
	c.storeOK = msg.resp.StoreAvailable
	records := make([]models.OwnedSkin, 0, len(msg.resp.Skins))
	for _, s := range msg.resp.Skins {
		records = append(records, models.OwnedSkin{
			SkinID:    s.SkinID,
			SkinName:  s.SkinName,
			Rarity:    s.Rarity,
			CreatedAt: s.ObtainedAt,
		})
	}
	c.agg = collection.Aggregate(records)
	c.refilter()
}

func (c *collectionModel) refilter() {
	c.visible = c.agg.Filter(c.search.Value(), c.rarity)
	if c.selected >= len(c.visible) {
		c.selected = max(len(c.visible)-1, 0)
	}
}

// cycleRarity steps the rarity filter through none -> each tier -> none.
func (c *collectionModel) cycleRarity() {
	if c.rarity == catalog.RarityNone {
		c.rarity = catalog.Rarities[0]
		return
	}
	for i, r := range catalog.Rarities {
		if r == c.rarity {
			if i == len(catalog.Rarities)-1 {
				c.rarity = catalog.RarityNone
			} else {
				c.rarity = catalog.Rarities[i+1]
			}
			return
		}
	}
	c.rarity = catalog.RarityNone
}

func (m Model) updateCollection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := &m.collection

	if c.filtering {
		switch msg.String() {
		case "enter", "esc":
			c.filtering = false
			c.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		c.search, cmd = c.search.Update(msg)
		c.refilter()
		return m, cmd
	}

	switch msg.String() {
	case "/":
		c.filtering = true
		return m, c.search.Focus()
	case "r":
		c.cycleRarity()
		c.refilter()
	case "g":
		return m, m.loadCollection()
	case "up", "k":
		if c.selected > 0 {
			c.selected--
		}
	case "down", "j":
		if c.selected < len(c.visible)-1 {
			c.selected++
		}
	case "d":
		if c.selected < len(c.visible) {
			entry := c.visible[c.selected]
			return m, func() tea.Msg {
				return removeDoneMsg{skinID: entry.SkinID, err: m.http.RemoveSkin(entry.SkinID)}
			}
		}
	}
	return m, nil
}

func (c collectionModel) view() string {
	if !c.loaded {
		return faintStyle.Render("  loading collection…")
	}

	out := titleStyle.Render("Collection") + "  " + statusBarStyle.Render(fmt.Sprintf(
		"%d unique · %d total · %d legendary · %d mythic+",
		c.agg.UniqueCount(), c.agg.TotalCount(), c.agg.LegendaryCount(), c.agg.MythicPlusCount(),
	)) + "\n"

	if !c.storeOK {
		out += errorStyle.Render("  store unavailable, showing an empty collection") + "\n"
	}

	filter := "  / " + c.search.View()
	if c.rarity != catalog.RarityNone {
		filter += "   rarity: " + rarityStyle(c.rarity).Render(c.rarity.Label())
	} else {
		filter += "   rarity: any"
	}
	out += filter + faintStyle.Render("  (r to cycle)") + "\n\n"

	if len(c.visible) == 0 {
		out += faintStyle.Render("  no skins match")
	}
	for i, e := range c.visible {
		line := fmt.Sprintf("%s  %s", e.Name, rarityStyle(e.Rarity).Render(e.Rarity.Label()))
		if e.Count > 1 {
			line += statusBarStyle.Render(fmt.Sprintf("  x%d", e.Count))
		}
		if i == c.selected {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		out += line + "\n"
	}

	out += "\n" + faintStyle.Render("  d: remove all copies · g: reload · /: filter")
	if c.status != "" {
		out += "\n  " + errorStyle.Render(c.status)
	}
	return out
}
