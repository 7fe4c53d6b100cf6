package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yboost/yboost/internal/client"
	"github.com/yboost/yboost/pkg/booster"
	"github.com/yboost/yboost/pkg/catalog"
	"github.com/yboost/yboost/pkg/reveal"
)

// boostersModel is the pack-selection screen.
type boostersModel struct {
	packs    []client.Booster
	selected int
	status   string
}

func newBoostersModel() boostersModel {
	return boostersModel{}
}

func (m Model) updateBoosters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.boosters.selected > 0 {
			m.boosters.selected--
		}
	case "down", "j":
		if m.boosters.selected < len(m.boosters.packs)-1 {
			m.boosters.selected++
		}
	case "enter", " ":
		return m.openBooster()
	}
	return m, nil
}

// openBooster generates the pack contents locally and stages them for reveal.
func (m Model) openBooster() (tea.Model, tea.Cmd) {
	if m.cat == nil {
		m.boosters.status = "catalog not loaded yet"
		return m, nil
	}
	if len(m.boosters.packs) == 0 {
		return m, nil
	}
	pack := m.boosters.packs[m.boosters.selected]

	gen := booster.NewGenerator(m.cat, nil)
	session, err := reveal.NewSession(gen.Generate(pack.Count))
	if err != nil {
		// Empty pack after filtering: surfaced, never committed.
		m.boosters.status = "pack generation failed: " + err.Error()
		return m, nil
	}
	m.boosters.status = ""
	m.reveal = newRevealModel(session, pack.Name)
	return m, nil
}

func (b boostersModel) view(cat *catalog.Catalog) string {
	if len(b.packs) == 0 {
		return faintStyle.Render("  no boosters configured")
	}
	out := titleStyle.Render("Boosters") + "\n\n"
	for i, p := range b.packs {
		line := fmt.Sprintf("%s  (%d cards)", p.Name, p.Count)
		if i == b.selected {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		out += line + "\n"
	}
	out += "\n" + faintStyle.Render("  enter: open")
	if cat != nil {
		out += faintStyle.Render(fmt.Sprintf("   catalog: %d skins", cat.Len()))
	}
	if b.status != "" {
		out += "\n  " + errorStyle.Render(b.status)
	}
	return out
}
