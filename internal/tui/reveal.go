package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yboost/yboost/internal/client"
	"github.com/yboost/yboost/pkg/catalog"
	"github.com/yboost/yboost/pkg/reveal"
)

// revealStagger is the delay between flips during "reveal all". Purely
// cosmetic; the session itself flips cards synchronously.
const revealStagger = 200 * time.Millisecond

// revealTickMsg drives the staggered reveal-all animation.
type revealTickMsg struct{}

// revealModel is the pack-opening overlay around a reveal.Session.
type revealModel struct {
	session   *reveal.Session
	packName  string
	cursor    int
	revealing bool // reveal-all animation in progress
	errMsg    string
}

func newRevealModel(session *reveal.Session, packName string) *revealModel {
	return &revealModel{session: session, packName: packName}
}

func (m Model) updateReveal(msg tea.Msg) (tea.Model, tea.Cmd) {
	r := m.reveal

	switch msg := msg.(type) {
	case revealTickMsg:
		if !r.revealing {
			return m, nil
		}
		// Flip the next hidden card, then keep ticking until done.
		for i, c := range r.session.Cards() {
			if !c.Revealed {
				r.session.Reveal(i)
				break
			}
		}
		if r.session.AllRevealed() {
			r.revealing = false
			return m, nil
		}
		return m, tea.Tick(revealStagger, func(time.Time) tea.Msg { return revealTickMsg{} })

	case commitDoneMsg:
		if msg.err != nil {
			r.session.CommitFailed(msg.err)
			r.errMsg = "failed to save: " + msg.err.Error() + " (press c to retry, esc to discard)"
			return m, nil
		}
		r.session.CommitSucceeded()
		m.status = okStyle.Render(summaryLine(r.session))
		m.reveal = nil
		return m, m.loadCollection()

	case tea.KeyMsg:
		return m.handleRevealKey(msg)
	}
	return m, nil
}

func (m Model) handleRevealKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := m.reveal
	switch msg.String() {
	case "left", "h":
		if r.cursor > 0 {
			r.cursor--
		}
	case "right", "l":
		if r.cursor < r.session.Len()-1 {
			r.cursor++
		}
	case "enter", " ":
		r.session.Reveal(r.cursor)
	case "a":
		if !r.revealing && !r.session.AllRevealed() {
			r.revealing = true
			return m, tea.Tick(revealStagger, func(time.Time) tea.Msg { return revealTickMsg{} })
		}
	case "c":
		return m.commitReveal()
	case "esc":
		// Explicit dismissal is the only way staged awards are dropped.
		if r.session.State() != reveal.StateCommitting {
			r.session.Discard()
			m.reveal = nil
		}
	}
	return m, nil
}

func (m Model) commitReveal() (tea.Model, tea.Cmd) {
	r := m.reveal
	if err := r.session.BeginCommit(); err != nil {
		r.errMsg = err.Error()
		return m, nil
	}
	r.errMsg = ""
	awards := make([]client.Award, 0, r.session.Len())
	for _, c := range r.session.Cards() {
		awards = append(awards, client.Award{
			SkinID:   c.Skin.ID,
			SkinName: c.Skin.Name,
			Rarity:   string(c.Skin.Rarity),
		})
	}
	return m, func() tea.Msg {
		return commitDoneMsg{err: m.http.AddSkins(awards)}
	}
}

// summaryLine formats the per-rarity counts shown after a successful claim.
func summaryLine(s *reveal.Session) string {
	parts := make([]string, 0, len(catalog.Rarities))
	summary := s.Summary()
	for _, r := range catalog.Rarities {
		if n := summary[r]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, r.Label()))
		}
	}
	return fmt.Sprintf("You got %d skins! %s", s.Len(), strings.Join(parts, ", "))
}

func (r *revealModel) view(width int) string {
	cards := make([]string, 0, r.session.Len())
	for i, c := range r.session.Cards() {
		var rendered string
		if c.Revealed {
			style := cardFrontStyle(c.Skin.Rarity)
			body := rarityStyle(c.Skin.Rarity).Render(c.Skin.Rarity.Label()) + "\n" + c.Skin.Name
			rendered = style.Render(body)
		} else {
			rendered = cardBackStyle.Render("▚▚▚▚\n????")
		}
		if i == r.cursor {
			rendered = selectedStyle.Render("▾") + "\n" + rendered
		} else {
			rendered = " \n" + rendered
		}
		cards = append(cards, rendered)
	}

	hint := "←/→ move · enter: reveal · a: reveal all"
	if r.session.AllRevealed() {
		hint = "c: claim and close · esc: discard"
	}

	out := titleStyle.Render(r.packName) +
		faintStyle.Render(fmt.Sprintf("  %d/%d revealed", r.session.RevealedCount(), r.session.Len())) + "\n\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n\n" +
		faintStyle.Render(hint)
	if r.session.State() == reveal.StateCommitting {
		out += "\n" + statusBarStyle.Render("saving…")
	}
	if r.errMsg != "" {
		out += "\n" + errorStyle.Render(r.errMsg)
	}
	return out
}
